package events

type BetPlaced struct {
	BetID                string  `json:"bet_id"`
	UserID               string  `json:"user_id"`
	DrawID               string  `json:"draw_id"`
	Method               string  `json:"method"`
	StakeTotalCents      int64   `json:"stake_total_cents"`
	PotentialPayoutCents int64   `json:"potential_payout_cents"`
	OddsX100             int64   `json:"odds_x100"`
	WinProbability       float64 `json:"win_probability"`
	TsUnixMs             int64   `json:"ts_unix_ms"`
}
