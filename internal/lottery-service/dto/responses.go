package dto

import "time"

type BetResponse struct {
	BetID                string     `json:"bet_id"`
	UserID               string     `json:"userId"`
	DrawID               string     `json:"drawId"`
	Method               string     `json:"method"`
	Numbers              []int      `json:"numbers"`
	Positions            []int      `json:"positions,omitempty"`
	SelectedCount        int        `json:"selected_count,omitempty"`
	StakeCents           int64      `json:"stake_cents"`
	Multiplier           int64      `json:"multiplier"`
	OddsX100             int64      `json:"odds_x100"`
	ElementaryCount      int64      `json:"elementary_count"`
	StakeTotalCents      int64      `json:"stake_total_cents"`
	PotentialPayoutCents int64      `json:"potential_payout_cents"`
	WinProbability       float64    `json:"win_probability"`
	Status               string     `json:"status"`
	PayoutCents          int64      `json:"payout_cents"`
	SettledAt            *time.Time `json:"settled_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type DrawResponse struct {
	DrawID           string    `json:"draw_id"`
	DrawNumber       string    `json:"draw_number"`
	Status           string    `json:"status"`
	OpensAt          time.Time `json:"opens_at"`
	ClosesAt         time.Time `json:"closes_at"`
	DrawsAt          time.Time `json:"draws_at"`
	WinningNumbers   []int     `json:"winning_numbers,omitempty"`
	Seed             string    `json:"seed,omitempty"`
	BetCount         int64     `json:"bet_count"`
	TotalStakeCents  int64     `json:"total_stake_cents"`
	TotalPayoutCents int64     `json:"total_payout_cents"`
	ProfitCents      int64     `json:"profit_cents"`
}

type VerifyDrawResponse struct {
	DrawID string `json:"draw_id"`
	Valid  bool   `json:"valid"`
}

// ErrorResponse padroniza erros da API; reason só aparece em falha de validação.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
