package events

import "time"

// Evento publicado pelo draw-scheduler-worker quando a janela de apostas
// fecha; dispara a liquidação.
type DrawClosed struct {
	DrawID     string    `json:"draw_id"`
	DrawNumber string    `json:"draw_number"`
	DrawsAt    time.Time `json:"draws_at"`
	TsUnixMs   int64     `json:"ts_unix_ms"`
}

// Evento publicado pelo settlement-worker após a liquidação completa.
type DrawCompleted struct {
	DrawID           string    `json:"draw_id"`
	DrawNumber       string    `json:"draw_number"`
	WinningNumbers   []int     `json:"winning_numbers"`
	BetCount         int64     `json:"bet_count"`
	TotalStakeCents  int64     `json:"total_stake_cents"`
	TotalPayoutCents int64     `json:"total_payout_cents"`
	ProfitCents      int64     `json:"profit_cents"`
	Ts               time.Time `json:"ts"`
}
