package events

import "time"

// Evento por aposta liquidada; consumidores típicos: notificação ao usuário.
type BetSettled struct {
	BetID       string    `json:"bet_id"`
	UserID      string    `json:"user_id"`
	DrawID      string    `json:"draw_id"`
	Status      string    `json:"status"` // "WON" | "LOST"
	PayoutCents int64     `json:"payout_cents"`
	Ts          time.Time `json:"ts"`
}
