package dto

type ReserveRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // ex: betId
}

type ReserveResponse struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

type CreditRequest struct {
	UserID         string `json:"userId"`
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"` // ex: betId
}

type ReleaseRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}
