package dto

type DepositRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ rastreio
}

type ReserveRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // ex: betId
}

type ReleaseRequest struct {
	UserID      string `json:"userId"`
	ExternalRef string `json:"external_ref"`
}

// CreditRequest paga um prêmio. A chave de idempotência (betId) garante
// crédito único mesmo com retries da liquidação.
type CreditRequest struct {
	UserID         string `json:"userId"`
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}
