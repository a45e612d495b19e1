package game

import "time"

type BetMethod string

const (
	MethodPosition BetMethod = "POSITION"
	MethodAny      BetMethod = "ANY"
	MethodGroup    BetMethod = "GROUP"
)

type BetStatus string

const (
	BetPending BetStatus = "PENDING"
	BetWon     BetStatus = "WON"
	BetLost    BetStatus = "LOST"
)

// Bet é uma aposta persistida. stake_cents é o valor por aposta elementar;
// stake_total_cents = stake_cents * elementary_count * multiplier e é o valor
// efetivamente reservado na carteira. As odds ficam travadas na criação.
type Bet struct {
	ID                   string
	UserID               string
	DrawID               string
	Method               BetMethod
	Numbers              []int
	Positions            []int // POSITION: posição alvo (1-5) de cada número
	SelectedCount        int   // ANY: mínimo de acertos exigido
	StakeCents           int64
	Multiplier           int64
	OddsX100             int64 // odds em centésimos (2.20 => 220)
	ElementaryCount      int64
	StakeTotalCents      int64
	PotentialPayoutCents int64
	WinProbability       float64
	Status               BetStatus
	PayoutCents          int64
	SettledAt            *time.Time
	CreatedAt            time.Time
}
