package game

import (
	"fmt"
	"time"
)

// Parâmetros fixos do jogo: sorteio de 5 números distintos entre 1 e 11.
const (
	NumberMin  = 1
	NumberMax  = 11
	DrawnCount = 5
)

type DrawStatus string

const (
	DrawOpen      DrawStatus = "OPEN"
	DrawClosed    DrawStatus = "CLOSED"
	DrawCompleted DrawStatus = "COMPLETED"
)

// Draw é um concurso: janela de apostas, números sorteados e agregados.
// winning_numbers e seed são escritos uma única vez pela liquidação.
type Draw struct {
	ID               string
	Number           string // rótulo único, ex: "20260830-003"
	OpensAt          time.Time
	ClosesAt         time.Time
	DrawsAt          time.Time
	Status           DrawStatus
	WinningNumbers   []int
	Seed             string // hex do seed do sorteio, persistido para auditoria
	BetCount         int64
	TotalStakeCents  int64
	TotalPayoutCents int64
	ProfitCents      int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DrawAggregates são os totais recalculados de forma determinística na liquidação.
type DrawAggregates struct {
	BetCount         int64
	TotalStakeCents  int64
	TotalPayoutCents int64
	ProfitCents      int64
	Winners          int64
}

// ValidateWinningNumbers valida a invariante estrutural do resultado:
// exatamente 5 números, no intervalo [1,11], sem repetição, em ordem crescente.
func ValidateWinningNumbers(nums []int) error {
	if len(nums) != DrawnCount {
		return fmt.Errorf("%w: expected %d numbers, got %d", ErrInvariant, DrawnCount, len(nums))
	}
	prev := 0
	for _, n := range nums {
		if n < NumberMin || n > NumberMax {
			return fmt.Errorf("%w: number %d out of range [%d,%d]", ErrInvariant, n, NumberMin, NumberMax)
		}
		if n <= prev {
			return fmt.Errorf("%w: numbers must be strictly ascending", ErrInvariant)
		}
		prev = n
	}
	return nil
}
