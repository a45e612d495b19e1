package settle

import (
	"github.com/radieske/lotto-platform-poc/internal/game"
	"github.com/radieske/lotto-platform-poc/internal/game/pricing"
)

// Outcome é o resultado da avaliação de uma única aposta contra o sorteio.
type Outcome struct {
	Won         bool
	Matches     int
	PayoutCents int64
}

// Evaluate aplica a regra do método da aposta sobre os números sorteados.
// Função pura; cada aposta é avaliada de forma independente. O prêmio é
// sempre stake por aposta elementar vezes a quantidade de apostas
// elementares vencedoras vezes odds e multiplicador.
func Evaluate(b *game.Bet, winning []int) Outcome {
	switch b.Method {
	case game.MethodPosition:
		// Compara o número apostado com o sorteado na posição alvo.
		m := 0
		for i, pos := range b.Positions {
			if pos >= 1 && pos <= len(winning) && b.Numbers[i] == winning[pos-1] {
				m++
			}
		}
		if m == 0 {
			return Outcome{}
		}
		return Outcome{
			Won:         true,
			Matches:     m,
			PayoutCents: b.StakeCents * b.OddsX100 * int64(m) * b.Multiplier / 100,
		}

	case game.MethodAny:
		matched := intersectCount(b.Numbers, winning)
		if matched < b.SelectedCount {
			return Outcome{Matches: matched}
		}
		// Cada subconjunto de selected_count números todos sorteados é uma
		// aposta elementar vencedora: C(matched, selected_count) delas pagam.
		winCount := pricing.Binomial(matched, b.SelectedCount)
		return Outcome{
			Won:         true,
			Matches:     matched,
			PayoutCents: b.StakeCents * winCount * b.OddsX100 * b.Multiplier / 100,
		}

	case game.MethodGroup:
		matched := intersectCount(b.Numbers, winning)
		if matched != len(b.Numbers) {
			return Outcome{Matches: matched}
		}
		return Outcome{
			Won:         true,
			Matches:     matched,
			PayoutCents: b.StakeTotalCents * b.OddsX100 / 100,
		}
	}
	return Outcome{}
}

func intersectCount(chosen, winning []int) int {
	set := make(map[int]bool, len(winning))
	for _, n := range winning {
		set[n] = true
	}
	count := 0
	for _, n := range chosen {
		if set[n] {
			count++
		}
	}
	return count
}
