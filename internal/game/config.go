package game

// BetTypeConfig é a tabela de odds e limites de um método de aposta.
// Odds em centésimos (fixed-point): 9.90 => 990. Somente leitura no core;
// o provider (internal/lottery-service/betconfig) cuida de cache e reload.
type BetTypeConfig struct {
	Method         BetMethod       `json:"method"`
	MinStakeCents  int64           `json:"min_stake_cents"`
	MaxStakeCents  int64           `json:"max_stake_cents"`
	MaxPayoutCents int64           `json:"max_payout_cents"`
	MaxMultiplier  int64           `json:"max_multiplier"`
	OddsX100       int64           `json:"odds_x100,omitempty"`       // POSITION: odd por posição acertada
	OddsByCount    map[int]int64   `json:"odds_by_count,omitempty"`   // ANY: odd por selected_count
	OddsByGroup    map[int]int64   `json:"odds_by_group,omitempty"`   // GROUP: odd por tamanho do grupo
}

// DefaultBetTypeConfig devolve a tabela padrão usada quando a config
// externa não está disponível.
func DefaultBetTypeConfig(m BetMethod) BetTypeConfig {
	base := BetTypeConfig{
		Method:         m,
		MinStakeCents:  100,        // R$ 1,00
		MaxStakeCents:  100_000,    // R$ 1.000,00
		MaxPayoutCents: 50_000_000, // R$ 500.000,00
		MaxMultiplier:  10,
	}
	switch m {
	case MethodPosition:
		base.OddsX100 = 990
	case MethodAny:
		base.OddsByCount = map[int]int64{
			1: 220,
			2: 1_050,
			3: 5_800,
			4: 25_000,
			5: 90_000,
		}
	case MethodGroup:
		base.OddsByGroup = map[int]int64{
			2: 350,
			3: 1_600,
			4: 9_000,
			5: 45_000,
		}
	}
	return base
}
