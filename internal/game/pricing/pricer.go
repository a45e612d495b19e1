package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// Quote é o resultado da precificação de uma seleção: quantidade de apostas
// elementares, odds travadas, stake total a reservar e teto de prêmio.
type Quote struct {
	ElementaryCount      int64
	OddsX100             int64
	StakeTotalCents      int64
	PotentialPayoutCents int64
	WinProbability       float64
}

// Pricer valida e precifica seleções contra a config vigente. Computação
// pura: nenhum efeito além da leitura da config.
type Pricer struct {
	cfg game.ConfigProvider
}

func NewPricer(cfg game.ConfigProvider) *Pricer { return &Pricer{cfg: cfg} }

// Price expande a seleção em apostas elementares e aplica odds e limites.
// stakeCents é o valor por aposta elementar; o multiplicador escala stake e
// prêmio linearmente (entra uma única vez, via stake total).
func (p *Pricer) Price(ctx context.Context, sel game.Selection, stakeCents, multiplier int64) (Quote, error) {
	if err := sel.Validate(); err != nil {
		return Quote{}, err
	}

	cfg, err := p.cfg.BetConfig(ctx, sel.Method)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: bet config: %v", game.ErrCollaborator, err)
	}

	if multiplier < 1 || multiplier > cfg.MaxMultiplier {
		return Quote{}, game.NewValidationError(game.ReasonMultiplierRange,
			"multiplier %d out of range [1,%d]", multiplier, cfg.MaxMultiplier)
	}
	if stakeCents < cfg.MinStakeCents {
		return Quote{}, game.NewValidationError(game.ReasonStakeBelowMin,
			"stake %d below minimum %d", stakeCents, cfg.MinStakeCents)
	}
	if stakeCents > cfg.MaxStakeCents {
		return Quote{}, game.NewValidationError(game.ReasonStakeAboveMax,
			"stake %d above maximum %d", stakeCents, cfg.MaxStakeCents)
	}

	var q Quote
	switch sel.Method {
	case game.MethodPosition:
		k := len(sel.Positions)
		q.ElementaryCount = int64(k)
		q.OddsX100 = cfg.OddsX100
		q.StakeTotalCents = stakeCents * q.ElementaryCount * multiplier
		// Prêmio máximo: todas as posições acertadas.
		q.PotentialPayoutCents = stakeCents * q.OddsX100 * int64(k) * multiplier / 100
		q.WinProbability = math.Pow(1.0/float64(game.NumberMax), float64(k))

	case game.MethodAny:
		q.ElementaryCount = Binomial(len(sel.Numbers), sel.SelectedCount)
		odds, ok := cfg.OddsByCount[sel.SelectedCount]
		if !ok {
			return Quote{}, fmt.Errorf("%w: no odds configured for selected_count %d",
				game.ErrCollaborator, sel.SelectedCount)
		}
		q.OddsX100 = odds
		q.StakeTotalCents = stakeCents * q.ElementaryCount * multiplier
		// Prêmio máximo: todos os subconjuntos possíveis dentro dos 5
		// sorteados acertam, C(min(n,5), selected_count) apostas elementares.
		maxDrawn := len(sel.Numbers)
		if maxDrawn > game.DrawnCount {
			maxDrawn = game.DrawnCount
		}
		q.PotentialPayoutCents = stakeCents * Binomial(maxDrawn, sel.SelectedCount) * q.OddsX100 * multiplier / 100
		q.WinProbability = HypergeomAtLeast(len(sel.Numbers), sel.SelectedCount)

	case game.MethodGroup:
		q.ElementaryCount = 1
		odds, ok := cfg.OddsByGroup[len(sel.Numbers)]
		if !ok {
			return Quote{}, fmt.Errorf("%w: no odds configured for group of %d",
				game.ErrCollaborator, len(sel.Numbers))
		}
		q.OddsX100 = odds
		q.StakeTotalCents = stakeCents * multiplier
		q.PotentialPayoutCents = q.StakeTotalCents * q.OddsX100 / 100
		q.WinProbability = groupProbability(len(sel.Numbers))
	}

	if q.PotentialPayoutCents > cfg.MaxPayoutCents {
		return Quote{}, game.NewValidationError(game.ReasonPayoutAboveCap,
			"potential payout %d above cap %d", q.PotentialPayoutCents, cfg.MaxPayoutCents)
	}
	return q, nil
}
