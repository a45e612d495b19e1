package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// provider de teste: devolve a tabela default, sem Redis.
type staticConfig struct{}

func (staticConfig) BetConfig(_ context.Context, m game.BetMethod) (game.BetTypeConfig, error) {
	return game.DefaultBetTypeConfig(m), nil
}

func newPricer() *Pricer { return NewPricer(staticConfig{}) }

func TestBinomial(t *testing.T) {
	assert.Equal(t, int64(1), Binomial(5, 0))
	assert.Equal(t, int64(5), Binomial(5, 1))
	assert.Equal(t, int64(6), Binomial(4, 2))
	assert.Equal(t, int64(10), Binomial(5, 3))
	assert.Equal(t, int64(462), Binomial(11, 5))
	assert.Equal(t, int64(0), Binomial(3, 4))
	assert.Equal(t, int64(0), Binomial(3, -1))
}

func TestHypergeomAtLeast(t *testing.T) {
	// 1 número escolhido, precisa de 1 acerto: 5/11.
	assert.InDelta(t, 5.0/11.0, HypergeomAtLeast(1, 1), 1e-9)
	// 5 escolhidos, 5 acertos: só uma combinação entre C(11,5).
	assert.InDelta(t, 1.0/462.0, HypergeomAtLeast(5, 5), 1e-9)
	// todos os 11 números: qualquer exigência é certeza.
	assert.InDelta(t, 1.0, HypergeomAtLeast(11, 1), 1e-9)
	assert.InDelta(t, 1.0, HypergeomAtLeast(11, 5), 1e-9)
}

func TestPriceAnyCompound(t *testing.T) {
	// 4 números, selected_count=2: C(4,2) = 6 apostas elementares.
	q, err := newPricer().Price(context.Background(), game.NewAnySelection([]int{1, 2, 3, 4}, 2), 1000, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(6), q.ElementaryCount)
	assert.Equal(t, int64(1050), q.OddsX100)
	assert.Equal(t, int64(6000), q.StakeTotalCents)
	// Teto: C(4,2)=6 subconjuntos podem acertar (4 números cabem nos 5 sorteados).
	assert.Equal(t, int64(1000*6*1050/100), q.PotentialPayoutCents)
	assert.InDelta(t, HypergeomAtLeast(4, 2), q.WinProbability, 1e-12)
}

func TestPriceAnySingle(t *testing.T) {
	// len(numbers) == selected_count: aposta elementar única.
	q, err := newPricer().Price(context.Background(), game.NewAnySelection([]int{7, 9}, 2), 500, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), q.ElementaryCount)
	assert.Equal(t, int64(500), q.StakeTotalCents)
	assert.Equal(t, int64(500*1050/100), q.PotentialPayoutCents)
}

func TestPriceAnyManyNumbersCapsAtDrawn(t *testing.T) {
	// 8 números escolhidos, mas só 5 saem: no máximo C(5,2) subconjuntos pagam.
	q, err := newPricer().Price(context.Background(), game.NewAnySelection([]int{1, 2, 3, 4, 5, 6, 7, 8}, 2), 100, 1)
	require.NoError(t, err)

	assert.Equal(t, Binomial(8, 2), q.ElementaryCount)
	assert.Equal(t, int64(100*Binomial(5, 2)*1050/100), q.PotentialPayoutCents)
}

func TestPricePosition(t *testing.T) {
	q, err := newPricer().Price(context.Background(), game.NewPositionSelection([]int{1, 3}, []int{1, 3}), 1000, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), q.ElementaryCount)
	assert.Equal(t, int64(990), q.OddsX100)
	assert.Equal(t, int64(2000), q.StakeTotalCents)
	// Teto: as duas posições acertadas.
	assert.Equal(t, int64(1000*990*2/100), q.PotentialPayoutCents)
	assert.InDelta(t, 1.0/121.0, q.WinProbability, 1e-9)
}

func TestPriceGroup(t *testing.T) {
	q, err := newPricer().Price(context.Background(), game.NewGroupSelection([]int{2, 5, 8}), 1000, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), q.ElementaryCount)
	assert.Equal(t, int64(1600), q.OddsX100)
	assert.Equal(t, int64(1000), q.StakeTotalCents)
	assert.Equal(t, int64(1000*1600/100), q.PotentialPayoutCents)
	// C(8,2)/C(11,5): os 3 escolhidos saem e os outros 2 vêm dos 8 restantes.
	assert.InDelta(t, 28.0/462.0, q.WinProbability, 1e-9)
}

func TestPriceMultiplierScalesLinearly(t *testing.T) {
	base, err := newPricer().Price(context.Background(), game.NewAnySelection([]int{1, 2, 3}, 1), 1000, 1)
	require.NoError(t, err)
	tripled, err := newPricer().Price(context.Background(), game.NewAnySelection([]int{1, 2, 3}, 1), 1000, 3)
	require.NoError(t, err)

	assert.Equal(t, base.StakeTotalCents*3, tripled.StakeTotalCents)
	assert.Equal(t, base.PotentialPayoutCents*3, tripled.PotentialPayoutCents)
	assert.Equal(t, base.OddsX100, tripled.OddsX100)
}

func TestPriceRejections(t *testing.T) {
	p := newPricer()
	ctx := context.Background()
	sel := game.NewAnySelection([]int{1, 2, 3}, 1)

	cases := []struct {
		name       string
		sel        game.Selection
		stake      int64
		multiplier int64
		wantReason string
	}{
		{"stake below min", sel, 50, 1, game.ReasonStakeBelowMin},
		{"stake above max", sel, 200_000, 1, game.ReasonStakeAboveMax},
		{"multiplier zero", sel, 1000, 0, game.ReasonMultiplierRange},
		{"multiplier above max", sel, 1000, 11, game.ReasonMultiplierRange},
		{"bad selection", game.NewAnySelection([]int{3, 3}, 1), 1000, 1, game.ReasonDuplicateNumbers},
		// 5 números certos a 900x com stake máximo estoura o teto de prêmio.
		{"payout above cap", game.NewAnySelection([]int{1, 2, 3, 4, 5}, 5), 100_000, 10, game.ReasonPayoutAboveCap},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Price(ctx, tc.sel, tc.stake, tc.multiplier)
			require.Error(t, err)
			assert.ErrorIs(t, err, game.ErrValidation)
			assert.Equal(t, tc.wantReason, game.ReasonOf(err))
		})
	}
}
