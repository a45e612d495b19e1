package settle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
	gdraw "github.com/radieske/lotto-platform-poc/internal/game/draw"
)

// Fakes em memória com a mesma semântica condicional dos repositórios reais:
// SetWinningNumbers só escreve uma vez, Complete só sai de CLOSED e
// MarkSettled só sai de PENDING.

type memDraws struct {
	game.DrawRepo
	mu    sync.Mutex
	draws map[string]*game.Draw
}

func newMemDraws(ds ...*game.Draw) *memDraws {
	m := &memDraws{draws: make(map[string]*game.Draw)}
	for _, d := range ds {
		m.draws[d.ID] = d
	}
	return m
}

func (m *memDraws) Get(_ context.Context, id string) (*game.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.draws[id]
	if !ok {
		return nil, errors.New("draw not found")
	}
	cp := *d
	cp.WinningNumbers = append([]int(nil), d.WinningNumbers...)
	return &cp, nil
}

func (m *memDraws) SetWinningNumbers(_ context.Context, id string, numbers []int, seed string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draws[id]
	if len(d.WinningNumbers) > 0 {
		return false, nil
	}
	d.WinningNumbers = append([]int(nil), numbers...)
	d.Seed = seed
	return true, nil
}

func (m *memDraws) Complete(_ context.Context, id string, agg game.DrawAggregates) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draws[id]
	if d.Status != game.DrawClosed {
		return false, nil
	}
	d.Status = game.DrawCompleted
	d.BetCount = agg.BetCount
	d.TotalStakeCents = agg.TotalStakeCents
	d.TotalPayoutCents = agg.TotalPayoutCents
	d.ProfitCents = agg.ProfitCents
	return true, nil
}

type memBets struct {
	game.BetRepo
	mu   sync.Mutex
	bets map[string]*game.Bet
}

func newMemBets(bs ...*game.Bet) *memBets {
	m := &memBets{bets: make(map[string]*game.Bet)}
	for _, b := range bs {
		m.bets[b.ID] = b
	}
	return m
}

func (m *memBets) ListPendingByDraw(_ context.Context, drawID string) ([]game.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.Bet
	for _, b := range m.bets {
		if b.DrawID == drawID && b.Status == game.BetPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBets) MarkSettled(_ context.Context, betID string, status game.BetStatus, payoutCents int64, settledAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bets[betID]
	if b.Status != game.BetPending {
		return false, nil
	}
	b.Status = status
	b.PayoutCents = payoutCents
	b.SettledAt = &settledAt
	return true, nil
}

func (m *memBets) AggregateByDraw(_ context.Context, drawID string) (game.DrawAggregates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var agg game.DrawAggregates
	for _, b := range m.bets {
		if b.DrawID != drawID {
			continue
		}
		agg.BetCount++
		agg.TotalStakeCents += b.StakeTotalCents
		if b.Status == game.BetWon {
			agg.Winners++
			agg.TotalPayoutCents += b.PayoutCents
		}
	}
	return agg, nil
}

func (m *memBets) CountUnsettled(_ context.Context, drawID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bets {
		if b.DrawID == drawID && b.Status == game.BetPending {
			n++
		}
	}
	return n, nil
}

// memLedger registra créditos por chave de idempotência e pode ser programado
// para falhar em chaves específicas.
type memLedger struct {
	mu       sync.Mutex
	credits  map[string]int64
	failKeys map[string]bool
}

func newMemLedger() *memLedger {
	return &memLedger{credits: make(map[string]int64), failKeys: make(map[string]bool)}
}

func (l *memLedger) Reserve(context.Context, string, int64, string) error { return nil }

func (l *memLedger) Release(context.Context, string, string) error { return nil }

func (l *memLedger) Credit(_ context.Context, _ string, amountCents int64, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failKeys[key] {
		return errors.New("ledger unavailable")
	}
	if _, done := l.credits[key]; done {
		return nil // idempotente
	}
	l.credits[key] = amountCents
	return nil
}

type nopNotifier struct{}

func (nopNotifier) BetPlaced(context.Context, *game.Bet) error      { return nil }
func (nopNotifier) DrawClosed(context.Context, *game.Draw) error    { return nil }
func (nopNotifier) BetSettled(context.Context, *game.Bet) error     { return nil }
func (nopNotifier) DrawCompleted(context.Context, *game.Draw) error { return nil }

func closedDraw(id string) *game.Draw {
	now := time.Now().UTC()
	return &game.Draw{
		ID:       id,
		Number:   "20260830-001",
		OpensAt:  now.Add(-2 * time.Hour),
		ClosesAt: now.Add(-10 * time.Minute),
		DrawsAt:  now.Add(-5 * time.Minute),
		Status:   game.DrawClosed,
	}
}

func pendingBet(id, drawID string, sel game.Selection, stakeCents, multiplier, oddsX100, elementary int64) *game.Bet {
	return &game.Bet{
		ID:              id,
		UserID:          "user-" + id,
		DrawID:          drawID,
		Method:          sel.Method,
		Numbers:         sel.Numbers,
		Positions:       sel.Positions,
		SelectedCount:   sel.SelectedCount,
		StakeCents:      stakeCents,
		Multiplier:      multiplier,
		OddsX100:        oddsX100,
		ElementaryCount: elementary,
		StakeTotalCents: stakeCents * elementary * multiplier,
		Status:          game.BetPending,
	}
}

func newTestEngine(draws *memDraws, bets *memBets, ledger *memLedger) *Engine {
	return NewEngine(zap.NewNop(), draws, bets, ledger, gdraw.NewGenerator(), nopNotifier{})
}

func TestSettleForcedNumbers(t *testing.T) {
	d := closedDraw("d1")
	winner := pendingBet("b1", "d1", game.NewAnySelection([]int{1, 2, 3}, 1), 1000, 1, 220, 3)
	loser := pendingBet("b2", "d1", game.NewAnySelection([]int{8, 9, 10}, 1), 1000, 1, 220, 3)

	draws := newMemDraws(d)
	bets := newMemBets(winner, loser)
	ledger := newMemLedger()
	eng := newTestEngine(draws, bets, ledger)

	res, err := eng.Settle(context.Background(), "d1", []int{1, 4, 5, 6, 7})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4, 5, 6, 7}, res.WinningNumbers)
	assert.Equal(t, 2, res.Settled)
	assert.Equal(t, int64(1), res.Winners)
	assert.Equal(t, int64(6000), res.TotalStakeCents)
	assert.Equal(t, int64(2200), res.TotalPayoutCents)
	assert.Equal(t, res.TotalStakeCents-res.TotalPayoutCents, res.ProfitCents)

	// Crédito único para o vencedor, nada para o perdedor.
	assert.Equal(t, int64(2200), ledger.credits["b1"])
	_, credited := ledger.credits["b2"]
	assert.False(t, credited)

	final, _ := draws.Get(context.Background(), "d1")
	assert.Equal(t, game.DrawCompleted, final.Status)
	assert.Equal(t, int64(2), final.BetCount)
}

func TestSettleGeneratesWhenNotForced(t *testing.T) {
	d := closedDraw("d1")
	draws := newMemDraws(d)
	eng := newTestEngine(draws, newMemBets(), newMemLedger())

	res, err := eng.Settle(context.Background(), "d1", nil)
	require.NoError(t, err)

	require.NoError(t, game.ValidateWinningNumbers(res.WinningNumbers))
	require.NotEmpty(t, res.Seed)

	// O seed persistido reproduz exatamente os números sorteados.
	again, err := gdraw.Expand(res.Seed)
	require.NoError(t, err)
	assert.Equal(t, res.WinningNumbers, again)

	final, _ := draws.Get(context.Background(), "d1")
	assert.Equal(t, res.Seed, final.Seed)
	assert.Equal(t, res.WinningNumbers, final.WinningNumbers)
}

func TestSettleOpenDrawIsValidationError(t *testing.T) {
	d := closedDraw("d1")
	d.Status = game.DrawOpen
	eng := newTestEngine(newMemDraws(d), newMemBets(), newMemLedger())

	_, err := eng.Settle(context.Background(), "d1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrValidation)
	assert.Equal(t, game.ReasonDrawNotOpen, game.ReasonOf(err))
}

func TestSettleIsIdempotent(t *testing.T) {
	d := closedDraw("d1")
	winner := pendingBet("b1", "d1", game.NewGroupSelection([]int{2, 4}), 1000, 1, 350, 1)

	draws := newMemDraws(d)
	bets := newMemBets(winner)
	ledger := newMemLedger()
	eng := newTestEngine(draws, bets, ledger)

	first, err := eng.Settle(context.Background(), "d1", []int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	// Segunda passada: concurso já COMPLETED, nada muda, nada paga de novo.
	second, err := eng.Settle(context.Background(), "d1", nil)
	assert.ErrorIs(t, err, game.ErrAlreadySettled)
	require.NotNil(t, second)
	assert.Equal(t, first.WinningNumbers, second.WinningNumbers)
	assert.Equal(t, first.TotalPayoutCents, second.TotalPayoutCents)

	assert.Len(t, ledger.credits, 1)
	assert.Equal(t, int64(3500), ledger.credits["b1"])
}

func TestSettlePerBetFailureIsolation(t *testing.T) {
	d := closedDraw("d1")
	ok1 := pendingBet("b1", "d1", game.NewGroupSelection([]int{2, 4}), 1000, 1, 350, 1)
	bad := pendingBet("b2", "d1", game.NewGroupSelection([]int{2, 5}), 1000, 1, 350, 1)

	draws := newMemDraws(d)
	bets := newMemBets(ok1, bad)
	ledger := newMemLedger()
	ledger.failKeys["b2"] = true
	eng := newTestEngine(draws, bets, ledger)

	winning := []int{1, 2, 3, 4, 5}
	res, err := eng.Settle(context.Background(), "d1", winning)
	require.Error(t, err) // apostas pendentes restam, concurso não completa
	assert.Equal(t, 1, res.Settled)
	assert.Equal(t, 1, res.Failed)

	mid, _ := draws.Get(context.Background(), "d1")
	assert.Equal(t, game.DrawClosed, mid.Status, "concurso fica CLOSED até liquidar tudo")

	assert.Equal(t, game.BetPending, bets.bets["b2"].Status)

	// Ledger volta: a repetição liquida o restante e completa o concurso.
	ledger.mu.Lock()
	ledger.failKeys["b2"] = false
	ledger.mu.Unlock()

	res, err = eng.Settle(context.Background(), "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Winners)
	assert.Equal(t, int64(7000), res.TotalPayoutCents)

	// b1 não foi pago em dobro.
	assert.Equal(t, int64(3500), ledger.credits["b1"])
	assert.Equal(t, int64(3500), ledger.credits["b2"])

	final, _ := draws.Get(context.Background(), "d1")
	assert.Equal(t, game.DrawCompleted, final.Status)
}

func TestSettleConcurrentClaim(t *testing.T) {
	// Duas liquidações em paralelo: exatamente uma vence a corrida do
	// COMPLETED, a outra observa o conflito, e o pagamento sai uma vez só.
	d := closedDraw("d1")
	winner := pendingBet("b1", "d1", game.NewGroupSelection([]int{2, 4}), 1000, 1, 350, 1)

	draws := newMemDraws(d)
	bets := newMemBets(winner)
	ledger := newMemLedger()
	eng := newTestEngine(draws, bets, ledger)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.Settle(context.Background(), "d1", []int{1, 2, 3, 4, 5})
		}(i)
	}
	wg.Wait()

	completions := 0
	for _, err := range errs {
		if err == nil {
			completions++
		} else {
			assert.ErrorIs(t, err, game.ErrConflict)
		}
	}
	assert.Equal(t, 1, completions)
	assert.Len(t, ledger.credits, 1)
}

func TestSettleForcedInvalidNumbers(t *testing.T) {
	eng := newTestEngine(newMemDraws(closedDraw("d1")), newMemBets(), newMemLedger())

	_, err := eng.Settle(context.Background(), "d1", []int{1, 1, 2, 3, 4})
	assert.ErrorIs(t, err, game.ErrInvariant)
}
