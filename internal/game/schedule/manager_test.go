package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

type memDraws struct {
	game.DrawRepo
	mu       sync.Mutex
	byNumber map[string]*game.Draw
}

func newMemDraws() *memDraws { return &memDraws{byNumber: make(map[string]*game.Draw)} }

func (m *memDraws) CreateIfAbsent(_ context.Context, d *game.Draw) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byNumber[d.Number]; ok {
		return false, nil
	}
	cp := *d
	m.byNumber[d.Number] = &cp
	return true, nil
}

func (m *memDraws) CloseExpired(_ context.Context, now time.Time) ([]game.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var closed []game.Draw
	for _, d := range m.byNumber {
		if d.Status == game.DrawOpen && !now.Before(d.ClosesAt) {
			d.Status = game.DrawClosed
			closed = append(closed, *d)
		}
	}
	return closed, nil
}

func (m *memDraws) ListSettleable(_ context.Context, now time.Time, _ int) ([]game.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []game.Draw
	for _, d := range m.byNumber {
		if d.Status == game.DrawClosed && !now.Before(d.DrawsAt) {
			due = append(due, *d)
		}
	}
	return due, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	closed []string
}

func (r *recordingNotifier) DrawClosed(_ context.Context, d *game.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, d.Number)
	return nil
}
func (r *recordingNotifier) BetPlaced(context.Context, *game.Bet) error      { return nil }
func (r *recordingNotifier) BetSettled(context.Context, *game.Bet) error     { return nil }
func (r *recordingNotifier) DrawCompleted(context.Context, *game.Draw) error { return nil }

func testConfig() CalendarConfig {
	return CalendarConfig{
		DrawsPerDay: 6,
		FirstDrawAt: 9 * time.Hour,
		Interval:    2 * time.Hour,
		CloseBefore: 5 * time.Minute,
		OpenLead:    24 * time.Hour,
	}
}

func TestEnsureCalendarCreatesFutureSlots(t *testing.T) {
	draws := newMemDraws()
	mgr := NewManager(zap.NewNop(), draws, &recordingNotifier{}, testConfig())

	// Meia-noite: todos os 6 slots do dia estão no futuro.
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	created, err := mgr.EnsureCalendar(context.Background(), from, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, created)

	d, ok := draws.byNumber["20260830-001"]
	require.True(t, ok)
	assert.Equal(t, game.DrawOpen, d.Status)
	assert.Equal(t, from.Add(9*time.Hour), d.DrawsAt)
	assert.Equal(t, d.DrawsAt.Add(-5*time.Minute), d.ClosesAt)
	assert.Equal(t, d.DrawsAt.Add(-24*time.Hour), d.OpensAt)

	last, ok := draws.byNumber["20260831-006"]
	require.True(t, ok)
	assert.Equal(t, from.AddDate(0, 0, 1).Add(9*time.Hour+5*2*time.Hour), last.DrawsAt)
}

func TestEnsureCalendarIsIdempotent(t *testing.T) {
	draws := newMemDraws()
	mgr := NewManager(zap.NewNop(), draws, &recordingNotifier{}, testConfig())
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	first, err := mgr.EnsureCalendar(context.Background(), from, 3)
	require.NoError(t, err)
	again, err := mgr.EnsureCalendar(context.Background(), from, 3)
	require.NoError(t, err)

	assert.Equal(t, 18, first)
	assert.Zero(t, again, "segunda passada não duplica concursos")
	assert.Len(t, draws.byNumber, 18)
}

func TestEnsureCalendarSkipsPastSlots(t *testing.T) {
	draws := newMemDraws()
	mgr := NewManager(zap.NewNop(), draws, &recordingNotifier{}, testConfig())

	// 12:30: os sorteios de 09:00 e 11:00 já passaram, sobram 4 no dia.
	from := time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC)
	created, err := mgr.EnsureCalendar(context.Background(), from, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	_, ok := draws.byNumber["20260830-001"]
	assert.False(t, ok)
	_, ok = draws.byNumber["20260830-003"]
	assert.True(t, ok)
}

func TestCloseExpiredPublishesEachDrawOnce(t *testing.T) {
	draws := newMemDraws()
	notif := &recordingNotifier{}
	mgr := NewManager(zap.NewNop(), draws, notif, testConfig())

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	_, err := mgr.EnsureCalendar(context.Background(), from, 1)
	require.NoError(t, err)

	// 11:00: fechamento de 08:55 e 10:55 já venceu.
	now := from.Add(11 * time.Hour)
	closed, err := mgr.CloseExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	assert.ElementsMatch(t, []string{"20260830-001", "20260830-002"}, notif.closed)

	// Reexecução é no-op: nada novo para fechar, nada republicado.
	closed, err = mgr.CloseExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.Len(t, notif.closed, 2)
}

func TestRepublishSettleable(t *testing.T) {
	draws := newMemDraws()
	notif := &recordingNotifier{}
	mgr := NewManager(zap.NewNop(), draws, notif, testConfig())

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	_, err := mgr.EnsureCalendar(context.Background(), from, 1)
	require.NoError(t, err)

	now := from.Add(10 * time.Hour) // sorteio das 09:00 já ocorreu
	_, err = mgr.CloseExpired(context.Background(), now)
	require.NoError(t, err)
	notif.closed = nil

	// Concurso parado em CLOSED com horário de sorteio atingido: reemitido.
	due, err := mgr.RepublishSettleable(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, due)
	assert.Equal(t, []string{"20260830-001"}, notif.closed)
}
