// Package schedule é o dono do ciclo de vida dos concursos: criação do
// calendário e fechamento da janela de apostas. A transição COMPLETED
// pertence exclusivamente à liquidação.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// CalendarConfig define a cadência dos concursos.
type CalendarConfig struct {
	DrawsPerDay int           // quantidade de sorteios por dia
	FirstDrawAt time.Duration // offset do primeiro sorteio após meia-noite
	Interval    time.Duration // intervalo entre sorteios do mesmo dia
	CloseBefore time.Duration // antecedência do fechamento em relação ao sorteio
	OpenLead    time.Duration // antecedência da abertura em relação ao sorteio
}

type Manager struct {
	log   *zap.Logger
	draws game.DrawRepo
	notif game.Notifier
	cfg   CalendarConfig
}

func NewManager(log *zap.Logger, draws game.DrawRepo, notif game.Notifier, cfg CalendarConfig) *Manager {
	return &Manager{log: log, draws: draws, notif: notif, cfg: cfg}
}

// EnsureCalendar cria os concursos dos próximos `days` dias a partir de
// `from`. Idempotente: slots cujo rótulo já existe são pulados, então rodar
// o job duas vezes não duplica concursos.
func (m *Manager) EnsureCalendar(ctx context.Context, from time.Time, days int) (int, error) {
	created := 0
	dayStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	for d := 0; d < days; d++ {
		day := dayStart.AddDate(0, 0, d)
		for slot := 0; slot < m.cfg.DrawsPerDay; slot++ {
			drawsAt := day.Add(m.cfg.FirstDrawAt + time.Duration(slot)*m.cfg.Interval)
			if !drawsAt.After(from) {
				continue // slot já passou
			}
			draw := &game.Draw{
				ID:       uuid.NewString(),
				Number:   fmt.Sprintf("%s-%03d", day.Format("20060102"), slot+1),
				OpensAt:  drawsAt.Add(-m.cfg.OpenLead),
				ClosesAt: drawsAt.Add(-m.cfg.CloseBefore),
				DrawsAt:  drawsAt,
				Status:   game.DrawOpen,
			}
			ok, err := m.draws.CreateIfAbsent(ctx, draw)
			if err != nil {
				return created, fmt.Errorf("create draw %s: %w", draw.Number, err)
			}
			if ok {
				created++
				m.log.Info("draw created",
					zap.String("draw_number", draw.Number),
					zap.Time("draws_at", draw.DrawsAt),
				)
			}
		}
	}
	return created, nil
}

// CloseExpired fecha todos os concursos OPEN cujo horário de fechamento já
// passou e publica draw_closed para cada um. A transição é condicional no
// banco, então chamadas concorrentes fecham cada concurso uma única vez.
func (m *Manager) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	closed, err := m.draws.CloseExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("close expired draws: %w", err)
	}
	for i := range closed {
		d := closed[i]
		if err := m.notif.DrawClosed(ctx, &d); err != nil {
			// Publicação é reemitida pelo sweep de concursos liquidáveis.
			m.log.Warn("draw_closed publish failed",
				zap.String("draw_id", d.ID), zap.Error(err))
		}
	}
	return len(closed), nil
}

// RepublishSettleable reemite draw_closed para concursos CLOSED cujo sorteio
// já deveria ter ocorrido — cobre perda de mensagem e liquidações que
// ficaram pela metade (a liquidação é idempotente).
func (m *Manager) RepublishSettleable(ctx context.Context, now time.Time) (int, error) {
	due, err := m.draws.ListSettleable(ctx, now, 100)
	if err != nil {
		return 0, fmt.Errorf("list settleable draws: %w", err)
	}
	for i := range due {
		d := due[i]
		if err := m.notif.DrawClosed(ctx, &d); err != nil {
			m.log.Warn("draw_closed republish failed",
				zap.String("draw_id", d.ID), zap.Error(err))
		}
	}
	return len(due), nil
}
