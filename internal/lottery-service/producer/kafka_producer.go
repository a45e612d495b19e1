package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/lotto-platform-poc/internal/game"
	sharedkafka "github.com/radieske/lotto-platform-poc/internal/shared/kafka"
	"github.com/radieske/lotto-platform-poc/pkg/contracts/events"
	"github.com/radieske/lotto-platform-poc/pkg/contracts/topics"
)

// KafkaPublisher implementa game.Notifier publicando um evento por tópico.
// Entrega fire-and-forget: quem chama decide logar a falha, nunca abortar.
type KafkaPublisher struct {
	betPlaced     *kafka.Writer
	betSettled    *kafka.Writer
	drawClosed    *kafka.Writer
	drawCompleted *kafka.Writer
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		betPlaced:     sharedkafka.NewWriter(brokers, topics.BetPlaced),
		betSettled:    sharedkafka.NewWriter(brokers, topics.BetSettled),
		drawClosed:    sharedkafka.NewWriter(brokers, topics.DrawClosed),
		drawCompleted: sharedkafka.NewWriter(brokers, topics.DrawCompleted),
	}
}

func (p *KafkaPublisher) Close() {
	_ = p.betPlaced.Close()
	_ = p.betSettled.Close()
	_ = p.drawClosed.Close()
	_ = p.drawCompleted.Close()
}

func (p *KafkaPublisher) BetPlaced(ctx context.Context, b *game.Bet) error {
	return p.write(ctx, p.betPlaced, b.ID, events.BetPlaced{
		BetID:                b.ID,
		UserID:               b.UserID,
		DrawID:               b.DrawID,
		Method:               string(b.Method),
		StakeTotalCents:      b.StakeTotalCents,
		PotentialPayoutCents: b.PotentialPayoutCents,
		OddsX100:             b.OddsX100,
		WinProbability:       b.WinProbability,
		TsUnixMs:             time.Now().UnixMilli(),
	})
}

func (p *KafkaPublisher) BetSettled(ctx context.Context, b *game.Bet) error {
	return p.write(ctx, p.betSettled, b.ID, events.BetSettled{
		BetID:       b.ID,
		UserID:      b.UserID,
		DrawID:      b.DrawID,
		Status:      string(b.Status),
		PayoutCents: b.PayoutCents,
		Ts:          time.Now(),
	})
}

func (p *KafkaPublisher) DrawClosed(ctx context.Context, d *game.Draw) error {
	return p.write(ctx, p.drawClosed, d.ID, events.DrawClosed{
		DrawID:     d.ID,
		DrawNumber: d.Number,
		DrawsAt:    d.DrawsAt,
		TsUnixMs:   time.Now().UnixMilli(),
	})
}

func (p *KafkaPublisher) DrawCompleted(ctx context.Context, d *game.Draw) error {
	return p.write(ctx, p.drawCompleted, d.ID, events.DrawCompleted{
		DrawID:           d.ID,
		DrawNumber:       d.Number,
		WinningNumbers:   d.WinningNumbers,
		BetCount:         d.BetCount,
		TotalStakeCents:  d.TotalStakeCents,
		TotalPayoutCents: d.TotalPayoutCents,
		ProfitCents:      d.ProfitCents,
		Ts:               time.Now(),
	})
}

func (p *KafkaPublisher) write(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	b, _ := json.Marshal(payload)
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
}

var _ game.Notifier = (*KafkaPublisher)(nil)
