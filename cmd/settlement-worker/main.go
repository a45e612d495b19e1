package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
	drawgen "github.com/radieske/lotto-platform-poc/internal/game/draw"
	"github.com/radieske/lotto-platform-poc/internal/game/margin"
	"github.com/radieske/lotto-platform-poc/internal/game/settle"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/producer"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/wallet"
	"github.com/radieske/lotto-platform-poc/internal/repo"
	"github.com/radieske/lotto-platform-poc/internal/shared/cache"
	"github.com/radieske/lotto-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-platform-poc/internal/shared/db"
	"github.com/radieske/lotto-platform-poc/internal/shared/kafka"
	"github.com/radieske/lotto-platform-poc/internal/shared/lock"
	"github.com/radieske/lotto-platform-poc/internal/shared/logger"
	"github.com/radieske/lotto-platform-poc/internal/shared/metrics"
	ev "github.com/radieske/lotto-platform-poc/pkg/contracts/events"
	"github.com/radieske/lotto-platform-poc/pkg/contracts/topics"
)

var (
	drawsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_draws_settled_total",
		Help: "Concursos liquidados com sucesso",
	})
	settleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Liquidações que falharam e dependem de retry",
	})
	betsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_bets_settled_total",
		Help: "Apostas liquidadas",
	})
	marginAdvice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "settlement_margin_avg_profit_ratio",
		Help: "Média de profit/stake da janela de concursos liquidados",
	}, []string{"direction"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("settlement-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Consome draw_closed; reprocessos chegam pelo sweep do scheduler.
	reader := kafka.NewReader(cfg.KafkaBrokers, topics.DrawClosed, "settlement")
	defer reader.Close()

	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, topics.DrawClosedDLQ)
	defer dlqWriter.Close()

	publ := producer.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publ.Close()

	draws := repo.NewDraws(pg)
	bets := repo.NewBets(pg)
	wcli := wallet.New(cfg.WalletURL)
	engine := settle.NewEngine(log, draws, bets, wcli, drawgen.NewGenerator(), publ).
		WithLocker(lock.NewManager(rdb))
	controller := margin.NewController(cfg.MarginTarget, cfg.MarginLowerTol, cfg.MarginUpperTol)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("settlement-worker started", zap.String("consume", topics.DrawClosed))

	ctx := context.Background()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var closed ev.DrawClosed
		if jerr := json.Unmarshal(msg.Value, &closed); jerr != nil {
			log.Error("unmarshal draw_closed", zap.Error(jerr))
			_ = kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value)
			continue
		}

		// Só liquida depois do horário do sorteio; antes disso a mensagem
		// volta pelo sweep do scheduler.
		if now := time.Now().UTC(); now.Before(closed.DrawsAt) {
			continue
		}

		res, err := engine.Settle(ctx, closed.DrawID, nil)
		switch {
		case err == nil:
			drawsSettled.Inc()
			if res != nil {
				betsSettled.Add(float64(res.Settled))
			}
		case errors.Is(err, game.ErrAlreadySettled), errors.Is(err, game.ErrConflict):
			// Outro worker chegou primeiro ou concurso já COMPLETED: no-op.
		case errors.Is(err, game.ErrValidation):
			log.Error("unsettleable draw", zap.String("draw_id", closed.DrawID), zap.Error(err))
			_ = kafka.WriteJSON(ctx, dlqWriter, closed.DrawID, msg.Value)
		default:
			// Falha parcial: apostas pendentes continuam PENDING e o sweep
			// do scheduler reemite o evento.
			settleFailures.Inc()
			log.Error("settlement failed", zap.String("draw_id", closed.DrawID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}

		evaluateMargin(ctx, log, draws, controller, cfg.MarginWindow)
	}
}

// evaluateMargin publica a recomendação de margem como métrica e log.
// Consultivo: nenhuma odd muda sozinha.
func evaluateMargin(ctx context.Context, log *zap.Logger, draws *repo.Draws, c *margin.Controller, window int) {
	recent, err := draws.RecentCompleted(ctx, window)
	if err != nil {
		log.Warn("recent completed draws", zap.Error(err))
		return
	}
	adv := c.Evaluate(recent)
	marginAdvice.Reset()
	marginAdvice.WithLabelValues(string(adv.Direction)).Set(adv.AvgProfitRatio)
	if adv.Direction != margin.AdviceHold {
		log.Warn("margin out of band",
			zap.String("direction", string(adv.Direction)),
			zap.Float64("avg_profit_ratio", adv.AvgProfitRatio),
			zap.Float64("target", adv.TargetRatio),
			zap.Int("samples", adv.Samples),
		)
	}
}
