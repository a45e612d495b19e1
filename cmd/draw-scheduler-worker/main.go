package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game/schedule"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/producer"
	"github.com/radieske/lotto-platform-poc/internal/repo"
	"github.com/radieske/lotto-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-platform-poc/internal/shared/db"
	"github.com/radieske/lotto-platform-poc/internal/shared/logger"
	"github.com/radieske/lotto-platform-poc/internal/shared/metrics"
)

var (
	drawsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_draws_created_total",
		Help: "Concursos criados pelo job de calendário",
	})
	drawsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_draws_closed_total",
		Help: "Concursos fechados pelo sweep",
	})
	drawsRepublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_draws_republished_total",
		Help: "Eventos draw_closed reemitidos para concursos liquidáveis",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("draw-scheduler-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	publ := producer.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publ.Close()

	mgr := schedule.NewManager(log, repo.NewDraws(pg), publ, schedule.CalendarConfig{
		DrawsPerDay: cfg.DrawsPerDay,
		FirstDrawAt: cfg.FirstDrawAt,
		Interval:    cfg.DrawInterval,
		CloseBefore: cfg.CloseBefore,
		OpenLead:    cfg.OpenLead,
	})

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	ctx := context.Background()

	// Garante calendário na subida, antes de depender do cron.
	if n, err := mgr.EnsureCalendar(ctx, time.Now().UTC(), cfg.CalendarDays); err != nil {
		log.Fatal("ensure calendar", zap.Error(err))
	} else {
		drawsCreated.Add(float64(n))
		log.Info("calendar ensured", zap.Int("created", n))
	}

	c := cron.New()

	// Sweep de fechamento: OPEN -> CLOSED de tudo que venceu.
	_, err = c.AddFunc(cfg.CloseSweepEvery, func() {
		n, err := mgr.CloseExpired(ctx, time.Now().UTC())
		if err != nil {
			log.Error("close sweep", zap.Error(err))
			return
		}
		drawsClosed.Add(float64(n))
		if n > 0 {
			log.Info("draws closed", zap.Int("count", n))
		}

		// Reemite draw_closed para concursos parados em CLOSED
		// (mensagem perdida ou liquidação pela metade).
		r, err := mgr.RepublishSettleable(ctx, time.Now().UTC())
		if err != nil {
			log.Error("republish settleable", zap.Error(err))
			return
		}
		drawsRepublished.Add(float64(r))
	})
	if err != nil {
		log.Fatal("close sweep cron", zap.Error(err))
	}

	// Extensão periódica do calendário.
	_, err = c.AddFunc(cfg.CalendarCronSpec, func() {
		n, err := mgr.EnsureCalendar(ctx, time.Now().UTC(), cfg.CalendarDays)
		if err != nil {
			log.Error("ensure calendar", zap.Error(err))
			return
		}
		drawsCreated.Add(float64(n))
	})
	if err != nil {
		log.Fatal("calendar cron", zap.Error(err))
	}

	c.Start()
	log.Info("draw-scheduler-worker started",
		zap.String("close_sweep", cfg.CloseSweepEvery),
		zap.String("calendar_cron", cfg.CalendarCronSpec),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	<-c.Stop().Done()
	log.Info("draw-scheduler-worker stopped")
}
