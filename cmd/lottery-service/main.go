package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game/betting"
	drawgen "github.com/radieske/lotto-platform-poc/internal/game/draw"
	"github.com/radieske/lotto-platform-poc/internal/game/pricing"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/betconfig"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/eligibility"
	lhttp "github.com/radieske/lotto-platform-poc/internal/lottery-service/http"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/producer"
	"github.com/radieske/lotto-platform-poc/internal/lottery-service/wallet"
	"github.com/radieske/lotto-platform-poc/internal/repo"
	"github.com/radieske/lotto-platform-poc/internal/shared/cache"
	"github.com/radieske/lotto-platform-poc/internal/shared/config"
	"github.com/radieske/lotto-platform-poc/internal/shared/db"
	"github.com/radieske/lotto-platform-poc/internal/shared/logger"
	"github.com/radieske/lotto-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("lottery-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "lottery-service"), zap.String("env", cfg.Env))

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis (config de apostas com hot-reload)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka producers (um writer por tópico)
	publ := producer.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publ.Close()

	// deps
	draws := repo.NewDraws(pg)
	bets := repo.NewBets(pg)
	pricer := pricing.NewPricer(betconfig.NewProvider(rdb, cfg.BetConfigTTL))
	wcli := wallet.New(cfg.WalletURL)
	elig := eligibility.New(cfg.EligibilityURL)
	svc := betting.NewService(log, pricer, draws, bets, wcli, elig, publ)

	// HTTP público
	api := lhttp.NewServer(log, svc, draws, bets, drawgen.NewGenerator())
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("lottery-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
