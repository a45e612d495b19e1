// Package betconfig entrega a config de odds/limites por método de aposta.
// A fonte é uma chave JSON no Redis (hot-reload pelo time de operação);
// um cache local com TTL explícito evita uma ida ao Redis por aposta, e a
// tabela default cobre ausência da chave.
package betconfig

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

type cached struct {
	cfg       game.BetTypeConfig
	fetchedAt time.Time
}

type Provider struct {
	rdb *redis.Client
	ttl time.Duration

	mu    sync.RWMutex
	cache map[game.BetMethod]cached
}

func NewProvider(rdb *redis.Client, ttl time.Duration) *Provider {
	return &Provider{rdb: rdb, ttl: ttl, cache: make(map[game.BetMethod]cached)}
}

func key(m game.BetMethod) string { return "betconfig:" + string(m) }

// BetConfig retorna a config vigente do método: cache local dentro do TTL,
// senão Redis, senão a tabela default.
func (p *Provider) BetConfig(ctx context.Context, m game.BetMethod) (game.BetTypeConfig, error) {
	p.mu.RLock()
	entry, ok := p.cache[m]
	p.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < p.ttl {
		return entry.cfg, nil
	}

	cfg, err := p.fetch(ctx, m)
	if err != nil {
		// Redis fora do ar não derruba apostas: vale a última config ou o default.
		if ok {
			return entry.cfg, nil
		}
		return game.DefaultBetTypeConfig(m), nil
	}

	p.mu.Lock()
	p.cache[m] = cached{cfg: cfg, fetchedAt: time.Now()}
	p.mu.Unlock()
	return cfg, nil
}

func (p *Provider) fetch(ctx context.Context, m game.BetMethod) (game.BetTypeConfig, error) {
	b, err := p.rdb.Get(ctx, key(m)).Bytes()
	if err == redis.Nil {
		return game.DefaultBetTypeConfig(m), nil
	}
	if err != nil {
		return game.BetTypeConfig{}, err
	}

	var cfg game.BetTypeConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return game.BetTypeConfig{}, err
	}
	cfg.Method = m
	return cfg, nil
}

var _ game.ConfigProvider = (*Provider)(nil)
