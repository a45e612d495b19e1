// Package lock implementa um lock distribuído simples em Redis (SETNX com
// TTL e unlock condicional via Lua), usado para garantir que um concurso é
// liquidado por um único worker por vez.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrHeld = errors.New("lock already held")

// Script que só apaga a chave se o token for do próprio dono — evita que um
// worker solte o lock de outro.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

type Manager struct {
	rdb      *redis.Client
	unlockSc *redis.Script
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{rdb: rdb, unlockSc: redis.NewScript(unlockLua)}
}

// Acquire tenta obter o lock da chave com o TTL dado. Em caso de sucesso
// devolve a função de unlock (segura para chamar mais de uma vez); se o lock
// já estiver com outro dono, retorna ErrHeld.
func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	lk := "lock:" + key

	ok, err := m.rdb.SetNX(ctx, lk, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	released := false
	unlock := func() {
		if released {
			return
		}
		released = true
		// Contexto próprio: o unlock precisa funcionar mesmo com o contexto
		// do chamador já cancelado.
		uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.unlockSc.Run(uctx, m.rdb, []string{lk}, token).Err()
	}
	return unlock, nil
}
