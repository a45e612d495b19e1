package game

import (
	"context"
	"time"
)

// Interfaces consumidas pelo core. As implementações concretas vivem em
// internal/repo (Postgres) e internal/lottery-service (clientes HTTP/Kafka);
// o core não conhece tecnologia de persistência.

type DrawRepo interface {
	// CreateIfAbsent insere um concurso novo; retorna false se o rótulo já existe.
	CreateIfAbsent(ctx context.Context, d *Draw) (bool, error)
	Get(ctx context.Context, id string) (*Draw, error)
	ListByStatus(ctx context.Context, status DrawStatus, limit int) ([]Draw, error)
	// CloseExpired faz a transição OPEN->CLOSED de todos os concursos vencidos.
	// Idempotente: concursos já fechados não são retornados de novo.
	CloseExpired(ctx context.Context, now time.Time) ([]Draw, error)
	// ListSettleable lista concursos CLOSED com horário de sorteio atingido.
	ListSettleable(ctx context.Context, now time.Time, limit int) ([]Draw, error)
	// SetWinningNumbers grava números e seed uma única vez (CAS em
	// winning_numbers nulo). Retorna false se já havia resultado.
	SetWinningNumbers(ctx context.Context, id string, numbers []int, seed string) (bool, error)
	// Complete faz a transição final CLOSED->COMPLETED junto com os agregados.
	// Retorna false se o concurso não estava CLOSED (corrida perdida).
	Complete(ctx context.Context, id string, agg DrawAggregates) (bool, error)
	RecentCompleted(ctx context.Context, limit int) ([]Draw, error)
}

type BetRepo interface {
	// InsertPendingIfOpen insere a aposta somente se o concurso ainda está
	// OPEN e antes do fechamento. Retorna false se a janela já fechou.
	InsertPendingIfOpen(ctx context.Context, b *Bet, now time.Time) (bool, error)
	Get(ctx context.Context, id string) (*Bet, error)
	ListPendingByDraw(ctx context.Context, drawID string) ([]Bet, error)
	// MarkSettled faz a transição única PENDING->WON|LOST. Retorna false se
	// a aposta já não estava PENDING.
	MarkSettled(ctx context.Context, betID string, status BetStatus, payoutCents int64, settledAt time.Time) (bool, error)
	// AggregateByDraw recalcula os totais direto das apostas persistidas.
	AggregateByDraw(ctx context.Context, drawID string) (DrawAggregates, error)
	CountUnsettled(ctx context.Context, drawID string) (int64, error)
}

// Ledger é o serviço de carteira/saldo. reserve debita (falha se saldo
// insuficiente), credit paga exatamente uma vez por idempotencyKey e
// release devolve uma reserva não consumida.
type Ledger interface {
	Reserve(ctx context.Context, userID string, amountCents int64, ref string) error
	Credit(ctx context.Context, userID string, amountCents int64, idempotencyKey string) error
	Release(ctx context.Context, userID string, ref string) error
}

// Eligibility é consultado antes de toda aposta (KYC/status), nunca ignorado.
type Eligibility interface {
	IsEligibleToBet(ctx context.Context, userID string) (bool, error)
}

// ConfigProvider entrega a config de odds/limites por método, com hot-reload.
type ConfigProvider interface {
	BetConfig(ctx context.Context, m BetMethod) (BetTypeConfig, error)
}

// Notifier publica eventos fire-and-forget; falhas aqui nunca bloqueiam
// o fluxo de liquidação (o chamador apenas loga).
type Notifier interface {
	BetPlaced(ctx context.Context, b *Bet) error
	DrawClosed(ctx context.Context, d *Draw) error
	BetSettled(ctx context.Context, b *Bet) error
	DrawCompleted(ctx context.Context, d *Draw) error
}
