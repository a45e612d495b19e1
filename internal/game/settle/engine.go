// Package settle liquida concursos fechados: sorteia (ou reaproveita) os
// números vencedores, avalia cada aposta pendente, paga vencedores via
// ledger e grava os agregados finais com a transição CLOSED->COMPLETED.
package settle

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
	gdraw "github.com/radieske/lotto-platform-poc/internal/game/draw"
)

// Result é o relatório da liquidação de um concurso.
type Result struct {
	DrawID           string
	WinningNumbers   []int
	Seed             string
	Proof            *gdraw.Proof
	Settled          int
	Winners          int64
	Failed           int
	TotalStakeCents  int64
	TotalPayoutCents int64
	ProfitCents      int64
}

// DrawLocker garante exclusividade da liquidação de um concurso entre
// instâncias concorrentes. Erro no Acquire significa que outro worker
// detém o concurso.
type DrawLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type Engine struct {
	log    *zap.Logger
	draws  game.DrawRepo
	bets   game.BetRepo
	ledger game.Ledger
	gen    *gdraw.Generator
	notif  game.Notifier
	locker DrawLocker // opcional
}

func NewEngine(log *zap.Logger, draws game.DrawRepo, bets game.BetRepo, ledger game.Ledger, gen *gdraw.Generator, notif game.Notifier) *Engine {
	return &Engine{log: log, draws: draws, bets: bets, ledger: ledger, gen: gen, notif: notif}
}

// WithLocker ativa o lock distribuído por concurso.
func (e *Engine) WithLocker(l DrawLocker) *Engine {
	e.locker = l
	return e
}

// Settle executa a liquidação completa de um concurso CLOSED. Seguro para
// reexecução: apostas já liquidadas são puladas, os números vencedores nunca
// são recalculados depois de gravados e COMPLETED é o último passo, numa
// transição condicional — um crash no meio do lote só exige chamar de novo.
// forced substitui o sorteio (replay operacional) e passa pela mesma
// validação estrutural.
func (e *Engine) Settle(ctx context.Context, drawID string, forced []int) (*Result, error) {
	if e.locker != nil {
		unlock, err := e.locker.Acquire(ctx, "settle:"+drawID, 2*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("%w: draw %s is being settled elsewhere", game.ErrConflict, drawID)
		}
		defer unlock()
	}

	d, err := e.draws.Get(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("load draw %s: %w", drawID, err)
	}

	switch d.Status {
	case game.DrawOpen:
		return nil, game.NewValidationError(game.ReasonDrawNotOpen,
			"draw %s is still open for bets", d.Number)
	case game.DrawCompleted:
		return resultFromDraw(d), game.ErrAlreadySettled
	}

	winning, seed, proof, err := e.resolveWinningNumbers(ctx, d, forced)
	if err != nil {
		return nil, err
	}

	pending, err := e.bets.ListPendingByDraw(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("list pending bets: %w", err)
	}

	res := &Result{DrawID: drawID, WinningNumbers: winning, Seed: seed, Proof: proof}
	now := time.Now().UTC()

	for i := range pending {
		b := pending[i]
		if err := e.settleOne(ctx, &b, winning, now); err != nil {
			// Falha de um pagamento não derruba o lote: a aposta continua
			// PENDING e entra na próxima passada.
			res.Failed++
			e.log.Error("bet settlement failed",
				zap.String("bet_id", b.ID),
				zap.String("draw_id", drawID),
				zap.Error(err),
			)
			continue
		}
		res.Settled++
	}

	unsettled, err := e.bets.CountUnsettled(ctx, drawID)
	if err != nil {
		return res, fmt.Errorf("count unsettled: %w", err)
	}
	if unsettled > 0 {
		// Concurso fica CLOSED até todas as apostas liquidarem.
		return res, fmt.Errorf("%w: %d bets still pending on draw %s",
			game.ErrCollaborator, unsettled, d.Number)
	}

	// Agregados recalculados do zero, nunca incrementados por aposta —
	// reexecução não conta em dobro.
	agg, err := e.bets.AggregateByDraw(ctx, drawID)
	if err != nil {
		return res, fmt.Errorf("aggregate draw: %w", err)
	}
	agg.ProfitCents = agg.TotalStakeCents - agg.TotalPayoutCents
	if agg.TotalPayoutCents < 0 || agg.BetCount < agg.Winners {
		return res, fmt.Errorf("%w: aggregates do not reconcile on draw %s",
			game.ErrInvariant, d.Number)
	}

	ok, err := e.draws.Complete(ctx, drawID, agg)
	if err != nil {
		return res, fmt.Errorf("complete draw: %w", err)
	}
	if !ok {
		return res, game.ErrAlreadySettled
	}

	res.Winners = agg.Winners
	res.TotalStakeCents = agg.TotalStakeCents
	res.TotalPayoutCents = agg.TotalPayoutCents
	res.ProfitCents = agg.ProfitCents

	d.WinningNumbers = winning
	d.Seed = seed
	d.Status = game.DrawCompleted
	d.BetCount = agg.BetCount
	d.TotalStakeCents = agg.TotalStakeCents
	d.TotalPayoutCents = agg.TotalPayoutCents
	d.ProfitCents = agg.ProfitCents
	if err := e.notif.DrawCompleted(ctx, d); err != nil {
		e.log.Warn("draw_completed publish failed", zap.String("draw_id", drawID), zap.Error(err))
	}

	e.log.Info("draw settled",
		zap.String("draw_number", d.Number),
		zap.Ints("winning_numbers", winning),
		zap.Int64("total_stake_cents", agg.TotalStakeCents),
		zap.Int64("total_payout_cents", agg.TotalPayoutCents),
		zap.Int64("profit_cents", agg.ProfitCents),
		zap.Int64("winners", agg.Winners),
	)
	return res, nil
}

// resolveWinningNumbers devolve os números do concurso: reaproveita os já
// gravados (retry), valida os forçados ou gera um sorteio novo. A gravação é
// um CAS em winning_numbers nulo; escrever duas vezes é impossível.
func (e *Engine) resolveWinningNumbers(ctx context.Context, d *game.Draw, forced []int) ([]int, string, *gdraw.Proof, error) {
	if len(d.WinningNumbers) == game.DrawnCount {
		return d.WinningNumbers, d.Seed, nil, nil
	}

	var (
		numbers []int
		seed    string
		proof   *gdraw.Proof
	)
	if forced != nil {
		numbers = append([]int(nil), forced...)
		sort.Ints(numbers)
		if err := game.ValidateWinningNumbers(numbers); err != nil {
			return nil, "", nil, err
		}
	} else {
		var err error
		numbers, proof, err = e.gen.Generate(d.ID, d.DrawsAt)
		if err != nil {
			return nil, "", nil, err
		}
		seed = proof.Seed
	}

	ok, err := e.draws.SetWinningNumbers(ctx, d.ID, numbers, seed)
	if err != nil {
		return nil, "", nil, fmt.Errorf("persist winning numbers: %w", err)
	}
	if !ok {
		// Outro worker gravou primeiro; o resultado dele vale.
		cur, err := e.draws.Get(ctx, d.ID)
		if err != nil {
			return nil, "", nil, fmt.Errorf("reload draw: %w", err)
		}
		return cur.WinningNumbers, cur.Seed, nil, nil
	}
	return numbers, seed, proof, nil
}

// settleOne aplica o desfecho de uma única aposta. Idempotente: o crédito
// usa o bet id como chave de idempotência e a mudança de status é um CAS
// PENDING->final, então repetir a chamada não paga duas vezes.
func (e *Engine) settleOne(ctx context.Context, b *game.Bet, winning []int, now time.Time) error {
	out := Evaluate(b, winning)

	status := game.BetLost
	if out.Won {
		status = game.BetWon
		if err := e.ledger.Credit(ctx, b.UserID, out.PayoutCents, b.ID); err != nil {
			return fmt.Errorf("%w: credit payout: %v", game.ErrCollaborator, err)
		}
	}

	ok, err := e.bets.MarkSettled(ctx, b.ID, status, out.PayoutCents, now)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}
	if !ok {
		return nil // já liquidada por outra passada
	}

	b.Status = status
	b.PayoutCents = out.PayoutCents
	b.SettledAt = &now
	if err := e.notif.BetSettled(ctx, b); err != nil {
		e.log.Warn("bet_settled publish failed", zap.String("bet_id", b.ID), zap.Error(err))
	}
	return nil
}

func resultFromDraw(d *game.Draw) *Result {
	return &Result{
		DrawID:           d.ID,
		WinningNumbers:   d.WinningNumbers,
		Seed:             d.Seed,
		TotalStakeCents:  d.TotalStakeCents,
		TotalPayoutCents: d.TotalPayoutCents,
		ProfitCents:      d.ProfitCents,
	}
}
