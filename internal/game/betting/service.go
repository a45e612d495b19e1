// Package betting orquestra a colocação de apostas: validação, elegibilidade,
// precificação, reserva de saldo e inserção condicionada à janela do concurso.
// Nenhum caminho de falha deixa estado parcial.
package betting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/lotto-platform-poc/internal/game"
	"github.com/radieske/lotto-platform-poc/internal/game/pricing"
)

type PlaceBetInput struct {
	UserID     string
	DrawID     string
	Selection  game.Selection
	StakeCents int64
	Multiplier int64
}

type Service struct {
	log    *zap.Logger
	pricer *pricing.Pricer
	draws  game.DrawRepo
	bets   game.BetRepo
	ledger game.Ledger
	elig   game.Eligibility
	notif  game.Notifier
}

func NewService(log *zap.Logger, pricer *pricing.Pricer, draws game.DrawRepo, bets game.BetRepo,
	ledger game.Ledger, elig game.Eligibility, notif game.Notifier) *Service {
	return &Service{log: log, pricer: pricer, draws: draws, bets: bets, ledger: ledger, elig: elig, notif: notif}
}

// PlaceBet valida e precifica a seleção, reserva o stake total na carteira
// (ref = bet id) e insere a aposta condicionada ao concurso ainda estar OPEN.
// Se a janela fechou entre a reserva e a inserção, a reserva é devolvida e o
// chamador recebe conflito — nunca fica aposta aceita depois do fechamento.
func (s *Service) PlaceBet(ctx context.Context, in PlaceBetInput) (*game.Bet, error) {
	if err := in.Selection.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.elig.IsEligibleToBet(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: eligibility check: %v", game.ErrCollaborator, err)
	}
	if !ok {
		return nil, game.NewValidationError(game.ReasonNotEligible,
			"user %s is not eligible to bet", in.UserID)
	}

	now := time.Now().UTC()
	d, err := s.draws.Get(ctx, in.DrawID)
	if err != nil {
		return nil, game.NewValidationError(game.ReasonDrawNotOpen, "draw %s not found", in.DrawID)
	}
	if d.Status != game.DrawOpen || !now.Before(d.ClosesAt) {
		return nil, game.NewValidationError(game.ReasonDrawNotOpen,
			"draw %s is not accepting bets", d.Number)
	}

	quote, err := s.pricer.Price(ctx, in.Selection, in.StakeCents, in.Multiplier)
	if err != nil {
		return nil, err
	}

	numbers := append([]int(nil), in.Selection.Numbers...)
	if in.Selection.Method != game.MethodPosition {
		sort.Ints(numbers) // POSITION preserva a ordem (índice casa com positions)
	}

	bet := &game.Bet{
		ID:                   uuid.NewString(),
		UserID:               in.UserID,
		DrawID:               in.DrawID,
		Method:               in.Selection.Method,
		Numbers:              numbers,
		Positions:            in.Selection.Positions,
		SelectedCount:        in.Selection.SelectedCount,
		StakeCents:           in.StakeCents,
		Multiplier:           in.Multiplier,
		OddsX100:             quote.OddsX100,
		ElementaryCount:      quote.ElementaryCount,
		StakeTotalCents:      quote.StakeTotalCents,
		PotentialPayoutCents: quote.PotentialPayoutCents,
		WinProbability:       quote.WinProbability,
		Status:               game.BetPending,
		CreatedAt:            now,
	}

	// Reserva primeiro: aposta rejeitada nunca toca a persistência, e uma
	// inserção recusada devolve a reserva logo abaixo.
	if err := s.ledger.Reserve(ctx, in.UserID, quote.StakeTotalCents, bet.ID); err != nil {
		if errors.Is(err, game.ErrInsufficientFunds) {
			return nil, game.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("%w: wallet reserve: %v", game.ErrCollaborator, err)
	}

	inserted, err := s.bets.InsertPendingIfOpen(ctx, bet, now)
	if err != nil || !inserted {
		if relErr := s.ledger.Release(ctx, in.UserID, bet.ID); relErr != nil {
			s.log.Error("reservation release failed after rejected insert",
				zap.String("bet_id", bet.ID), zap.Error(relErr))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: persist bet: %v", game.ErrCollaborator, err)
		}
		return nil, fmt.Errorf("%w: draw %s closed during placement", game.ErrConflict, d.Number)
	}

	if err := s.notif.BetPlaced(ctx, bet); err != nil {
		s.log.Warn("bet_placed publish failed", zap.String("bet_id", bet.ID), zap.Error(err))
	}
	return bet, nil
}
