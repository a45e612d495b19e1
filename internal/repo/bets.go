package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// Bets implementa game.BetRepo em Postgres.
type Bets struct{ db *sql.DB }

func NewBets(db *sql.DB) *Bets { return &Bets{db: db} }

const betColumns = `id, user_id, draw_id, method, numbers, positions, selected_count,
	stake_cents, multiplier, odds_x100, elementary_count, stake_total_cents,
	potential_payout_cents, win_probability, status, payout_cents, settled_at, created_at`

// InsertPendingIfOpen condiciona a inserção à janela do concurso dentro do
// próprio statement: se o concurso fechou no meio da requisição, zero linhas
// são inseridas e o chamador desfaz a reserva.
func (r *Bets) InsertPendingIfOpen(ctx context.Context, b *game.Bet, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, draw_id, method, numbers, positions, selected_count,
			stake_cents, multiplier, odds_x100, elementary_count, stake_total_cents,
			potential_payout_cents, win_probability, status, payout_cents, created_at)
		SELECT $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'PENDING',0,$15
		WHERE EXISTS (
			SELECT 1 FROM draws WHERE id=$3 AND status='OPEN' AND closes_at > $15
		)`,
		b.ID, b.UserID, b.DrawID, string(b.Method),
		pq.Array(toInt64(b.Numbers)), pq.Array(toInt64(b.Positions)), b.SelectedCount,
		b.StakeCents, b.Multiplier, b.OddsX100, b.ElementaryCount, b.StakeTotalCents,
		b.PotentialPayoutCents, b.WinProbability, now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Bets) Get(ctx context.Context, id string) (*game.Bet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+betColumns+` FROM bets WHERE id=$1`, id)
	return scanBet(row)
}

func (r *Bets) ListPendingByDraw(ctx context.Context, drawID string) ([]game.Bet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+betColumns+` FROM bets
		WHERE draw_id=$1 AND status='PENDING' ORDER BY created_at ASC`, drawID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// MarkSettled é a transição única PENDING->WON|LOST. O predicado em status
// garante que a aposta nunca muda duas vezes.
func (r *Bets) MarkSettled(ctx context.Context, betID string, status game.BetStatus, payoutCents int64, settledAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bets SET status=$2, payout_cents=$3, settled_at=$4
		WHERE id=$1 AND status='PENDING'`,
		betID, string(status), payoutCents, settledAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AggregateByDraw recalcula os totais direto das linhas, independente de
// qualquer contador incremental.
func (r *Bets) AggregateByDraw(ctx context.Context, drawID string) (game.DrawAggregates, error) {
	var agg game.DrawAggregates
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(stake_total_cents), 0),
			COALESCE(SUM(CASE WHEN status='WON' THEN payout_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status='WON' THEN 1 ELSE 0 END), 0)
		FROM bets WHERE draw_id=$1`, drawID).
		Scan(&agg.BetCount, &agg.TotalStakeCents, &agg.TotalPayoutCents, &agg.Winners)
	return agg, err
}

func (r *Bets) CountUnsettled(ctx context.Context, drawID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bets WHERE draw_id=$1 AND status='PENDING'`, drawID).Scan(&n)
	return n, err
}

func scanBet(row rowScanner) (*game.Bet, error) {
	var (
		b         game.Bet
		method    string
		status    string
		numbers   pq.Int64Array
		positions pq.Int64Array
		settledAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.UserID, &b.DrawID, &method, &numbers, &positions, &b.SelectedCount,
		&b.StakeCents, &b.Multiplier, &b.OddsX100, &b.ElementaryCount, &b.StakeTotalCents,
		&b.PotentialPayoutCents, &b.WinProbability, &status, &b.PayoutCents, &settledAt, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Method = game.BetMethod(method)
	b.Status = game.BetStatus(status)
	b.Numbers = toInt(numbers)
	b.Positions = toInt(positions)
	if settledAt.Valid {
		t := settledAt.Time
		b.SettledAt = &t
	}
	return &b, nil
}
