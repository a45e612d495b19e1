package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// Draws implementa game.DrawRepo em Postgres. As transições de estado são
// UPDATEs condicionais: a autoridade sobre corrida é sempre o banco.
type Draws struct{ db *sql.DB }

func NewDraws(db *sql.DB) *Draws { return &Draws{db: db} }

const drawColumns = `id, draw_number, opens_at, closes_at, draws_at, status,
	winning_numbers, seed, bet_count, total_stake_cents, total_payout_cents, profit_cents,
	created_at, updated_at`

// CreateIfAbsent insere o concurso; ON CONFLICT no rótulo torna a criação
// do calendário idempotente.
func (r *Draws) CreateIfAbsent(ctx context.Context, d *game.Draw) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO draws (id, draw_number, opens_at, closes_at, draws_at, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		ON CONFLICT (draw_number) DO NOTHING`,
		d.ID, d.Number, d.OpensAt, d.ClosesAt, d.DrawsAt, string(d.Status),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Draws) Get(ctx context.Context, id string) (*game.Draw, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+drawColumns+` FROM draws WHERE id=$1`, id)
	return scanDraw(row)
}

func (r *Draws) ListByStatus(ctx context.Context, status game.DrawStatus, limit int) ([]game.Draw, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+drawColumns+` FROM draws WHERE status=$1 ORDER BY draws_at ASC LIMIT $2`,
		string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

// CloseExpired fecha em lote com RETURNING: só as linhas efetivamente
// transicionadas voltam, então cada concurso é notificado uma vez.
func (r *Draws) CloseExpired(ctx context.Context, now time.Time) ([]game.Draw, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE draws SET status='CLOSED', updated_at=NOW()
		WHERE status='OPEN' AND closes_at <= $1
		RETURNING `+drawColumns, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

func (r *Draws) ListSettleable(ctx context.Context, now time.Time, limit int) ([]game.Draw, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+drawColumns+` FROM draws
		WHERE status='CLOSED' AND draws_at <= $1
		ORDER BY draws_at ASC LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

// SetWinningNumbers grava o resultado uma única vez: o predicado
// winning_numbers IS NULL impede sobrescrita.
func (r *Draws) SetWinningNumbers(ctx context.Context, id string, numbers []int, seed string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE draws SET winning_numbers=$2, seed=$3, updated_at=NOW()
		WHERE id=$1 AND winning_numbers IS NULL`,
		id, pq.Array(toInt64(numbers)), seed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Complete grava os agregados junto da transição final CLOSED->COMPLETED;
// zero linhas afetadas significa corrida perdida ou estado inválido.
func (r *Draws) Complete(ctx context.Context, id string, agg game.DrawAggregates) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE draws SET status='COMPLETED',
			bet_count=$2, total_stake_cents=$3, total_payout_cents=$4, profit_cents=$5,
			updated_at=NOW()
		WHERE id=$1 AND status='CLOSED'`,
		id, agg.BetCount, agg.TotalStakeCents, agg.TotalPayoutCents, agg.ProfitCents)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Draws) RecentCompleted(ctx context.Context, limit int) ([]game.Draw, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+drawColumns+` FROM draws
		WHERE status='COMPLETED' ORDER BY draws_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDraws(rows)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanDraw(row rowScanner) (*game.Draw, error) {
	var (
		d       game.Draw
		status  string
		winning pq.Int64Array
		seed    sql.NullString
	)
	err := row.Scan(&d.ID, &d.Number, &d.OpensAt, &d.ClosesAt, &d.DrawsAt, &status,
		&winning, &seed, &d.BetCount, &d.TotalStakeCents, &d.TotalPayoutCents, &d.ProfitCents,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Status = game.DrawStatus(status)
	d.WinningNumbers = toInt(winning)
	d.Seed = seed.String
	return &d, nil
}

func scanDraws(rows *sql.Rows) ([]game.Draw, error) {
	var out []game.Draw
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func toInt(in []int64) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
