package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// Repository persists stock reports. Every call is scoped to one user.
type Repository interface {
	Create(ctx context.Context, report Report) (Report, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Report, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Report, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const reportColumns = `id, user_id, supplier_id, lines, created_at`

func scanReport(row pgx.Row) (Report, error) {
	var (
		rep Report
		raw []byte
	)
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.SupplierID, &raw, &rep.CreatedAt); err != nil {
		return Report{}, err
	}
	if err := json.Unmarshal(raw, &rep.Lines); err != nil {
		return Report{}, fmt.Errorf("decode stock lines: %w", err)
	}
	return rep, nil
}

func (r *repository) Create(ctx context.Context, rep Report) (Report, error) {
	lines, err := json.Marshal(rep.Lines)
	if err != nil {
		return Report{}, fmt.Errorf("encode stock lines: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO stock_reports (`+reportColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		rep.ID, rep.UserID, rep.SupplierID, lines, rep.CreatedAt)
	if err != nil {
		return Report{}, fmt.Errorf("create stock report: %w", err)
	}
	return rep, nil
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Report, error) {
	rep, err := scanReport(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM stock_reports WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, shared.NotFoundf("stock report")
	}
	if err != nil {
		return Report{}, fmt.Errorf("get stock report: %w", err)
	}
	return rep, nil
}

func (r *repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Report, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+reportColumns+` FROM stock_reports WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock reports: %w", err)
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stock_reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete stock report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFoundf("stock report")
	}
	return nil
}
