package orders

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

// Repository persists orders. Every call is scoped to one user.
type Repository interface {
	Create(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, user_id, supplier_id, lines, total_amount, total_weight, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o   Order
		raw []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.SupplierID, &raw, &o.TotalAmount, &o.TotalWeight, &o.CreatedAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(raw, &o.Lines); err != nil {
		return Order{}, fmt.Errorf("decode order lines: %w", err)
	}
	return o, nil
}

func (r *repository) Create(ctx context.Context, o Order) (Order, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return Order{}, fmt.Errorf("encode order lines: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.UserID, o.SupplierID, lines, o.TotalAmount, o.TotalWeight, o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, shared.NotFoundf("order")
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
