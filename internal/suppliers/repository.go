package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igtaposh/ordersathi-backend/internal/platform/db"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// Repository persists suppliers. Every call is scoped to one user.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Supplier, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Supplier, error)
	GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) (Supplier, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const supplierColumns = `id, user_id, name, contact, address, created_at, updated_at`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Contact, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 AND user_id = $2`, id, userID)
	s, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.NotFoundf("supplier")
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *repository) GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Supplier, error) {
	out := make(map[uuid.UUID]Supplier, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("get suppliers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	now := time.Now().UTC()
	s.ID = uuid.New()
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := r.pool.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Name, s.Contact, s.Address, s.CreatedAt, s.UpdatedAt)
	if shared.IsUniqueViolation(err) {
		return Supplier{}, shared.Duplicatef("supplier %q", s.Name)
	}
	if err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `UPDATE suppliers SET name = $1, contact = $2, address = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6 RETURNING `+supplierColumns,
		s.Name, s.Contact, s.Address, time.Now().UTC(), s.ID, s.UserID)
	updated, err := scanSupplier(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Supplier{}, shared.NotFoundf("supplier")
	case shared.IsUniqueViolation(err):
		return Supplier{}, shared.Duplicatef("supplier %q", s.Name)
	case err != nil:
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	return updated, nil
}

// Delete removes the supplier and its products in one transaction.
func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM products WHERE supplier_id = $1 AND user_id = $2`, id, userID); err != nil {
			return fmt.Errorf("delete supplier products: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM suppliers WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("delete supplier: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.NotFoundf("supplier")
		}
		return nil
	})
}
