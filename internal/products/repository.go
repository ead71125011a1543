package products

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

// Repository persists products. Every call is scoped to one user.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Product, error)
	ListBySupplier(ctx context.Context, userID, supplierID uuid.UUID) ([]Product, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Product, error)
	GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Product, error)
	Create(ctx context.Context, products []Product) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectProducts = `SELECT p.id, p.user_id, p.supplier_id, COALESCE(s.name, ''), p.name, p.weight, p.rate, p.mrp, p.unit_type, p.created_at, p.updated_at
	FROM products p LEFT JOIN suppliers s ON s.id = p.supplier_id AND s.user_id = p.user_id`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.UserID, &p.SupplierID, &p.SupplierName, &p.Name, &p.Weight, &p.Rate, &p.MRP, &p.UnitType, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	rows, err := r.pool.Query(ctx, selectProducts+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collect(rows)
}

func (r *repository) ListBySupplier(ctx context.Context, userID, supplierID uuid.UUID) ([]Product, error) {
	rows, err := r.pool.Query(ctx, selectProducts+` WHERE p.user_id = $1 AND p.supplier_id = $2 ORDER BY p.name`, userID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier products: %w", err)
	}
	return collect(rows)
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProducts+` WHERE p.id = $1 AND p.user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.NotFoundf("product")
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *repository) GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Product, error) {
	out := make(map[uuid.UUID]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, selectProducts+` WHERE p.user_id = $1 AND p.id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	list, err := collect(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// Create inserts all products in one transaction.
func (r *repository) Create(ctx context.Context, products []Product) ([]Product, error) {
	now := time.Now().UTC()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range products {
			p := &products[i]
			p.ID = uuid.New()
			p.CreatedAt, p.UpdatedAt = now, now
			_, err := tx.Exec(ctx, `INSERT INTO products (id, user_id, supplier_id, name, weight, rate, mrp, unit_type, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				p.ID, p.UserID, p.SupplierID, p.Name, p.Weight, p.Rate, p.MRP, p.UnitType, p.CreatedAt, p.UpdatedAt)
			if shared.IsUniqueViolation(err) {
				return shared.Duplicatef("product %q already exists for this supplier", p.Name)
			}
			if err != nil {
				return fmt.Errorf("create product: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, p Product) (Product, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET name = $1, weight = $2, rate = $3, mrp = $4, unit_type = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8`,
		p.Name, p.Weight, p.Rate, p.MRP, p.UnitType, time.Now().UTC(), p.ID, p.UserID)
	if shared.IsUniqueViolation(err) {
		return Product{}, shared.Duplicatef("product %q already exists for this supplier", p.Name)
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Product{}, shared.NotFoundf("product")
	}
	return r.Get(ctx, p.UserID, p.ID)
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFoundf("product")
	}
	return nil
}
