package auth

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

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, name, shop_name, role, phone, COALESCE(email, ''), created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.ShopName, &u.Role, &u.Phone, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a new user. A taken phone number yields shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, u User) (User, error) {
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, name, shop_name, role, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.ShopName, u.Role, u.Phone, nullable(u.Email), u.CreatedAt, u.UpdatedAt)
	if shared.IsUniqueViolation(err) {
		return User{}, shared.Duplicatef("user already exists")
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.NotFoundf("user not found")
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByPhone fetches a user by phone number.
func (r *PGRepository) GetByPhone(ctx context.Context, phone string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.NotFoundf("user not found")
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

// Update overwrites the profile fields.
func (r *PGRepository) Update(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET name = $1, shop_name = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6 RETURNING `+userColumns,
		u.Name, u.ShopName, u.Phone, nullable(u.Email), time.Now().UTC(), u.ID)
	updated, err := scanUser(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return User{}, shared.NotFoundf("user not found")
	case shared.IsUniqueViolation(err):
		return User{}, shared.Duplicatef("phone number already registered")
	case err != nil:
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes the user and everything the account owns in one transaction.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range []string{"orders", "stock_reports", "products", "suppliers"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, id); err != nil {
				return fmt.Errorf("delete user %s: %w", table, err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.NotFoundf("user not found")
		}
		return nil
	})
}

var _ Repository = (*PGRepository)(nil)
