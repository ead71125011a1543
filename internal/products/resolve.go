package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// Lookup resolves one product already scoped to a user.
type Lookup func(ctx context.Context, id uuid.UUID) (Product, error)

// LookupFor returns a Lookup bound to userID.
func (s *Service) LookupFor(userID uuid.UUID) Lookup {
	return func(ctx context.Context, id uuid.UUID) (Product, error) {
		return s.repo.Get(ctx, userID, id)
	}
}

const resolveParallelism = 8

// ResolveAll resolves every id concurrently, preserving input order.
// Any id that does not resolve fails the whole call with shared.ErrReference.
func ResolveAll(ctx context.Context, ids []uuid.UUID, lookup Lookup) ([]Product, error) {
	if lookup == nil {
		return nil, errors.New("products: lookup required")
	}
	resolved := make([]Product, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)
	for i, id := range ids {
		g.Go(func() error {
			if id == uuid.Nil {
				return fmt.Errorf("%w: line %d has no product", shared.ErrReference, i+1)
			}
			p, err := lookup(ctx, id)
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("%w: %s", shared.ErrReference, id)
			}
			if err != nil {
				return fmt.Errorf("resolve product %s: %w", id, err)
			}
			resolved[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
