package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

func TestService_CreateAndGet(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()
	user := uuid.New()

	created, err := svc.Create(ctx, user, Input{Name: "  Sharma Traders ", Contact: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", created.Name)
	assert.Equal(t, user, created.UserID)

	got, err := svc.Get(ctx, user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestService_CreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), uuid.New(), Input{Name: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
}

func TestService_DuplicateNamePerUser(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, err := svc.Create(ctx, alice, Input{Name: "Gupta"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, Input{Name: "Gupta"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	_, err = svc.Create(ctx, bob, Input{Name: "Gupta"})
	assert.NoError(t, err)
}

func TestService_TenantIsolation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, owner, Input{Name: "Gupta"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Update(ctx, other, created.ID, Input{Name: "Hijack"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, other, created.ID), shared.ErrNotFound)

	list, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_GetManyDropsUnknownIDs(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()
	user := uuid.New()

	a, err := svc.Create(ctx, user, Input{Name: "A"})
	require.NoError(t, err)

	got, err := svc.GetMany(ctx, user, []uuid.UUID{a.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "A", got[a.ID].Name)
}
