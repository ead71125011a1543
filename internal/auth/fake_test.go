package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[uuid.UUID]User{}}
}

func (m *memoryRepo) Create(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return User{}, shared.Duplicatef("user already exists")
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.NotFoundf("user not found")
	}
	return u, nil
}

func (m *memoryRepo) GetByPhone(_ context.Context, phone string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return User{}, shared.NotFoundf("user not found")
}

func (m *memoryRepo) Update(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return User{}, shared.NotFoundf("user not found")
	}
	for id, other := range m.users {
		if id != u.ID && other.Phone == u.Phone {
			return User{}, shared.Duplicatef("phone number already registered")
		}
	}
	existing.Name, existing.ShopName, existing.Phone, existing.Email = u.Name, u.ShopName, u.Phone, u.Email
	m.users[u.ID] = existing
	return existing, nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return shared.NotFoundf("user not found")
	}
	delete(m.users, id)
	return nil
}

type captureDispatcher struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (d *captureDispatcher) EnqueueOTP(_ context.Context, phone, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	if d.codes == nil {
		d.codes = map[string]string{}
	}
	d.codes[phone] = code
	return nil
}

func (d *captureDispatcher) code(phone string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codes[phone]
}

type fixture struct {
	svc        *Service
	repo       *memoryRepo
	dispatcher *captureDispatcher
	otp        *OTPStore
	redis      *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewOTPStore(client, 5*time.Minute)
	store.cost = bcrypt.MinCost
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{repo: newMemoryRepo(), dispatcher: &captureDispatcher{}, otp: store, redis: mr}
	f.svc, err = NewService(ServiceConfig{Repo: f.repo, OTP: store, Tokens: tokens, Dispatcher: f.dispatcher})
	require.NoError(t, err)
	return f
}
