package suppliers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

type memoryRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]Supplier
	deleted   []uuid.UUID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{suppliers: map[uuid.UUID]Supplier{}}
}

func (m *memoryRepo) List(_ context.Context, userID uuid.UUID) ([]Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Supplier, 0)
	for _, s := range m.suppliers {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, userID, id uuid.UUID) (Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.suppliers[id]
	if !ok || s.UserID != userID {
		return Supplier{}, shared.NotFoundf("supplier")
	}
	return s, nil
}

func (m *memoryRepo) GetMany(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]Supplier{}
	for _, id := range ids {
		if s, ok := m.suppliers[id]; ok && s.UserID == userID {
			out[id] = s
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, s Supplier) (Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.suppliers {
		if existing.UserID == s.UserID && existing.Name == s.Name {
			return Supplier{}, shared.Duplicatef("supplier %q", s.Name)
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now().Add(time.Duration(len(m.suppliers)) * time.Millisecond)
	s.UpdatedAt = s.CreatedAt
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *memoryRepo) Update(_ context.Context, s Supplier) (Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.suppliers[s.ID]
	if !ok || existing.UserID != s.UserID {
		return Supplier{}, shared.NotFoundf("supplier")
	}
	existing.Name, existing.Contact, existing.Address = s.Name, s.Contact, s.Address
	existing.UpdatedAt = time.Now()
	m.suppliers[s.ID] = existing
	return existing, nil
}

func (m *memoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.suppliers[id]
	if !ok || s.UserID != userID {
		return shared.NotFoundf("supplier")
	}
	delete(m.suppliers, id)
	m.deleted = append(m.deleted, id)
	return nil
}
