package products

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
	order    []uuid.UUID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[uuid.UUID]Product{}}
}

func (m *memoryRepo) List(_ context.Context, userID uuid.UUID) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		if p, ok := m.products[m.order[i]]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListBySupplier(ctx context.Context, userID, supplierID uuid.UUID) ([]Product, error) {
	all, _ := m.List(ctx, userID)
	out := make([]Product, 0)
	for _, p := range all {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, userID, id uuid.UUID) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return Product{}, shared.NotFoundf("product")
	}
	return p, nil
}

func (m *memoryRepo) GetMany(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.UserID == userID {
			out[id] = p
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, products []Product) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		for _, existing := range m.products {
			if existing.UserID == p.UserID && existing.SupplierID == p.SupplierID && existing.Name == p.Name {
				return nil, shared.Duplicatef("product %q already exists for this supplier", p.Name)
			}
		}
	}
	for i := range products {
		products[i].ID = uuid.New()
		products[i].CreatedAt = time.Now()
		m.products[products[i].ID] = products[i]
		m.order = append(m.order, products[i].ID)
	}
	return products, nil
}

func (m *memoryRepo) Update(_ context.Context, p Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[p.ID]
	if !ok || existing.UserID != p.UserID {
		return Product{}, shared.NotFoundf("product")
	}
	existing.Name, existing.Weight, existing.Rate, existing.MRP, existing.UnitType = p.Name, p.Weight, p.Rate, p.MRP, p.UnitType
	m.products[p.ID] = existing
	return existing, nil
}

func (m *memoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return shared.NotFoundf("product")
	}
	delete(m.products, id)
	return nil
}

type stubSuppliers map[uuid.UUID]suppliers.Supplier

func (s stubSuppliers) Get(_ context.Context, userID, id uuid.UUID) (suppliers.Supplier, error) {
	sup, ok := s[id]
	if !ok || sup.UserID != userID {
		return suppliers.Supplier{}, shared.NotFoundf("supplier")
	}
	return sup, nil
}
