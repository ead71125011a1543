package stock

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/document"
	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

type memoryRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]Report
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reports: map[uuid.UUID]Report{}}
}

func (m *memoryRepo) Create(_ context.Context, rep Report) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[rep.ID] = rep
	return rep, nil
}

func (m *memoryRepo) Get(_ context.Context, userID, id uuid.UUID) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok || rep.UserID != userID {
		return Report{}, shared.NotFoundf("stock report")
	}
	return rep, nil
}

func (m *memoryRepo) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Report, 0)
	for _, rep := range m.reports {
		if rep.UserID == userID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok || rep.UserID != userID {
		return shared.NotFoundf("stock report")
	}
	delete(m.reports, id)
	return nil
}

type productCatalog map[uuid.UUID]products.Product

func (c productCatalog) LookupFor(userID uuid.UUID) products.Lookup {
	return func(_ context.Context, id uuid.UUID) (products.Product, error) {
		p, ok := c[id]
		if !ok || p.UserID != userID {
			return products.Product{}, shared.NotFoundf("product")
		}
		return p, nil
	}
}

func (c productCatalog) GetMany(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]products.Product, error) {
	out := map[uuid.UUID]products.Product{}
	for _, id := range ids {
		if p, ok := c[id]; ok && p.UserID == userID {
			out[id] = p
		}
	}
	return out, nil
}

type supplierCatalog map[uuid.UUID]suppliers.Supplier

func (c supplierCatalog) Get(_ context.Context, userID, id uuid.UUID) (suppliers.Supplier, error) {
	s, ok := c[id]
	if !ok || s.UserID != userID {
		return suppliers.Supplier{}, shared.NotFoundf("supplier")
	}
	return s, nil
}

func (c supplierCatalog) GetMany(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]suppliers.Supplier, error) {
	out := map[uuid.UUID]suppliers.Supplier{}
	for _, id := range ids {
		if s, ok := c[id]; ok && s.UserID == userID {
			out[id] = s
		}
	}
	return out, nil
}

type shopNames map[uuid.UUID]string

func (s shopNames) ShopName(_ context.Context, userID uuid.UUID) (string, error) {
	return s[userID], nil
}

// captureEngine records the HTML handed to the PDF engine.
type captureEngine struct {
	mu       sync.Mutex
	html     string
	released int
}

func (e *captureEngine) Acquire(context.Context) (document.Session, error) {
	return e, nil
}

func (e *captureEngine) Convert(_ context.Context, html string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.html = html
	return []byte("%PDF-1.7"), nil
}

func (e *captureEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released++
}
