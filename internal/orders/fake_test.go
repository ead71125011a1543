package orders

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/document"
	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders []Order
	lists  int
}

func (m *memoryRepo) Create(_ context.Context, o Order) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memoryRepo) Get(_ context.Context, userID, id uuid.UUID) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id && o.UserID == userID {
			return o, nil
		}
	}
	return Order{}, shared.NotFoundf("order")
}

func (m *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := make([]Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
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

type memoryIdempotency struct {
	keys map[string]bool
}

func (m *memoryIdempotency) CheckAndInsert(_ context.Context, key, module string) error {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[module+":"+key] {
		return shared.ErrIdempotencyConflict
	}
	m.keys[module+":"+key] = true
	return nil
}

func (m *memoryIdempotency) Delete(_ context.Context, key, module string) error {
	delete(m.keys, module+":"+key)
	return nil
}

type recordingRenderer struct {
	err   error
	order *document.Order
	kind  document.Kind
}

func (r *recordingRenderer) RenderOrderDocument(_ context.Context, order *document.Order, kind document.Kind) (document.Output, error) {
	r.order, r.kind = order, kind
	if r.err != nil {
		return document.Output{}, r.err
	}
	return document.Output{Filename: kind.Filename(), ContentType: document.ContentType, Data: []byte("%PDF")}, nil
}
