package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/igtaposh/ordersathi-backend/internal/document"
	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

const idempotencyModule = "orders"

// maxTotalAmount is the first amount the total_amount column can no longer hold.
var maxTotalAmount = decimal.New(1, 12)

// ProductCatalog resolves products owned by a user.
type ProductCatalog interface {
	LookupFor(userID uuid.UUID) products.Lookup
	GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]products.Product, error)
}

// SupplierCatalog resolves suppliers owned by a user.
type SupplierCatalog interface {
	Get(ctx context.Context, userID, id uuid.UUID) (suppliers.Supplier, error)
	GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]suppliers.Supplier, error)
}

// ShopDirectory returns the shop name printed on a user's documents.
type ShopDirectory interface {
	ShopName(ctx context.Context, userID uuid.UUID) (string, error)
}

// Idempotency guards repeated creation requests.
type Idempotency interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// OrderRenderer produces order PDFs.
type OrderRenderer interface {
	RenderOrderDocument(ctx context.Context, order *document.Order, kind document.Kind) (document.Output, error)
}

// ServiceDeps groups the collaborators of Service.
type ServiceDeps struct {
	Repo        Repository
	Products    ProductCatalog
	Suppliers   SupplierCatalog
	Shops       ShopDirectory
	Renderer    OrderRenderer
	Cache       *StatsCache
	Idempotency Idempotency
	Logger      *slog.Logger
	Now         func() time.Time
}

// Service coordinates order creation, statistics and documents.
type Service struct {
	repo        Repository
	products    ProductCatalog
	suppliers   SupplierCatalog
	shops       ShopDirectory
	renderer    OrderRenderer
	cache       *StatsCache
	idempotency Idempotency
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs an order service.
func NewService(deps ServiceDeps) *Service {
	s := &Service{
		repo:        deps.Repo,
		products:    deps.Products,
		suppliers:   deps.Suppliers,
		shops:       deps.Shops,
		renderer:    deps.Renderer,
		cache:       deps.Cache,
		idempotency: deps.Idempotency,
		validate:    shared.NewValidator(),
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create validates the request, computes the totals and stores the order.
// Nothing is stored when any product fails to resolve.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest, idempotencyKey string) (Order, error) {
	if req.SupplierID == uuid.Nil {
		return Order{}, shared.Validationf("supplier_id is required")
	}
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Order{}, err
	}
	if _, err := s.suppliers.Get(ctx, userID, req.SupplierID); err != nil {
		return Order{}, err
	}

	lines := make([]LineItem, len(req.Lines))
	for i, in := range req.Lines {
		lines[i] = LineItem{ProductID: in.ProductID, Quantity: *in.Quantity}
	}

	totals, err := ComputeOrderTotals(ctx, lines, s.products.LookupFor(userID))
	if err != nil {
		return Order{}, err
	}
	if totals.TotalAmount.GreaterThanOrEqual(maxTotalAmount) {
		return Order{}, shared.Validationf("order total must be below %s", maxTotalAmount.String())
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return Order{}, err
		}
	}

	order := Order{
		ID:          uuid.New(),
		UserID:      userID,
		SupplierID:  req.SupplierID,
		Lines:       lines,
		TotalAmount: totals.TotalAmount,
		TotalWeight: totals.TotalWeight,
		CreatedAt:   s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			_ = s.idempotency.Delete(ctx, idempotencyKey, idempotencyModule)
		}
		return Order{}, err
	}

	if err := s.cache.Bump(ctx, userID); err != nil {
		s.logger.Warn("bump stats cache", slog.String("user_id", userID.String()), slog.Any("error", err))
	}
	s.logger.Info("order created",
		slog.String("order_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("lines", len(created.Lines)),
		slog.String("total_amount", created.TotalAmount.StringFixed(2)))
	return created, nil
}

// Get returns one order of the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Order, error) {
	return s.repo.Get(ctx, userID, id)
}

// Detail returns the order with supplier and products resolved. Missing references stay empty.
func (s *Service) Detail(ctx context.Context, userID, id uuid.UUID) (Detail, error) {
	order, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Detail{}, err
	}
	supplierName, err := s.supplierName(ctx, userID, order.SupplierID)
	if err != nil {
		return Detail{}, err
	}
	resolved, err := s.products.GetMany(ctx, userID, productIDs(order.Lines))
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Order: order, SupplierName: supplierName, Items: make([]DetailLine, len(order.Lines))}
	for i, line := range order.Lines {
		detail.Items[i] = DetailLine{LineItem: line}
		if p, ok := resolved[line.ProductID]; ok {
			detail.Items[i].Product = &p
		}
	}
	return detail, nil
}

// Document renders the order PDF in the requested layout.
func (s *Service) Document(ctx context.Context, userID, id uuid.UUID, kind document.Kind) (document.Output, error) {
	if s.renderer == nil {
		return document.Output{}, fmt.Errorf("%w: renderer not configured", shared.ErrDocumentRender)
	}
	detail, err := s.Detail(ctx, userID, id)
	if err != nil {
		return document.Output{}, err
	}
	shopLabel := ""
	if s.shops != nil {
		if shopLabel, err = s.shops.ShopName(ctx, userID); err != nil {
			return document.Output{}, err
		}
	}
	return s.renderer.RenderOrderDocument(ctx, toDocumentOrder(detail, shopLabel), kind)
}

// MonthlySummary aggregates the user's orders of the current month.
func (s *Service) MonthlySummary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	now := s.now()
	var out Summary
	err := s.cached(ctx, userID, &out, func(ctx context.Context) (any, error) {
		all, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return MonthlySummary(all, now), nil
	}, "monthly", now.Format("2006-01"))
	return out, err
}

// TopProducts ranks the user's products by ordered quantity.
// Only the ranking is cached; products are resolved on every call so deleted ones drop out.
func (s *Service) TopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]TopProduct, error) {
	ranks := []ProductRank{}
	err := s.cached(ctx, userID, &ranks, func(ctx context.Context) (any, error) {
		all, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return RankProducts(all, limit), nil
	}, "product-ranks", fmt.Sprint(limit))
	if err != nil {
		return nil, err
	}
	if len(ranks) == 0 {
		return []TopProduct{}, nil
	}
	ids := make([]uuid.UUID, len(ranks))
	for i, r := range ranks {
		ids[i] = r.ProductID
	}
	resolved, err := s.products.GetMany(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return TopProducts(ranks, resolved), nil
}

// TopSuppliers ranks the user's suppliers by purchase amount.
func (s *Service) TopSuppliers(ctx context.Context, userID uuid.UUID, limit int) ([]TopSupplier, error) {
	ranks := []SupplierRank{}
	err := s.cached(ctx, userID, &ranks, func(ctx context.Context) (any, error) {
		all, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return RankSuppliers(all, limit), nil
	}, "supplier-ranks", fmt.Sprint(limit))
	if err != nil {
		return nil, err
	}
	if len(ranks) == 0 {
		return []TopSupplier{}, nil
	}
	ids := make([]uuid.UUID, len(ranks))
	for i, r := range ranks {
		ids[i] = r.SupplierID
	}
	resolved, err := s.suppliers.GetMany(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return TopSuppliers(ranks, resolved), nil
}

// RecentOrders lists the user's newest orders. Supplier names are resolved on every call.
func (s *Service) RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]RecentOrder, error) {
	recent := []RecentOrder{}
	err := s.cached(ctx, userID, &recent, func(ctx context.Context) (any, error) {
		all, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return RecentOrders(all, nil, limit), nil
	}, "recent-orders", fmt.Sprint(limit))
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return recent, nil
	}
	ids := make([]uuid.UUID, len(recent))
	for i, o := range recent {
		ids[i] = o.SupplierID
	}
	names, err := s.suppliers.GetMany(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return LabelRecentOrders(recent, names), nil
}

func (s *Service) cached(ctx context.Context, userID uuid.UUID, dest any, loader func(context.Context) (any, error), parts ...string) error {
	key, err := s.cache.BuildKey(ctx, userID, parts...)
	if err != nil {
		s.logger.Warn("stats cache unavailable", slog.Any("error", err))
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func (s *Service) supplierName(ctx context.Context, userID, supplierID uuid.UUID) (string, error) {
	supplier, err := s.suppliers.Get(ctx, userID, supplierID)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return supplier.Name, nil
}

func toDocumentOrder(d Detail, shopLabel string) *document.Order {
	lines := make([]document.Line, len(d.Items))
	for i, item := range d.Items {
		lines[i] = document.Line{Quantity: item.Quantity}
		if item.Product != nil {
			lines[i].Product = &document.Product{
				Name:     item.Product.Name,
				Weight:   item.Product.Weight,
				UnitType: item.Product.UnitType,
				Rate:     decimal.NewNullDecimal(item.Product.Rate),
			}
		}
	}
	return &document.Order{
		SupplierName: d.SupplierName,
		ShopLabel:    shopLabel,
		Lines:        lines,
		TotalAmount:  d.TotalAmount,
		TotalWeight:  d.TotalWeight,
	}
}
