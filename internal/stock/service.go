package stock

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

const (
	idempotencyModule = "stock"
	unknownSupplier   = "Unknown"
)

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

// ReportRenderer produces stock report PDFs.
type ReportRenderer interface {
	RenderStockDocument(ctx context.Context, report *document.StockReport, shopLabel string) (document.Output, error)
}

// ServiceDeps groups the collaborators of Service.
type ServiceDeps struct {
	Repo        Repository
	Products    ProductCatalog
	Suppliers   SupplierCatalog
	Shops       ShopDirectory
	Renderer    ReportRenderer
	Idempotency Idempotency
	Logger      *slog.Logger
	Now         func() time.Time
}

// Service manages stock reports.
type Service struct {
	deps     ServiceDeps
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a stock service.
func NewService(deps ServiceDeps) *Service {
	s := &Service{deps: deps, validate: shared.NewValidator(), logger: deps.Logger, now: deps.Now}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create stores a stock report once every product resolves for the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest, idempotencyKey string) (Report, error) {
	if req.SupplierID == uuid.Nil {
		return Report{}, shared.Validationf("supplier_id is required")
	}
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Report{}, err
	}
	if _, err := s.deps.Suppliers.Get(ctx, userID, req.SupplierID); err != nil {
		return Report{}, err
	}

	lines := make([]LineItem, len(req.Lines))
	ids := make([]uuid.UUID, len(req.Lines))
	for i, in := range req.Lines {
		lines[i] = LineItem{ProductID: in.ProductID, Quantity: *in.Quantity}
		ids[i] = in.ProductID
	}
	if _, err := products.ResolveAll(ctx, ids, s.deps.Products.LookupFor(userID)); err != nil {
		return Report{}, err
	}

	if idempotencyKey != "" && s.deps.Idempotency != nil {
		if err := s.deps.Idempotency.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return Report{}, err
		}
	}

	report := Report{
		ID:         uuid.New(),
		UserID:     userID,
		SupplierID: req.SupplierID,
		Lines:      lines,
		CreatedAt:  s.now().UTC(),
	}
	created, err := s.deps.Repo.Create(ctx, report)
	if err != nil {
		if idempotencyKey != "" && s.deps.Idempotency != nil {
			_ = s.deps.Idempotency.Delete(ctx, idempotencyKey, idempotencyModule)
		}
		return Report{}, err
	}
	s.logger.Info("stock report created",
		slog.String("report_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("lines", len(created.Lines)))
	return created, nil
}

// Detail returns one report with supplier and products resolved.
func (s *Service) Detail(ctx context.Context, userID, id uuid.UUID) (Detail, error) {
	report, err := s.deps.Repo.Get(ctx, userID, id)
	if err != nil {
		return Detail{}, err
	}
	supplierName := ""
	supplier, err := s.deps.Suppliers.Get(ctx, userID, report.SupplierID)
	switch {
	case err == nil:
		supplierName = supplier.Name
	case !errors.Is(err, shared.ErrNotFound):
		return Detail{}, err
	}

	ids := make([]uuid.UUID, len(report.Lines))
	for i, line := range report.Lines {
		ids[i] = line.ProductID
	}
	resolved, err := s.deps.Products.GetMany(ctx, userID, ids)
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Report: report, SupplierName: supplierName, Items: make([]DetailLine, len(report.Lines))}
	for i, line := range report.Lines {
		detail.Items[i] = DetailLine{LineItem: line}
		if p, ok := resolved[line.ProductID]; ok {
			detail.Items[i].Product = &p
		}
	}
	return detail, nil
}

// ListRecent returns the user's newest reports, limit at most.
func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Summary, error) {
	reports, err := s.deps.Repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(reports))
	for i, rep := range reports {
		ids[i] = rep.SupplierID
	}
	names, err := s.deps.Suppliers.GetMany(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(reports))
	for i, rep := range reports {
		name := unknownSupplier
		if sup, ok := names[rep.SupplierID]; ok {
			name = sup.Name
		}
		out[i] = Summary{ID: rep.ID, SupplierID: rep.SupplierID, SupplierName: name, Lines: len(rep.Lines), CreatedAt: rep.CreatedAt}
	}
	return out, nil
}

// Delete removes one report.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.deps.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("stock report deleted", slog.String("report_id", id.String()), slog.String("user_id", userID.String()))
	return nil
}

// Document renders the report PDF labelled with the user's shop name.
func (s *Service) Document(ctx context.Context, userID, id uuid.UUID) (document.Output, error) {
	if s.deps.Renderer == nil {
		return document.Output{}, fmt.Errorf("%w: renderer not configured", shared.ErrDocumentRender)
	}
	detail, err := s.Detail(ctx, userID, id)
	if err != nil {
		return document.Output{}, err
	}
	shopLabel := ""
	if s.deps.Shops != nil {
		if shopLabel, err = s.deps.Shops.ShopName(ctx, userID); err != nil {
			return document.Output{}, err
		}
	}
	return s.deps.Renderer.RenderStockDocument(ctx, toDocumentReport(detail), shopLabel)
}

func toDocumentReport(d Detail) *document.StockReport {
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
	return &document.StockReport{SupplierName: d.SupplierName, Lines: lines}
}
