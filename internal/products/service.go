package products

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

// SupplierLookup resolves a supplier owned by the user.
type SupplierLookup interface {
	Get(ctx context.Context, userID, id uuid.UUID) (suppliers.Supplier, error)
}

// Service coordinates product use cases.
type Service struct {
	repo      Repository
	suppliers SupplierLookup
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewService constructs a product service.
func NewService(repo Repository, suppliers SupplierLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, suppliers: suppliers, validate: shared.NewValidator(), logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) ListBySupplier(ctx context.Context, userID, supplierID uuid.UUID) ([]Product, error) {
	if _, err := s.suppliers.Get(ctx, userID, supplierID); err != nil {
		return nil, err
	}
	return s.repo.ListBySupplier(ctx, userID, supplierID)
}

// Get resolves one product for userID. Products of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, userID, id)
}

// GetMany resolves the given ids, silently skipping ids that do not resolve.
func (s *Service) GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Product, error) {
	return s.repo.GetMany(ctx, userID, ids)
}

// Create adds one product under a supplier of the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (Product, error) {
	created, err := s.CreateBulk(ctx, userID, BulkCreateRequest{SupplierID: req.SupplierID, Products: []Input{req.Input}})
	if err != nil {
		return Product{}, err
	}
	return created[0], nil
}

// CreateBulk adds every product or none of them.
func (s *Service) CreateBulk(ctx context.Context, userID uuid.UUID, req BulkCreateRequest) ([]Product, error) {
	if req.SupplierID == uuid.Nil {
		return nil, shared.Validationf("supplier_id is required")
	}
	for i := range req.Products {
		req.Products[i] = normalise(req.Products[i])
	}
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.Get(ctx, userID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Products))
	products := make([]Product, 0, len(req.Products))
	for _, in := range req.Products {
		p, err := build(in)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return nil, shared.Duplicatef("product %q appears more than once", p.Name)
		}
		seen[key] = struct{}{}
		p.UserID = userID
		p.SupplierID = supplier.ID
		p.SupplierName = supplier.Name
		products = append(products, p)
	}

	created, err := s.repo.Create(ctx, products)
	if err != nil {
		return nil, err
	}
	s.logger.Info("products created",
		slog.String("supplier_id", supplier.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("count", len(created)))
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in Input) (Product, error) {
	in = normalise(in)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return Product{}, err
	}
	p, err := build(in)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	p.UserID = userID
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func build(in Input) (Product, error) {
	rate, rateErr := decimal.NewFromString(string(in.Rate))
	mrp, mrpErr := decimal.NewFromString(string(in.MRP))
	if rateErr != nil || mrpErr != nil {
		return Product{}, shared.Validationf("rate and MRP must be numbers")
	}
	if rate.IsNegative() || mrp.IsNegative() {
		return Product{}, shared.Validationf("rate and MRP must not be negative")
	}
	return Product{
		Name:     in.Name,
		Weight:   in.Weight,
		Rate:     rate.Round(2),
		MRP:      mrp.Round(2),
		UnitType: in.UnitType,
	}, nil
}

func normalise(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Weight = strings.TrimSpace(in.Weight)
	in.Rate = Amount(strings.TrimSpace(string(in.Rate)))
	in.MRP = Amount(strings.TrimSpace(string(in.MRP)))
	in.UnitType = strings.TrimSpace(in.UnitType)
	return in
}
