package suppliers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// Service coordinates supplier use cases.
type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService constructs a supplier service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: shared.NewValidator(), logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Supplier, error) {
	return s.repo.List(ctx, userID)
}

// Get resolves one supplier for userID. Suppliers of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Supplier, error) {
	return s.repo.Get(ctx, userID, id)
}

// GetMany resolves the given ids, silently skipping ids that do not resolve.
func (s *Service) GetMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Supplier, error) {
	return s.repo.GetMany(ctx, userID, ids)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (Supplier, error) {
	in = normalise(in)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return Supplier{}, err
	}
	created, err := s.repo.Create(ctx, Supplier{UserID: userID, Name: in.Name, Contact: in.Contact, Address: in.Address})
	if err != nil {
		return Supplier{}, err
	}
	s.logger.Info("supplier created", slog.String("supplier_id", created.ID.String()), slog.String("user_id", userID.String()))
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in Input) (Supplier, error) {
	in = normalise(in)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, Supplier{ID: id, UserID: userID, Name: in.Name, Contact: in.Contact, Address: in.Address})
}

// Delete removes the supplier together with its products.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("supplier deleted", slog.String("supplier_id", id.String()), slog.String("user_id", userID.String()))
	return nil
}

func normalise(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Address = strings.TrimSpace(in.Address)
	return in
}
