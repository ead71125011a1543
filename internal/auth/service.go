package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// OTPDispatcher hands a freshly issued code to the delivery channel.
type OTPDispatcher interface {
	EnqueueOTP(ctx context.Context, phone, code string) error
}

// ServiceConfig collects the dependencies of Service.
type ServiceConfig struct {
	Repo       Repository
	OTP        *OTPStore
	Tokens     *TokenIssuer
	Dispatcher OTPDispatcher
	// DevEcho logs issued codes instead of dispatching them.
	DevEcho bool
	Logger  *slog.Logger
}

// Service wraps authentication and profile rules.
type Service struct {
	repo       Repository
	otp        *OTPStore
	tokens     *TokenIssuer
	dispatcher OTPDispatcher
	devEcho    bool
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService constructs a new Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil || cfg.OTP == nil || cfg.Tokens == nil {
		return nil, errors.New("auth: repository, otp store and token issuer are required")
	}
	if cfg.Dispatcher == nil && !cfg.DevEcho {
		return nil, errors.New("auth: otp dispatcher required unless dev echo is enabled")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       cfg.Repo,
		otp:        cfg.OTP,
		tokens:     cfg.Tokens,
		dispatcher: cfg.Dispatcher,
		devEcho:    cfg.DevEcho,
		validate:   shared.NewValidator(),
		logger:     logger,
	}, nil
}

// Tokens exposes the issuer for the authentication middleware.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// SendOTP issues a code for phone and queues its delivery.
func (s *Service) SendOTP(ctx context.Context, req SendOTPRequest) error {
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return err
	}
	code, err := s.otp.Issue(ctx, phone)
	if err != nil {
		return err
	}
	if s.devEcho {
		s.logger.Info("otp issued (dev echo)", slog.String("phone", phone), slog.String("otp", code))
		return nil
	}
	if err := s.dispatcher.EnqueueOTP(ctx, phone, code); err != nil {
		if rerr := s.otp.Revoke(ctx, phone); rerr != nil {
			s.logger.Warn("revoke otp", slog.Any("error", rerr))
		}
		return fmt.Errorf("dispatch otp: %w", err)
	}
	return nil
}

// VerifyOTP consumes the code and marks the phone verified for a following register or login.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return err
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return err
	}
	if err := s.otp.Consume(ctx, phone, req.OTP); err != nil {
		return err
	}
	return s.otp.MarkVerified(ctx, phone)
}

// Register creates an account for a verified phone and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.ShopName = strings.TrimSpace(req.ShopName)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Session{}, err
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return Session{}, err
	}
	if _, err := s.repo.GetByPhone(ctx, phone); err == nil {
		return Session{}, shared.Duplicatef("user already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Session{}, err
	}
	if err := s.proveOwnership(ctx, phone, req.OTP); err != nil {
		return Session{}, err
	}
	user, err := s.repo.Create(ctx, User{Name: req.Name, ShopName: req.ShopName, Role: req.Role, Phone: phone, Email: req.Email})
	if err != nil {
		return Session{}, err
	}
	s.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.session(user)
}

// Login signs in the account that owns a verified phone.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Session{}, err
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return Session{}, err
	}
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return Session{}, err
	}
	if err := s.proveOwnership(ctx, phone, req.OTP); err != nil {
		return Session{}, err
	}
	s.logger.Info("user logged in", slog.String("user_id", user.ID.String()))
	return s.session(user)
}

// Profile returns the account of userID.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile overwrites the editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ShopName = strings.TrimSpace(in.ShopName)
	in.Email = strings.TrimSpace(in.Email)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return User{}, err
	}
	phone, err := s.normalizePhone(in.Phone)
	if err != nil {
		return User{}, err
	}
	return s.repo.Update(ctx, User{ID: userID, Name: in.Name, ShopName: in.ShopName, Phone: phone, Email: in.Email})
}

// DeleteAccount removes the account and all of its data.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("account deleted", slog.String("user_id", userID.String()))
	return nil
}

// ShopName returns the shop name printed on the user's documents.
func (s *Service) ShopName(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.ShopName, nil
}

// proveOwnership accepts either a pending code or an earlier successful verification.
func (s *Service) proveOwnership(ctx context.Context, phone, code string) error {
	if code != "" {
		return s.otp.Consume(ctx, phone, code)
	}
	return s.otp.ConsumeVerified(ctx, phone)
}

func (s *Service) session(user User) (Session, error) {
	token, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expires}, nil
}

func (s *Service) normalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", shared.Validationf("phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return "", shared.Validationf("phone must be a valid 10 digit mobile number")
	}
	return phone, nil
}
