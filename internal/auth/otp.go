package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

var (
	// ErrOTPAlreadySent is returned while an unexpired code exists for the phone.
	ErrOTPAlreadySent = fmt.Errorf("%w: OTP already sent, please wait before requesting a new one", shared.ErrValidation)
	// ErrInvalidOTP is returned for wrong, expired or already used codes.
	ErrInvalidOTP = fmt.Errorf("%w: invalid OTP or OTP expired", shared.ErrUnauthorized)
	// ErrOTPAttemptsExceeded is returned when too many wrong codes revoked the pending one.
	ErrOTPAttemptsExceeded = fmt.Errorf("%w: too many wrong attempts, request a new OTP", shared.ErrUnauthorized)
)

const (
	otpDigits = 6
	// maxOTPAttempts wrong codes revoke the pending code.
	maxOTPAttempts = 5
)

// OTPStore keeps hashed one-time passwords in Redis.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
	cost   int
}

// NewOTPStore constructs an OTPStore. Codes expire after ttl.
func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPStore{client: client, ttl: ttl, cost: bcrypt.DefaultCost}
}

// TTL reports how long an issued code stays valid.
func (s *OTPStore) TTL() time.Duration {
	return s.ttl
}

// Issue generates and stores a new code for phone. It fails with ErrOTPAlreadySent while one is pending.
func (s *OTPStore) Issue(ctx context.Context, phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	ok, err := s.client.SetNX(ctx, codeKey(phone), hash, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	if !ok {
		return "", ErrOTPAlreadySent
	}
	if err := s.client.Del(ctx, attemptsKey(phone)).Err(); err != nil {
		return "", fmt.Errorf("reset otp attempts: %w", err)
	}
	return code, nil
}

// Consume checks code against the pending one and deletes it on success. A code verifies once.
// After maxOTPAttempts wrong codes the pending one is revoked.
func (s *OTPStore) Consume(ctx context.Context, phone, code string) error {
	key := codeKey(phone)
	hash, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return s.recordMiss(ctx, phone)
	}
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	if deleted == 0 {
		return ErrInvalidOTP
	}
	if err := s.client.Del(ctx, attemptsKey(phone)).Err(); err != nil {
		return fmt.Errorf("reset otp attempts: %w", err)
	}
	return nil
}

func (s *OTPStore) recordMiss(ctx context.Context, phone string) error {
	misses, err := s.client.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return fmt.Errorf("count otp attempts: %w", err)
	}
	if misses == 1 {
		if err := s.client.Expire(ctx, attemptsKey(phone), s.ttl).Err(); err != nil {
			return fmt.Errorf("count otp attempts: %w", err)
		}
	}
	if misses < maxOTPAttempts {
		return ErrInvalidOTP
	}
	if err := s.Revoke(ctx, phone); err != nil {
		return err
	}
	return ErrOTPAttemptsExceeded
}

// MarkVerified records that phone passed verification, for a following register or login.
func (s *OTPStore) MarkVerified(ctx context.Context, phone string) error {
	return s.client.Set(ctx, verifiedKey(phone), 1, s.ttl).Err()
}

// ConsumeVerified removes the verification mark of phone. It fails when none exists.
func (s *OTPStore) ConsumeVerified(ctx context.Context, phone string) error {
	deleted, err := s.client.Del(ctx, verifiedKey(phone)).Result()
	if err != nil {
		return fmt.Errorf("consume verification: %w", err)
	}
	if deleted == 0 {
		return ErrInvalidOTP
	}
	return nil
}

// Revoke drops a pending code and its attempt counter.
func (s *OTPStore) Revoke(ctx context.Context, phone string) error {
	return s.client.Del(ctx, codeKey(phone), attemptsKey(phone)).Err()
}

func codeKey(phone string) string {
	return "otp:code:" + phone
}

func attemptsKey(phone string) string {
	return "otp:attempts:" + phone
}

func verifiedKey(phone string) string {
	return "otp:verified:" + phone
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()+100000), nil
}
