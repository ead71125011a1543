package auth

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// phonePattern accepts ten-digit Indian mobile numbers.
var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// User represents a shopkeeper account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShopName  string    `json:"shop_name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is returned after a successful register or login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SendOTPRequest asks for a one-time password.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// VerifyOTPRequest checks a one-time password.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// RegisterRequest creates an account. OTP may be omitted when the phone was verified beforehand.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	ShopName string `json:"shop_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Role     string `json:"role" validate:"required,max=40"`
	OTP      string `json:"otp" validate:"omitempty,len=6,numeric"`
}

// LoginRequest signs a user in. OTP may be omitted when the phone was verified beforehand.
type LoginRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"omitempty,len=6,numeric"`
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	ShopName string `json:"shop_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}
