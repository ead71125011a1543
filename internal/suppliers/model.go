package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier owned by one user.
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the editable supplier fields.
type Input struct {
	Name    string `json:"name" validate:"required,max=120"`
	Contact string `json:"contact" validate:"omitempty,max=40"`
	Address string `json:"address" validate:"omitempty,max=255"`
}
