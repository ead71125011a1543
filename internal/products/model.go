package products

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalogue entry of one supplier, owned by one user.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Name         string          `json:"name"`
	Weight       string          `json:"weight"`
	Rate         decimal.Decimal `json:"rate"`
	MRP          decimal.Decimal `json:"mrp"`
	UnitType     string          `json:"unit_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Amount accepts a JSON number or string so that non-numeric input can be reported as a validation error.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}

// Input carries the editable product fields.
type Input struct {
	Name     string `json:"name" validate:"required,max=120"`
	Weight   string `json:"weight" validate:"required,max=40"`
	Rate     Amount `json:"rate" validate:"required"`
	MRP      Amount `json:"mrp" validate:"required"`
	UnitType string `json:"unit_type" validate:"required,max=40"`
}

// CreateRequest creates one product under a supplier.
type CreateRequest struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	Input
}

// BulkCreateRequest creates several products under one supplier, all or nothing.
type BulkCreateRequest struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	Products   []Input   `json:"products" validate:"required,min=1,max=200,dive"`
}
