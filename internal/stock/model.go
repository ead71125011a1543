package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/products"
)

// LineItem is the counted stock of one product.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Report is a stock count taken for one supplier.
type Report struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	SupplierID uuid.UUID  `json:"supplier_id"`
	Lines      []LineItem `json:"products"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LineInput is one requested stock line.
type LineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  *int      `json:"quantity" validate:"required,gte=0,lte=1000000"`
}

// CreateRequest is the body of a stock report creation call.
type CreateRequest struct {
	SupplierID uuid.UUID   `json:"supplier_id"`
	Lines      []LineInput `json:"products" validate:"required,min=1,max=500,dive"`
}

// Summary is the list projection of a report.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Lines        int       `json:"lines"`
	CreatedAt    time.Time `json:"created_at"`
}

// DetailLine is a stock line with its product resolved. Product is nil once deleted.
type DetailLine struct {
	LineItem
	Product *products.Product `json:"product"`
}

// Detail is a report with supplier and products resolved.
type Detail struct {
	Report
	SupplierName string       `json:"supplier_name"`
	Items        []DetailLine `json:"items"`
}
