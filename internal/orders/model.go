package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/igtaposh/ordersathi-backend/internal/products"
)

// LineItem references a product and the ordered quantity. It is owned by its order.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Order is a purchase order with totals captured at creation time.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Lines       []LineItem      `json:"products"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalWeight float64         `json:"total_weight"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Totals are the derived sums of an order.
type Totals struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalWeight float64         `json:"total_weight"`
}

// LineInput is one requested line item.
type LineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  *int      `json:"quantity" validate:"required,gte=0,lte=1000000"`
}

// CreateRequest is the body of an order creation call.
type CreateRequest struct {
	SupplierID uuid.UUID   `json:"supplier_id"`
	Lines      []LineInput `json:"products" validate:"required,min=1,max=500,dive"`
}

// DetailLine is a line item with its product resolved. Product is nil when it no longer exists.
type DetailLine struct {
	LineItem
	Product *products.Product `json:"product"`
}

// Detail is an order with its supplier and products resolved for display.
type Detail struct {
	Order
	SupplierName string       `json:"supplier_name"`
	Items        []DetailLine `json:"items"`
}
