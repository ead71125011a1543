package document

import (
	"strings"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// Kind selects the order document layout.
type Kind uint8

const (
	// KindShopkeeper is the priced layout with a totals summary.
	KindShopkeeper Kind = iota + 1
	// KindOther is the packing-list layout without pricing.
	KindOther
)

// ParseKind converts a query value into a Kind. An empty value selects KindShopkeeper.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "shopkeeper":
		return KindShopkeeper, nil
	case "other":
		return KindOther, nil
	default:
		return 0, shared.Validationf("unknown document type %q", raw)
	}
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindShopkeeper:
		return "shopkeeper"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Filename returns the suggested download name for an order document of this kind.
func (k Kind) Filename() string {
	return "order-" + k.String() + ".pdf"
}
