package orders

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/igtaposh/ordersathi-backend/internal/products"
)

// ComputeOrderTotals resolves every line through lookup and sums rate×qty and weight×qty.
// A single unresolved product fails the whole computation with shared.ErrReference.
func ComputeOrderTotals(ctx context.Context, lines []LineItem, lookup products.Lookup) (Totals, error) {
	resolved, err := products.ResolveAll(ctx, productIDs(lines), lookup)
	if err != nil {
		return Totals{}, err
	}
	return SumTotals(lines, resolved), nil
}

// SumTotals sums over lines paired index-wise with their resolved products. No rounding is applied.
func SumTotals(lines []LineItem, resolved []products.Product) Totals {
	totals := Totals{TotalAmount: decimal.Zero}
	for i, line := range lines {
		if i >= len(resolved) {
			break
		}
		p := resolved[i]
		qty := decimal.NewFromInt(int64(line.Quantity))
		totals.TotalAmount = totals.TotalAmount.Add(p.Rate.Mul(qty))
		totals.TotalWeight += ParseWeight(p.Weight) * float64(line.Quantity)
	}
	return totals
}

var weightPattern = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([a-zA-Z]*)`)

// unitsPerKg maps a unit to how many of it make one kilogram (or one litre).
var unitsPerKg = map[string]float64{
	"":          1,
	"kg":        1,
	"kgs":       1,
	"kilo":      1,
	"kilos":     1,
	"kilogram":  1,
	"kilograms": 1,
	"g":         1000,
	"gm":        1000,
	"gms":       1000,
	"gram":      1000,
	"grams":     1000,
	"mg":        1000000,
	"l":         1,
	"lt":        1,
	"ltr":       1,
	"litre":     1,
	"litres":    1,
	"liter":     1,
	"liters":    1,
	"ml":        1000,
}

// ParseWeight extracts the leading number of a free-text weight and converts it to kilograms.
// Digit group separators are ignored. Unknown units are taken as kilograms.
// Text without a leading number yields 0.
func ParseWeight(text string) float64 {
	m := weightPattern.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	per, ok := unitsPerKg[strings.ToLower(m[2])]
	if !ok {
		per = 1
	}
	return value / per
}

func productIDs(lines []LineItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	return ids
}
