package orders

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

// DefaultStatsLimit is the ranking size used when the caller does not ask for one.
const DefaultStatsLimit = 5

// Summary aggregates the orders of one calendar month.
type Summary struct {
	TotalOrders int             `json:"total_orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalWeight float64         `json:"total_weight"`
}

// ProductRank is a product id with its accumulated quantity.
type ProductRank struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SupplierRank is a supplier id with its accumulated purchase amount.
type SupplierRank struct {
	SupplierID uuid.UUID       `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// TopProduct is a resolved product ranking entry.
type TopProduct struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	TotalQuantity int       `json:"total_quantity"`
}

// TopSupplier is a resolved supplier ranking entry.
type TopSupplier struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Contact       string          `json:"contact"`
	TotalPurchase decimal.Decimal `json:"total_purchase"`
}

// RecentOrder is the list projection of an order.
type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MonthlySummary sums orders created on or after the first day of now's month, in now's location.
func MonthlySummary(orders []Order, now time.Time) Summary {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	summary := Summary{TotalAmount: decimal.Zero}
	for _, o := range orders {
		if o.CreatedAt.Before(start) {
			continue
		}
		summary.TotalOrders++
		summary.TotalAmount = summary.TotalAmount.Add(o.TotalAmount)
		summary.TotalWeight += o.TotalWeight
	}
	return summary
}

// RankProducts accumulates quantity per product across all lines, highest first.
// Ties keep the order in which products first appeared.
func RankProducts(orders []Order, limit int) []ProductRank {
	index := map[uuid.UUID]int{}
	ranks := make([]ProductRank, 0)
	for _, o := range orders {
		for _, line := range o.Lines {
			i, ok := index[line.ProductID]
			if !ok {
				i = len(ranks)
				index[line.ProductID] = i
				ranks = append(ranks, ProductRank{ProductID: line.ProductID})
			}
			ranks[i].Quantity += line.Quantity
		}
	}
	sort.SliceStable(ranks, func(a, b int) bool { return ranks[a].Quantity > ranks[b].Quantity })
	return truncate(ranks, limit)
}

// RankSuppliers accumulates order totals per supplier, highest first.
// Ties keep the order in which suppliers first appeared.
func RankSuppliers(orders []Order, limit int) []SupplierRank {
	index := map[uuid.UUID]int{}
	ranks := make([]SupplierRank, 0)
	for _, o := range orders {
		i, ok := index[o.SupplierID]
		if !ok {
			i = len(ranks)
			index[o.SupplierID] = i
			ranks = append(ranks, SupplierRank{SupplierID: o.SupplierID, Amount: decimal.Zero})
		}
		ranks[i].Amount = ranks[i].Amount.Add(o.TotalAmount)
	}
	sort.SliceStable(ranks, func(a, b int) bool { return ranks[a].Amount.GreaterThan(ranks[b].Amount) })
	return truncate(ranks, limit)
}

// TopProducts projects ranks onto resolved products, dropping ids that no longer resolve.
func TopProducts(ranks []ProductRank, resolved map[uuid.UUID]products.Product) []TopProduct {
	out := make([]TopProduct, 0, len(ranks))
	for _, r := range ranks {
		p, ok := resolved[r.ProductID]
		if !ok {
			continue
		}
		out = append(out, TopProduct{ID: p.ID, Name: p.Name, Type: p.UnitType, TotalQuantity: r.Quantity})
	}
	return out
}

// TopSuppliers projects ranks onto resolved suppliers, dropping ids that no longer resolve.
func TopSuppliers(ranks []SupplierRank, resolved map[uuid.UUID]suppliers.Supplier) []TopSupplier {
	out := make([]TopSupplier, 0, len(ranks))
	for _, r := range ranks {
		s, ok := resolved[r.SupplierID]
		if !ok {
			continue
		}
		out = append(out, TopSupplier{ID: s.ID, Name: s.Name, Contact: s.Contact, TotalPurchase: r.Amount})
	}
	return out
}

// RecentOrders returns the newest orders first, labelled with their supplier name or "Unknown".
func RecentOrders(orders []Order, names map[uuid.UUID]suppliers.Supplier, limit int) []RecentOrder {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].CreatedAt.After(sorted[b].CreatedAt) })
	sorted = truncate(sorted, limit)

	out := make([]RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, RecentOrder{ID: o.ID, SupplierID: o.SupplierID, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt})
	}
	return LabelRecentOrders(out, names)
}

// LabelRecentOrders sets each supplier name from names, or "Unknown" when the supplier no longer resolves.
func LabelRecentOrders(recent []RecentOrder, names map[uuid.UUID]suppliers.Supplier) []RecentOrder {
	for i := range recent {
		recent[i].SupplierName = unknownSupplier
		if s, ok := names[recent[i].SupplierID]; ok {
			recent[i].SupplierName = s.Name
		}
	}
	return recent
}

const unknownSupplier = "Unknown"

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
