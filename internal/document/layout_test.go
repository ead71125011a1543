package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

var generatedAt = time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)

func rate(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func sampleOrder() *Order {
	return &Order{
		SupplierName: "Sharma Traders",
		Lines: []Line{
			{Product: &Product{Name: "Atta", Weight: "500g", UnitType: "bag", Rate: rate(90)}, Quantity: 10},
			{Product: &Product{Name: "Sugar", Weight: "1kg", UnitType: "packet", Rate: rate(135)}, Quantity: 5},
		},
		TotalAmount: decimal.NewFromInt(1575),
		TotalWeight: 10.0,
	}
}

// ============================================================================
// KIND
// ============================================================================

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":           KindShopkeeper,
		"shopkeeper": KindShopkeeper,
		"Shopkeeper": KindShopkeeper,
		"other":      KindOther,
	}
	for raw, want := range cases {
		got, err := ParseKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseKind("shopkeper")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestKindFilename(t *testing.T) {
	assert.Equal(t, "order-shopkeeper.pdf", KindShopkeeper.Filename())
	assert.Equal(t, "order-other.pdf", KindOther.Filename())
}

// ============================================================================
// ORDER LAYOUT
// ============================================================================

func TestBuildOrderDocument_Shopkeeper(t *testing.T) {
	doc, err := BuildOrderDocument(sampleOrder(), KindShopkeeper, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "ORDER LIST (SHOPKEEPER)", doc.Title)
	assert.Equal(t, "7/3/2025", doc.GeneratedOn)
	assert.Equal(t, "Sharma Traders", doc.Supplier)
	assert.Equal(t, "order-shopkeeper.pdf", doc.Filename)
	require.Len(t, doc.Columns, 6)
	assert.Equal(t, "Particulars", doc.Columns[1].Title)
	assert.Equal(t, "Amount", doc.Columns[5].Title)

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"1", "Atta", "₹90.00", "500g", "10 bag", "₹900.00"}, doc.Rows[0])
	assert.Equal(t, []string{"2", "Sugar", "₹135.00", "1kg", "5 packet", "₹675.00"}, doc.Rows[1])

	require.Len(t, doc.Summary, 2)
	assert.Equal(t, SummaryItem{Label: "Total Weight", Value: "10.00 Kg"}, doc.Summary[0])
	assert.Equal(t, "Total Amount", doc.Summary[1].Label)
	assert.Contains(t, doc.Summary[1].Value, "1,575.00")
}

func TestBuildOrderDocument_WeightRoundedToTwoDecimals(t *testing.T) {
	order := sampleOrder()
	order.TotalWeight = 10.456

	doc, err := BuildOrderDocument(order, KindShopkeeper, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "10.46 Kg", doc.Summary[0].Value)
}

func TestBuildOrderDocument_OtherHidesPricing(t *testing.T) {
	doc, err := BuildOrderDocument(sampleOrder(), KindOther, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "ORDER LIST (OTHER)", doc.Title)
	require.Len(t, doc.Columns, 3)
	assert.Equal(t, []string{"1", "Atta", "10 bag"}, doc.Rows[0])
	assert.Empty(t, doc.Summary)
	for _, row := range doc.Rows {
		for _, cell := range row {
			assert.NotContains(t, cell, "₹")
		}
	}
}

func TestBuildOrderDocument_MissingFieldsRenderEmpty(t *testing.T) {
	order := &Order{
		Lines: []Line{
			{Product: nil, Quantity: 3},
			{Product: &Product{Name: "Dal"}, Quantity: 2},
		},
	}

	doc, err := BuildOrderDocument(order, KindShopkeeper, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "Unknown", doc.Supplier)
	assert.Equal(t, []string{"1", "", "", "", "3", ""}, doc.Rows[0])
	assert.Equal(t, []string{"2", "Dal", "", "", "2", ""}, doc.Rows[1])
}

func TestBuildOrderDocument_RejectsAbsentInput(t *testing.T) {
	_, err := BuildOrderDocument(nil, KindShopkeeper, generatedAt)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = BuildOrderDocument(&Order{}, KindShopkeeper, generatedAt)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = BuildOrderDocument(sampleOrder(), Kind(0), generatedAt)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildOrderDocument_StableContent(t *testing.T) {
	first, err := BuildOrderDocument(sampleOrder(), KindShopkeeper, generatedAt)
	require.NoError(t, err)
	second, err := BuildOrderDocument(sampleOrder(), KindShopkeeper, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Summary, second.Summary)
}

// ============================================================================
// STOCK LAYOUT
// ============================================================================

func TestBuildStockDocument(t *testing.T) {
	report := &StockReport{
		SupplierName: "Gupta Wholesale",
		Lines: []Line{
			{Product: &Product{Name: "Rice", UnitType: "bag"}, Quantity: 4},
			{Product: &Product{Name: "Oil", UnitType: "tin"}, Quantity: 0},
		},
	}

	doc, err := BuildStockDocument(report, "Laxmi Kirana", generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "STOCK REPORT", doc.Title)
	assert.Equal(t, "Laxmi Kirana", doc.ShopLabel)
	assert.Equal(t, "stock-report.pdf", doc.Filename)
	require.Len(t, doc.Columns, 3)
	assert.Equal(t, []string{"1", "Rice", "4 bag"}, doc.Rows[0])
	assert.Equal(t, []string{"2", "Oil", "Nil"}, doc.Rows[1])
	assert.Empty(t, doc.Summary)
}

func TestBuildStockDocument_RejectsAbsentInput(t *testing.T) {
	_, err := BuildStockDocument(nil, "", generatedAt)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = BuildStockDocument(&StockReport{}, "", generatedAt)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
