package document

import (
	"github.com/shopspring/decimal"
)

// Product carries the resolved product fields a document row needs.
type Product struct {
	Name     string
	Weight   string
	UnitType string
	Rate     decimal.NullDecimal
}

// Line is a line item whose product reference has already been resolved.
// A nil Product renders as a row of empty cells.
type Line struct {
	Product  *Product
	Quantity int
}

// Order is an order ready for rendering.
type Order struct {
	SupplierName string
	ShopLabel    string
	Lines        []Line
	TotalAmount  decimal.Decimal
	TotalWeight  float64
}

// StockReport is a stock report ready for rendering.
type StockReport struct {
	SupplierName string
	Lines        []Line
}

// Align controls cell alignment in the rendered table.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes one table column.
type Column struct {
	Title string
	Align Align
}

// SummaryItem is one label/value pair under the table.
type SummaryItem struct {
	Label string
	Value string
}

// Document is the laid-out content of a PDF before it reaches the engine.
type Document struct {
	Name        string
	Filename    string
	Title       string
	GeneratedOn string
	Supplier    string
	ShopLabel   string
	Columns     []Column
	Rows        [][]string
	Summary     []SummaryItem
	Footer      string
}

// Output is a rendered document.
type Output struct {
	Filename    string
	ContentType string
	Data        []byte
	Document    *Document
}
