package document

import (
	"strconv"
	"time"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

const (
	unknownSupplier = "Unknown"
	nilStock        = "Nil"

	stockFilename = "stock-report.pdf"
)

var (
	shopkeeperColumns = []Column{
		{Title: "Sl No", Align: AlignCenter},
		{Title: "Particulars", Align: AlignLeft},
		{Title: "Rate", Align: AlignRight},
		{Title: "Weight", Align: AlignLeft},
		{Title: "Qty", Align: AlignLeft},
		{Title: "Amount", Align: AlignRight},
	}
	otherColumns = []Column{
		{Title: "Sl No", Align: AlignCenter},
		{Title: "Product", Align: AlignLeft},
		{Title: "Qty", Align: AlignLeft},
	}
	stockColumns = []Column{
		{Title: "Sl No", Align: AlignCenter},
		{Title: "Product", Align: AlignLeft},
		{Title: "Stock", Align: AlignLeft},
	}
)

// BuildOrderDocument lays out an order for the given kind. It performs no lookups.
func BuildOrderDocument(order *Order, kind Kind, generated time.Time) (*Document, error) {
	if order == nil {
		return nil, shared.Validationf("order is required")
	}
	if order.Lines == nil {
		return nil, shared.Validationf("order has no line items")
	}

	doc := &Document{
		Name:        "order",
		Filename:    kind.Filename(),
		GeneratedOn: formatDate(generated),
		Supplier:    supplierLabel(order.SupplierName),
		ShopLabel:   order.ShopLabel,
	}

	switch kind {
	case KindShopkeeper:
		doc.Title = "ORDER LIST (SHOPKEEPER)"
		doc.Columns = shopkeeperColumns
		doc.Rows = make([][]string, 0, len(order.Lines))
		for i, line := range order.Lines {
			p := productOrEmpty(line.Product)
			doc.Rows = append(doc.Rows, []string{
				strconv.Itoa(i + 1),
				p.Name,
				formatNullMoney(p.Rate),
				p.Weight,
				formatQuantity(line.Quantity, p.UnitType),
				lineAmount(line.Product, line.Quantity),
			})
		}
		doc.Summary = []SummaryItem{
			{Label: "Total Weight", Value: formatWeight(order.TotalWeight)},
			{Label: "Total Amount", Value: formatMoney(order.TotalAmount)},
		}
	case KindOther:
		doc.Title = "ORDER LIST (OTHER)"
		doc.Columns = otherColumns
		doc.Rows = make([][]string, 0, len(order.Lines))
		for i, line := range order.Lines {
			p := productOrEmpty(line.Product)
			doc.Rows = append(doc.Rows, []string{
				strconv.Itoa(i + 1),
				p.Name,
				formatQuantity(line.Quantity, p.UnitType),
			})
		}
	default:
		return nil, shared.Validationf("unknown document type %d", kind)
	}

	return doc, nil
}

// BuildStockDocument lays out a stock report. shopLabel is optional.
func BuildStockDocument(report *StockReport, shopLabel string, generated time.Time) (*Document, error) {
	if report == nil {
		return nil, shared.Validationf("stock report is required")
	}
	if report.Lines == nil {
		return nil, shared.Validationf("stock report has no line items")
	}

	doc := &Document{
		Name:        "stock",
		Filename:    stockFilename,
		Title:       "STOCK REPORT",
		GeneratedOn: formatDate(generated),
		Supplier:    supplierLabel(report.SupplierName),
		ShopLabel:   shopLabel,
		Columns:     stockColumns,
		Rows:        make([][]string, 0, len(report.Lines)),
	}
	for i, line := range report.Lines {
		p := productOrEmpty(line.Product)
		stock := nilStock
		if line.Quantity != 0 {
			stock = formatQuantity(line.Quantity, p.UnitType)
		}
		doc.Rows = append(doc.Rows, []string{strconv.Itoa(i + 1), p.Name, stock})
	}
	return doc, nil
}

func supplierLabel(name string) string {
	if name == "" {
		return unknownSupplier
	}
	return name
}

func productOrEmpty(p *Product) Product {
	if p == nil {
		return Product{}
	}
	return *p
}
