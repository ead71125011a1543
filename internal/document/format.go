package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var indianEnglish = language.MustParse("en-IN")

const rupee = "₹"

// formatDate renders t as an en-IN short date, e.g. 7/3/2025.
func formatDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// formatMoney renders d with en-IN digit grouping and two decimals.
func formatMoney(d decimal.Decimal) string {
	p := message.NewPrinter(indianEnglish)
	return rupee + p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return formatMoney(d.Decimal)
}

func formatWeight(kg float64) string {
	return fmt.Sprintf("%.2f Kg", kg)
}

func formatQuantity(qty int, unit string) string {
	return strings.TrimSpace(strconv.Itoa(qty) + " " + unit)
}

func lineAmount(p *Product, qty int) string {
	if p == nil || !p.Rate.Valid {
		return ""
	}
	return formatMoney(p.Rate.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}
