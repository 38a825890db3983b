package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Storage bounds of the invoices table: tax_rate NUMERIC(7,3) and money
// columns NUMERIC(14,2). Both maxima are exclusive.
const TaxRateScale = 3

var (
	MaxTaxRate = decimal.NewFromInt(10_000)
	MaxAmount  = decimal.New(1, 12)
)

// Totals holds the three derived money fields of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal returns quantity × price with negatives coerced to zero.
func LineTotal(item Item) decimal.Decimal {
	item = sanitizeItem(item)
	return item.Price.Mul(decimal.NewFromInt(item.Quantity))
}

// ComputeTotals accumulates exactly; rounding happens only in Rounded.
func ComputeTotals(items []Item, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	tax := subtotal.Mul(taxRate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Rounded rounds half away from zero to cents. Total is the sum of the
// rounded parts so displayed figures always add up.
func (t Totals) Rounded() Totals {
	subtotal := t.Subtotal.Round(2)
	tax := t.TaxAmount.Round(2)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// ParseAmount coerces free-form input to a non-negative decimal.
// Empty, non-numeric and negative input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// ParseQuantity coerces free-form input to a non-negative whole quantity,
// truncating any fraction.
func ParseQuantity(raw string) int64 {
	value := ParseAmount(raw)
	if !value.IsInteger() {
		value = value.Truncate(0)
	}
	if !value.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return 0
	}
	return value.IntPart()
}

const maxQuantity = 1_000_000_000

// Recompute sanitizes the items and rederives the money fields, rounded for storage.
func (i *Invoice) Recompute() {
	items := make([]Item, 0, len(i.Items))
	for _, item := range i.Items {
		items = append(items, sanitizeItem(item))
	}
	i.Items = items
	if i.TaxRate.IsNegative() {
		i.TaxRate = decimal.Zero
	}
	i.TaxRate = i.TaxRate.Round(TaxRateScale)

	totals := ComputeTotals(items, i.TaxRate).Rounded()
	i.Subtotal = totals.Subtotal
	i.TaxAmount = totals.TaxAmount
	i.Total = totals.Total
}

// CheckBounds reports a tax rate or money amount the invoice columns
// cannot hold. Call it after Recompute.
func (i Invoice) CheckBounds() error {
	if !i.TaxRate.LessThan(MaxTaxRate) {
		return ErrInvalidTaxRate
	}
	for _, item := range i.Items {
		if !item.Price.LessThan(MaxAmount) {
			return ErrAmountOutOfRange
		}
	}
	for _, amount := range []decimal.Decimal{i.Subtotal, i.TaxAmount, i.Total} {
		if !amount.LessThan(MaxAmount) {
			return ErrAmountOutOfRange
		}
	}
	return nil
}

// Totals returns the stored derived fields.
func (i Invoice) Totals() Totals {
	return Totals{Subtotal: i.Subtotal, TaxAmount: i.TaxAmount, Total: i.Total}
}

func sanitizeItem(item Item) Item {
	item.Description = strings.TrimSpace(item.Description)
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	if item.Price.IsNegative() {
		item.Price = decimal.Zero
	}
	return item
}
