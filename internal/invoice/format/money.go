package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"idr": "Rp",
	"jpy": "¥",
}

// Money renders amount with two fraction digits and thousands separators,
// prefixed by the currency symbol when one is known.
func Money(amount decimal.Decimal, currency string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	prefix := currencySymbols[strings.ToLower(strings.TrimSpace(currency))]
	if prefix == "" && currency != "" {
		prefix = strings.ToUpper(strings.TrimSpace(currency)) + " "
	}
	return sign + prefix + b.String() + "." + frac
}

// Percent renders a percentage without trailing zeros, e.g. 7.5%.
func Percent(rate decimal.Decimal) string {
	return rate.String() + "%"
}
