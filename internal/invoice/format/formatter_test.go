package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	issuedAt := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("default template", func(t *testing.T) {
		out, err := FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issuedAt, 7)
		require.NoError(t, err)
		assert.Equal(t, "INV-20240309-0007", out)
	})

	t.Run("plain sequence and short year", func(t *testing.T) {
		out, err := FormatInvoiceNumber("{YY}/{SEQ}", issuedAt, 42)
		require.NoError(t, err)
		assert.Equal(t, "24/42", out)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := FormatInvoiceNumber("", issuedAt, 1)
		assert.Error(t, err)
		_, err = FormatInvoiceNumber("INV-{SEQ}", issuedAt, 0)
		assert.Error(t, err)
		_, err = FormatInvoiceNumber("INV-{NOPE}", issuedAt, 1)
		assert.Error(t, err)
	})
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$28.05", Money(decimal.RequireFromString("28.05"), "usd"))
	assert.Equal(t, "$1,234,567.50", Money(decimal.RequireFromString("1234567.5"), "USD"))
	assert.Equal(t, "-$0.01", Money(decimal.RequireFromString("-0.005"), "usd"))
	assert.Equal(t, "CHF 10.00", Money(decimal.NewFromInt(10), "chf"))
	assert.Equal(t, "999.00", Money(decimal.NewFromInt(999), ""))
	assert.Equal(t, "7.5%", Percent(decimal.RequireFromString("7.50")))
}
