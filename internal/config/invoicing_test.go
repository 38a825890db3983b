package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeInvoicingFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoicing.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInvoicingConfigDefaultsWhenFileMissing(t *testing.T) {
	v := viper.New()
	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath(t.TempDir())

	holder, err := newInvoicingConfigHolder(v, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultInvoicingConfig(), holder.Get())
}

func TestInvoicingConfigReadsFile(t *testing.T) {
	path := writeInvoicingFile(t, `
invoicing:
  cardBrands: ["Visa", "UnionPay"]
  watermarkText: "Made with love"
  invoiceNumberTemplate: "A-{SEQ}"
  reminderWindowDays: 3
`)
	v := viper.New()
	v.SetConfigFile(path)

	holder, err := newInvoicingConfigHolder(v, zaptest.NewLogger(t))
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, []string{"Visa", "UnionPay"}, cfg.CardBrands)
	assert.Equal(t, "Made with love", cfg.WatermarkText)
	assert.Equal(t, "A-{SEQ}", cfg.InvoiceNumberTemplate)
	assert.Equal(t, 3, cfg.ReminderWindowDays)
	assert.Equal(t, 30, cfg.ActiveClientWindowDays)
}

func TestInvoicingConfigRejectsInvalidFile(t *testing.T) {
	path := writeInvoicingFile(t, `
invoicing:
  cardBrands: ["Visa", "  "]
`)
	v := viper.New()
	v.SetConfigFile(path)

	_, err := newInvoicingConfigHolder(v, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *InvoicingConfigHolder
	assert.Equal(t, DefaultInvoicingConfig().CardBrands, holder.Get().CardBrands)
}
