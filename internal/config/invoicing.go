package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoicingConfig is the runtime-tunable part of the invoicing rules.
type InvoicingConfig struct {
	CardBrands             []string `mapstructure:"cardBrands"`
	WatermarkText          string   `mapstructure:"watermarkText"`
	InvoiceNumberTemplate  string   `mapstructure:"invoiceNumberTemplate"`
	DefaultDueDays         int      `mapstructure:"defaultDueDays"`
	ReminderWindowDays     int      `mapstructure:"reminderWindowDays"`
	ActiveClientWindowDays int      `mapstructure:"activeClientWindowDays"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		CardBrands: []string{
			"Visa",
			"MasterCard",
			"American Express",
			"Discover",
			"JCB",
			"Diners Club",
		},
		WatermarkText:          "Created with InvoiceGen - Create your own invoices for free!",
		InvoiceNumberTemplate:  "INV-{YYYY}{MM}{DD}-{SEQ4}",
		DefaultDueDays:         30,
		ReminderWindowDays:     7,
		ActiveClientWindowDays: 30,
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

// NewStaticInvoicingConfigHolder wraps a fixed config without file watching.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewInvoicingConfigHolder(log *zap.Logger) (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicegen")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return newInvoicingConfigHolder(v, log)
}

func newInvoicingConfigHolder(v *viper.Viper, log *zap.Logger) (*InvoicingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("invoicing.config")

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeInvoicingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticInvoicingConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeInvoicingConfig(v)
		if err != nil {
			log.Warn("invoicing config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("invoicing config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func decodeInvoicingConfig(v *viper.Viper) (InvoicingConfig, error) {
	var cfg InvoicingConfig
	if v.IsSet("invoicing") {
		if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
			return InvoicingConfig{}, err
		}
	}
	cfg = withInvoicingDefaults(cfg)
	if err := validateInvoicingConfig(cfg); err != nil {
		return InvoicingConfig{}, err
	}
	return cfg, nil
}

func withInvoicingDefaults(cfg InvoicingConfig) InvoicingConfig {
	defaults := DefaultInvoicingConfig()
	if cfg.CardBrands == nil {
		cfg.CardBrands = defaults.CardBrands
	}
	if cfg.WatermarkText == "" {
		cfg.WatermarkText = defaults.WatermarkText
	}
	if cfg.InvoiceNumberTemplate == "" {
		cfg.InvoiceNumberTemplate = defaults.InvoiceNumberTemplate
	}
	if cfg.DefaultDueDays == 0 {
		cfg.DefaultDueDays = defaults.DefaultDueDays
	}
	if cfg.ReminderWindowDays == 0 {
		cfg.ReminderWindowDays = defaults.ReminderWindowDays
	}
	if cfg.ActiveClientWindowDays == 0 {
		cfg.ActiveClientWindowDays = defaults.ActiveClientWindowDays
	}
	return cfg
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	if h == nil {
		return DefaultInvoicingConfig()
	}
	cfg, ok := h.current.Load().(InvoicingConfig)
	if !ok {
		return DefaultInvoicingConfig()
	}
	return cfg
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if len(cfg.CardBrands) == 0 {
		return errors.New("invoicing.cardBrands cannot be empty")
	}
	for _, brand := range cfg.CardBrands {
		if strings.TrimSpace(brand) == "" {
			return errors.New("invoicing.cardBrands cannot contain blank entries")
		}
	}
	if strings.TrimSpace(cfg.InvoiceNumberTemplate) == "" {
		return errors.New("invoicing.invoiceNumberTemplate cannot be empty")
	}
	if cfg.DefaultDueDays < 0 || cfg.ReminderWindowDays < 0 || cfg.ActiveClientWindowDays < 0 {
		return errors.New("invoicing day windows cannot be negative")
	}
	return nil
}
