package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod names one independently toggleable section of PaymentTerms.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodLateFee      PaymentMethod = "late_fee"
)

// PaymentMethods lists the methods in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodBankTransfer,
	PaymentMethodCreditCard,
	PaymentMethodPayPal,
	PaymentMethodLateFee,
}

// ParsePaymentMethod validates a method name.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range PaymentMethods {
		if method == known {
			return method, nil
		}
	}
	return "", ErrInvalidPaymentMethod
}

// PaymentTerms holds the payment methods an invoice offers. A nil section
// (or a disabled CreditCard) means the method is not offered; a present
// section with empty fields means offered but not yet filled in.
type PaymentTerms struct {
	BankTransfer      *BankTransferDetails `json:"bank_transfer"`
	CreditCard        CardAcceptance       `json:"credit_card"`
	PayPal            *PayPalDetails       `json:"paypal"`
	LateFeePercentage *decimal.Decimal     `json:"late_fee_percentage"`
}

type BankTransferDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	RoutingNumber string `json:"routing_number"`
}

// CardAcceptance is Disabled, or Enabled with a (possibly empty) set of brands.
type CardAcceptance struct {
	Enabled bool     `json:"enabled"`
	Brands  []string `json:"brands"`
}

type PayPalDetails struct {
	Email string `json:"email"`
}

// Enabled reports whether method is currently offered.
func (t PaymentTerms) Enabled(method PaymentMethod) bool {
	switch method {
	case PaymentMethodBankTransfer:
		return t.BankTransfer != nil
	case PaymentMethodCreditCard:
		return t.CreditCard.Enabled
	case PaymentMethodPayPal:
		return t.PayPal != nil
	case PaymentMethodLateFee:
		return t.LateFeePercentage != nil
	}
	return false
}

// EnabledMethods returns the offered methods in display order.
func (t PaymentTerms) EnabledMethods() []PaymentMethod {
	methods := make([]PaymentMethod, 0, len(PaymentMethods))
	for _, method := range PaymentMethods {
		if t.Enabled(method) {
			methods = append(methods, method)
		}
	}
	return methods
}

// Toggle flips method between absent and present-with-defaults. Turning a
// method off discards whatever was entered for it.
func (t *PaymentTerms) Toggle(method PaymentMethod) error {
	switch method {
	case PaymentMethodBankTransfer:
		if t.BankTransfer != nil {
			t.BankTransfer = nil
		} else {
			t.BankTransfer = &BankTransferDetails{}
		}
	case PaymentMethodCreditCard:
		if t.CreditCard.Enabled {
			t.CreditCard = CardAcceptance{}
		} else {
			t.CreditCard = CardAcceptance{Enabled: true, Brands: []string{}}
		}
	case PaymentMethodPayPal:
		if t.PayPal != nil {
			t.PayPal = nil
		} else {
			t.PayPal = &PayPalDetails{}
		}
	case PaymentMethodLateFee:
		if t.LateFeePercentage != nil {
			t.LateFeePercentage = nil
		} else {
			zero := decimal.Zero
			t.LateFeePercentage = &zero
		}
	default:
		return ErrInvalidPaymentMethod
	}
	return nil
}

// ToggleCardBrand adds or removes brand from the accepted set. It is a
// no-op returning false while card acceptance is disabled.
func (t *PaymentTerms) ToggleCardBrand(brand string) bool {
	brand = strings.TrimSpace(brand)
	if !t.CreditCard.Enabled || brand == "" {
		return false
	}
	brands := make([]string, 0, len(t.CreditCard.Brands)+1)
	removed := false
	for _, existing := range t.CreditCard.Brands {
		if strings.EqualFold(existing, brand) {
			removed = true
			continue
		}
		brands = append(brands, existing)
	}
	if !removed {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	t.CreditCard.Brands = brands
	return true
}

// AcceptsCard reports whether brand is in the accepted set.
func (t PaymentTerms) AcceptsCard(brand string) bool {
	if !t.CreditCard.Enabled {
		return false
	}
	for _, existing := range t.CreditCard.Brands {
		if strings.EqualFold(existing, strings.TrimSpace(brand)) {
			return true
		}
	}
	return false
}

func (t *PaymentTerms) SetBankTransfer(details BankTransferDetails) error {
	if t.BankTransfer == nil {
		return ErrPaymentMethodDisabled
	}
	details.AccountName = strings.TrimSpace(details.AccountName)
	details.AccountNumber = strings.TrimSpace(details.AccountNumber)
	details.BankName = strings.TrimSpace(details.BankName)
	details.RoutingNumber = strings.TrimSpace(details.RoutingNumber)
	t.BankTransfer = &details
	return nil
}

func (t *PaymentTerms) SetPayPalEmail(email string) error {
	if t.PayPal == nil {
		return ErrPaymentMethodDisabled
	}
	t.PayPal = &PayPalDetails{Email: strings.TrimSpace(email)}
	return nil
}

// SetLateFee stores a non-negative percentage; negative input becomes zero.
func (t *PaymentTerms) SetLateFee(percentage decimal.Decimal) error {
	if t.LateFeePercentage == nil {
		return ErrPaymentMethodDisabled
	}
	if percentage.IsNegative() {
		percentage = decimal.Zero
	}
	t.LateFeePercentage = &percentage
	return nil
}

// Normalize makes the stored shape canonical: disabled card acceptance
// carries no brands, blank brand entries are dropped, and the brand set is
// sorted and deduplicated.
func (t *PaymentTerms) Normalize() {
	if t.LateFeePercentage != nil && t.LateFeePercentage.IsNegative() {
		zero := decimal.Zero
		t.LateFeePercentage = &zero
	}
	if !t.CreditCard.Enabled {
		t.CreditCard = CardAcceptance{}
		return
	}
	seen := make(map[string]struct{}, len(t.CreditCard.Brands))
	brands := make([]string, 0, len(t.CreditCard.Brands))
	for _, brand := range t.CreditCard.Brands {
		brand = strings.TrimSpace(brand)
		if brand == "" {
			continue
		}
		key := strings.ToLower(brand)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	t.CreditCard.Brands = brands
}
