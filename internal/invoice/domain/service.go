package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SaveInvoiceRequest carries the whole editable document. Updates replace
// every field; the last writer wins.
type SaveInvoiceRequest struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	InvoiceNumber   string
	Date            *time.Time
	DueDate         *time.Time
	ClientName      string
	ClientEmail     string
	Items           []Item
	Notes           string
	TaxRate         decimal.Decimal
	PaymentTerms    PaymentTerms
	Paid            *bool
}

type Service interface {
	Create(ctx context.Context, req SaveInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id string, req SaveInvoiceRequest) (Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) (Invoice, error)
	MarkUnpaid(ctx context.Context, id string) (Invoice, error)
	TogglePaymentMethod(ctx context.Context, id string, method string) (Invoice, error)
	ToggleCardBrand(ctx context.Context, id string, brand string) (Invoice, error)
	Preview(ctx context.Context, req SaveInvoiceRequest) (Invoice, error)

	// GetPublic loads an invoice by id without owner scoping, for the
	// read-only public view.
	GetPublic(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrInvalidOwner          = errors.New("invalid_owner")
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
	ErrInvalidClientName     = errors.New("invalid_client_name")
	ErrInvalidClientEmail    = errors.New("invalid_client_email")
	ErrEmptyItems            = errors.New("empty_items")
	ErrInvalidDueDate        = errors.New("invalid_due_date")
	ErrInvalidPaymentMethod  = errors.New("invalid_payment_method")
	ErrPaymentMethodDisabled = errors.New("payment_method_disabled")
	ErrInvalidCardBrand      = errors.New("invalid_card_brand")
	ErrInvalidStatusFilter   = errors.New("invalid_status_filter")
	ErrInvalidSortField      = errors.New("invalid_sort_field")
	ErrInvalidDateRange      = errors.New("invalid_date_range")
	ErrInvalidTaxRate        = errors.New("invalid_tax_rate")
	ErrAmountOutOfRange      = errors.New("amount_out_of_range")
)
