// Package domain describes hosted checkout sessions for a single invoice.
package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

var ErrInvalidInvoice = errors.New("invalid_invoice")

// InvoiceRef is the portion of an invoice a checkout session needs.
type InvoiceRef struct {
	ID    string               `json:"id"`
	Items []invoicedomain.Item `json:"items"`
}

type CreateSessionRequest struct {
	Invoice *InvoiceRef `json:"invoice"`

	// Origin is the scheme and host the payer returns to.
	Origin string `json:"-"`
}

type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type Session struct {
	ID string `json:"id"`
	// URL is the hosted payment page, when the processor returns one.
	URL string `json:"-"`
}

//go:generate mockgen -source=session.go -destination=mock/session_creator.go -package=mock

// SessionCreator opens a payment session with an external processor.
// Implementations never retry.
type SessionCreator interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
}

// Validate rejects a request with no invoice, no line items, or a price
// whose cents would not fit the invoice money columns.
func (r CreateSessionRequest) Validate() error {
	if r.Invoice == nil || len(r.Invoice.Items) == 0 {
		return ErrInvalidInvoice
	}
	for _, item := range r.Invoice.Items {
		if !item.Price.LessThan(invoicedomain.MaxAmount) {
			return ErrInvalidInvoice
		}
	}
	return nil
}

// LineItems maps invoice items to processor line items. Prices are
// converted to integer cents, rounding half away from zero.
func LineItems(items []invoicedomain.Item) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			Name:            strings.TrimSpace(item.Description),
			UnitAmountCents: ToCents(item.Price),
			Quantity:        item.Quantity,
		})
	}
	return out
}

func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ReturnURLs builds the success and cancel URLs for an invoice page.
func ReturnURLs(origin string, invoiceID string) (success string, cancel string) {
	base := strings.TrimRight(strings.TrimSpace(origin), "/") + "/invoice/" + strings.TrimSpace(invoiceID)
	return base + "?success=true", base + "?canceled=true"
}
