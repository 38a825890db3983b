// Package domain defines the read-only invoice view shown to payers.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/invoice/format"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
)

type Service interface {
	GetPublicView(ctx context.Context, invoiceID string) (View, error)
	// StartPayment opens a checkout session for the stored invoice.
	StartPayment(ctx context.Context, invoiceID string, origin string) (checkoutdomain.Session, error)
}

var (
	ErrInvoiceUnavailable = errors.New("invoice_unavailable")
	ErrPaymentUnavailable = errors.New("payment_unavailable")
)

// View is everything a payer may see. It never carries the owner identifier.
type View struct {
	Invoice         PublicInvoice                            `json:"invoice"`
	PaymentSections []PaymentSection                         `json:"payment_sections"`
	ShowWatermark   bool                                     `json:"show_watermark"`
	WatermarkText   string                                   `json:"watermark_text,omitempty"`
	PayNowAvailable bool                                     `json:"pay_now_available"`
	Provider        *paymentproviderdomain.ConnectedProvider `json:"provider,omitempty"`
	Currency        string                                   `json:"currency"`
}

type PublicInvoice struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	BusinessName    string          `json:"business_name"`
	BusinessAddress string          `json:"business_address"`
	BusinessPhone   string          `json:"business_phone"`
	Date            time.Time       `json:"date"`
	DueDate         time.Time       `json:"due_date"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email"`
	Items           []PublicItem    `json:"items"`
	Notes           string          `json:"notes"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	Paid            bool            `json:"paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

type PublicItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentSection is one enabled payment method, already worded for display.
type PaymentSection struct {
	Method string   `json:"method"`
	Title  string   `json:"title"`
	Lines  []string `json:"lines"`
}

// FromInvoice copies the payer-visible fields with totals rounded for display.
func FromInvoice(inv invoicedomain.Invoice) PublicInvoice {
	totals := inv.Totals().Rounded()
	items := make([]PublicItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, PublicItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Amount:      invoicedomain.LineTotal(item).Round(2),
		})
	}
	return PublicInvoice{
		ID:              inv.ID.String(),
		InvoiceNumber:   inv.InvoiceNumber,
		BusinessName:    inv.BusinessName,
		BusinessAddress: inv.BusinessAddress,
		BusinessPhone:   inv.BusinessPhone,
		Date:            inv.Date,
		DueDate:         inv.DueDate,
		ClientName:      inv.ClientName,
		ClientEmail:     inv.ClientEmail,
		Items:           items,
		Notes:           inv.Notes,
		TaxRate:         inv.TaxRate,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		Paid:            inv.Paid,
		PaidAt:          inv.PaidAt,
	}
}

// Sections lists the enabled payment terms in display order.
func Sections(terms invoicedomain.PaymentTerms) []PaymentSection {
	sections := make([]PaymentSection, 0, len(invoicedomain.PaymentMethods))
	for _, method := range terms.EnabledMethods() {
		section := PaymentSection{Method: string(method)}
		switch method {
		case invoicedomain.PaymentMethodBankTransfer:
			section.Title = "Bank Transfer"
			bank := terms.BankTransfer
			section.Lines = nonEmpty(
				labelled("Account Name", bank.AccountName),
				labelled("Account Number", bank.AccountNumber),
				labelled("Bank Name", bank.BankName),
				labelled("Routing Number", bank.RoutingNumber),
			)
		case invoicedomain.PaymentMethodCreditCard:
			section.Title = "Credit Card"
			if len(terms.CreditCard.Brands) > 0 {
				section.Lines = []string{"Accepted cards: " + strings.Join(terms.CreditCard.Brands, ", ")}
			}
		case invoicedomain.PaymentMethodPayPal:
			section.Title = "PayPal"
			section.Lines = nonEmpty(labelled("PayPal Email", terms.PayPal.Email))
		case invoicedomain.PaymentMethodLateFee:
			section.Title = "Late Fee"
			section.Lines = []string{
				"A late fee of " + format.Percent(*terms.LateFeePercentage) + " will be applied to overdue payments.",
			}
		}
		if section.Lines == nil {
			section.Lines = []string{}
		}
		sections = append(sections, section)
	}
	return sections
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
