package server

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

// InputNumber accepts a JSON number or string as typed into a form field.
// Anything that does not parse is coerced later, never rejected.
type InputNumber string

func (n *InputNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = InputNumber(s)
		return nil
	}
	*n = InputNumber(data)
	return nil
}

func (n InputNumber) Amount() decimal.Decimal {
	return invoicedomain.ParseAmount(string(n))
}

func (n InputNumber) Quantity() int64 {
	return invoicedomain.ParseQuantity(string(n))
}

type invoiceItemRequest struct {
	Description string      `json:"description"`
	Quantity    InputNumber `json:"quantity"`
	Price       InputNumber `json:"price"`
}

type invoiceRequest struct {
	BusinessName    string                     `json:"business_name"`
	BusinessAddress string                     `json:"business_address"`
	BusinessPhone   string                     `json:"business_phone"`
	InvoiceNumber   string                     `json:"invoice_number"`
	Date            string                     `json:"date"`
	DueDate         string                     `json:"due_date"`
	ClientName      string                     `json:"client_name"`
	ClientEmail     string                     `json:"client_email"`
	Items           []invoiceItemRequest       `json:"items"`
	Notes           string                     `json:"notes"`
	TaxRate         InputNumber                `json:"tax_rate"`
	PaymentTerms    invoicedomain.PaymentTerms `json:"payment_terms"`
	Paid            *bool                      `json:"paid"`
}

func toItems(items []invoiceItemRequest) []invoicedomain.Item {
	out := make([]invoicedomain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, invoicedomain.Item{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity.Quantity(),
			Price:       item.Price.Amount(),
		})
	}
	return out
}

func (r invoiceRequest) toDomain() (invoicedomain.SaveInvoiceRequest, error) {
	date, err := parseOptionalTime(r.Date, false)
	if err != nil {
		return invoicedomain.SaveInvoiceRequest{}, newValidationError("date", "invalid_date", "invalid date")
	}
	dueDate, err := parseOptionalTime(r.DueDate, false)
	if err != nil {
		return invoicedomain.SaveInvoiceRequest{}, newValidationError("due_date", "invalid_due_date", "invalid due date")
	}

	return invoicedomain.SaveInvoiceRequest{
		BusinessName:    strings.TrimSpace(r.BusinessName),
		BusinessAddress: strings.TrimSpace(r.BusinessAddress),
		BusinessPhone:   strings.TrimSpace(r.BusinessPhone),
		InvoiceNumber:   strings.TrimSpace(r.InvoiceNumber),
		Date:            date,
		DueDate:         dueDate,
		ClientName:      strings.TrimSpace(r.ClientName),
		ClientEmail:     strings.TrimSpace(r.ClientEmail),
		Items:           toItems(r.Items),
		Notes:           r.Notes,
		TaxRate:         r.TaxRate.Amount(),
		PaymentTerms:    r.PaymentTerms,
		Paid:            r.Paid,
	}, nil
}
