// Package export writes invoice and client listings as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	clientdomain "github.com/smallbiznis/invoicegen/internal/client/domain"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

var invoiceHeader = []string{
	"invoice_number", "date", "due_date", "client_name", "client_email",
	"items", "subtotal", "tax_rate", "tax_amount", "total", "status", "paid_at",
}

var clientHeader = []string{
	"email", "name", "company", "phone", "total_spent", "invoice_count",
	"last_payment", "payment_regularity", "preferred_payment_method", "source",
}

// WriteInvoicesCSV writes one row per invoice with totals rounded to cents.
func WriteInvoicesCSV(w io.Writer, invoices []invoicedomain.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(invoiceHeader); err != nil {
		return err
	}
	for _, inv := range invoices {
		totals := inv.Totals().Rounded()
		status := "pending"
		if inv.Paid {
			status = "paid"
		}
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			safeCell(inv.InvoiceNumber),
			date(inv.Date),
			date(inv.DueDate),
			safeCell(inv.ClientName),
			safeCell(inv.ClientEmail),
			strconv.Itoa(len(inv.Items)),
			totals.Subtotal.StringFixed(2),
			inv.TaxRate.String(),
			totals.TaxAmount.StringFixed(2),
			totals.Total.StringFixed(2),
			status,
			paidAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteClientsCSV(w io.Writer, summaries []clientdomain.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		lastPayment := ""
		if s.LastPayment != nil {
			lastPayment = date(*s.LastPayment)
		}
		row := []string{
			safeCell(s.Email),
			safeCell(s.Name),
			safeCell(s.Company),
			safeCell(s.Phone),
			s.TotalSpent.StringFixed(2),
			strconv.Itoa(s.InvoiceCount),
			lastPayment,
			string(s.PaymentRegularity),
			s.PreferredPaymentMethod,
			string(s.Source),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// safeCell neutralises values a spreadsheet would evaluate as a formula.
func safeCell(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}
