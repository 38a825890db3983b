package pdf

import (
	"context"
	"io"
	"strings"

	"github.com/gosimple/slug"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

// Provider renders invoices to PDF documents.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

// FileName returns the download name for an invoice, e.g. invoice_inv-20240315-0001.pdf.
func FileName(inv invoicedomain.Invoice) string {
	name := slug.Make(strings.TrimSpace(inv.InvoiceNumber))
	if name == "" {
		name = inv.ID.String()
	}
	return "invoice_" + name + ".pdf"
}
