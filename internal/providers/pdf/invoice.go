package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/invoice/format"
	publicinvoicedomain "github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
)

type InvoiceData struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	InvoiceNumber   string
	IssueDate       string
	DueDate         string

	BillToName  string
	BillToEmail string

	Items []InvoiceItem

	Subtotal  string
	TaxLabel  string
	TaxAmount string
	Total     string

	Notes         string
	PaymentTerms  []publicinvoicedomain.PaymentSection
	Paid          bool
	WatermarkText string
}

type InvoiceItem struct {
	Description string
	Qty         int64
	UnitPrice   string
	Amount      string
}

// NewInvoiceData formats inv for rendering. watermarkText is printed only
// when the invoice carries the free-tier watermark.
func NewInvoiceData(inv invoicedomain.Invoice, currency string, watermarkText string) InvoiceData {
	public := publicinvoicedomain.FromInvoice(inv)
	items := make([]InvoiceItem, 0, len(public.Items))
	for _, item := range public.Items {
		items = append(items, InvoiceItem{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   format.Money(item.Price, currency),
			Amount:      format.Money(item.Amount, currency),
		})
	}
	data := InvoiceData{
		BusinessName:    inv.BusinessName,
		BusinessAddress: inv.BusinessAddress,
		BusinessPhone:   inv.BusinessPhone,
		InvoiceNumber:   inv.InvoiceNumber,
		IssueDate:       inv.Date.UTC().Format("2006-01-02"),
		DueDate:         inv.DueDate.UTC().Format("2006-01-02"),
		BillToName:      inv.ClientName,
		BillToEmail:     inv.ClientEmail,
		Items:           items,
		Subtotal:        format.Money(public.Subtotal, currency),
		TaxLabel:        fmt.Sprintf("Tax (%s)", format.Percent(inv.TaxRate)),
		TaxAmount:       format.Money(public.TaxAmount, currency),
		Total:           format.Money(public.Total, currency),
		Notes:           inv.Notes,
		PaymentTerms:    publicinvoicedomain.Sections(inv.PaymentTerms),
		Paid:            inv.Paid,
	}
	if inv.ShowWatermark {
		data.WatermarkText = watermarkText
	}
	return data
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

var watermarkColor = &props.Color{Red: 150, Green: 150, Blue: 150}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	if invoice.WatermarkText != "" {
		m.AddRow(6,
			text.NewCol(12, invoice.WatermarkText, props.Text{Size: 8, Color: watermarkColor}),
		)
	}

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(invoice.BusinessName, props.Text{Size: 14, Style: fontstyle.Bold}),
			text.New(invoice.BusinessAddress, props.Text{Top: 7, Size: 9}),
			text.New(invoice.BusinessPhone, props.Text{Top: 12, Size: 9}),
		),
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Align: align.Right, Size: 9}),
			text.New("Date: "+invoice.IssueDate, props.Text{Top: 5, Align: align.Right, Size: 9}),
			text.New("Due date: "+invoice.DueDate, props.Text{Top: 10, Align: align.Right, Size: 9}),
		),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.BillToName, props.Text{Top: 5}),
			text.New(invoice.BillToEmail, props.Text{Top: 10}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, invoice.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		col.New(8),
		text.NewCol(2, invoice.TaxLabel, props.Text{Size: 9}),
		text.NewCol(2, invoice.TaxAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, invoice.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	if invoice.Paid {
		m.AddRow(8,
			col.New(8),
			text.NewCol(4, "PAID", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		)
	}

	if invoice.Notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold, Top: 3}))
		m.AddAutoRow(text.NewCol(12, invoice.Notes, props.Text{Size: 9}))
	}

	if len(invoice.PaymentTerms) > 0 {
		m.AddRow(8, text.NewCol(12, "Payment terms", props.Text{Style: fontstyle.Bold, Top: 3}))
		for _, section := range invoice.PaymentTerms {
			m.AddRow(6, text.NewCol(12, section.Title, props.Text{Style: fontstyle.Bold, Size: 9}))
			for _, l := range section.Lines {
				m.AddRow(5, text.NewCol(12, l, props.Text{Size: 9}))
			}
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
