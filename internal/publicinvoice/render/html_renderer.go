package render

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicegen/internal/invoice/format"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Invoice.InvoiceNumber}}</title>
  <style>
    :root {
      --primary: #111827;
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
      -webkit-font-smoothing: antialiased;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header-left h1 {
      margin: 0;
      font-size: 24px;
      font-weight: 700;
      color: #1a1f36;
    }
    .header-right {
      text-align: right;
      font-weight: 600;
      color: #8792a2;
      font-size: 16px;
    }
    
    .meta-grid {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .col {
      flex: 1;
    }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value {
      font-size: 14px;
      line-height: 1.5;
      color: #1a1f36;
    }
    
    .amount-section {
      margin-bottom: 40px;
    }
    .amount-large {
      font-size: 32px;
      font-weight: 700;
      color: #1a1f36;
      margin-bottom: 4px;
    }
    .pay-button {
      display: inline-block;
      border: 0;
      border-radius: 4px;
      padding: 10px 18px;
      background: var(--primary);
      color: #ffffff;
      font-size: 14px;
      font-weight: 600;
      text-decoration: none;
      cursor: pointer;
    }
    .paid-badge {
      display: inline-block;
      padding: 4px 10px;
      border-radius: 999px;
      background: #def7ec;
      color: #03543f;
      font-size: 12px;
      font-weight: 600;
    }
    .watermark {
      max-width: 760px;
      margin: 0 auto 16px;
      padding: 10px 16px;
      border-radius: 4px;
      background: #fef3c7;
      color: #92400e;
      font-size: 13px;
      text-align: center;
    }
    .terms { margin-top: 30px; }
    .terms-section { margin-bottom: 16px; }
    
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 30px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    td {
      padding: 16px 0;
      border-bottom: 1px solid #e3e8ee;
      font-size: 14px;
      color: #1a1f36;
      vertical-align: top;
    }
    .td-right { text-align: right; }
    
    .item-title { font-weight: 600; margin-bottom: 2px; }
    .item-sub { font-size: 12px; color: #697386; }
    
    .totals {
      width: 100%;
      display: flex;
      flex-direction: column;
      align-items: flex-end;
    }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 250px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-value { color: #1a1f36; text-align: right; font-weight: 500; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
      color: #1a1f36;
    }
    
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
    }
    
    .mt-4 { margin-top: 4px; }
  </style>
</head>
<body>
  {{if .ShowWatermark}}
  <div class="watermark">{{.WatermarkText}}</div>
  {{end}}
  <div class="invoice-card">
    <div class="header">
      <div class="header-left">
        <h1>Invoice</h1>
        <div class="label mt-4" style="margin-top: 12px;">Invoice number</div>
        <div class="value">{{.Invoice.InvoiceNumber}}</div>
      </div>
      <div class="header-right">
        <div>{{.Invoice.BusinessName}}</div>
        {{if .Invoice.BusinessAddress}}<div class="value">{{.Invoice.BusinessAddress}}</div>{{end}}
        {{if .Invoice.BusinessPhone}}<div class="value">{{.Invoice.BusinessPhone}}</div>{{end}}
      </div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">Bill to</div>
        <div class="value">
          <strong>{{.Invoice.ClientName}}</strong><br>
          {{.Invoice.ClientEmail}}
        </div>
      </div>
      <div class="col" style="flex: 0 0 200px;">
        <div class="label">Date due</div>
        <div class="value">{{formatDate .Invoice.DueDate}}</div>

        <div class="label" style="margin-top: 16px;">Date issued</div>
        <div class="value">{{formatDate .Invoice.Date}}</div>
      </div>
    </div>

    <div class="amount-section">
      <div class="amount-large">{{money .Invoice.Total}}</div>
      {{if .Invoice.Paid}}
      <span class="paid-badge">Paid</span>
      {{else}}
      <div class="value" style="color: #697386; margin-bottom: 12px;">due {{formatDate .Invoice.DueDate}}</div>
      {{end}}
      {{if .PayNowAvailable}}
        {{if eq .Provider.Provider "stripe"}}
        <form method="post" action="/invoice/{{.Invoice.ID}}/pay">
          <button type="submit" class="pay-button">Pay Now</button>
        </form>
        {{else if eq .Provider.Provider "paypal"}}
        <a class="pay-button" href="{{payPalURL .}}">Pay Now</a>
        {{end}}
      {{end}}
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Description</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Unit Price</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Invoice.Items}}
        <tr>
          <td><div class="item-title">{{.Description}}</div></td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{money .Price}}</td>
          <td class="td-right" style="font-weight: 500;">{{money .Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{money .Invoice.Subtotal}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Tax ({{percent .Invoice.TaxRate}})</span>
        <span class="total-value">{{money .Invoice.TaxAmount}}</span>
      </div>
      <div class="total-row total-final">
        <span class="total-label" style="color: #1a1f36;">Total</span>
        <span class="total-value">{{money .Invoice.Total}}</span>
      </div>
    </div>

    {{if .PaymentSections}}
    <div class="terms">
      <div class="label">Payment terms</div>
      {{range .PaymentSections}}
      <div class="terms-section">
        <div class="item-title">{{.Title}}</div>
        {{range .Lines}}<div class="item-sub">{{.}}</div>{{end}}
      </div>
      {{end}}
    </div>
    {{end}}

    {{if .Invoice.Notes}}
    <div class="footer">{{.Invoice.Notes}}</div>
    {{end}}
  </div>
</body>
</html>
`

type Renderer interface {
	RenderHTML(view domain.View) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(template.FuncMap{
			"formatDate": formatDate,
			"percent":    format.Percent,
			"payPalURL":  payPalURL,
			// money is rebound per render to the view currency.
			"money": func(decimal.Decimal) string { return "" },
		}).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(view domain.View) (string, error) {
	tpl, err := r.tpl.Clone()
	if err != nil {
		return "", err
	}
	tpl.Funcs(template.FuncMap{
		"money": func(amount decimal.Decimal) string { return format.Money(amount, view.Currency) },
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("January 2, 2006")
}

// payPalURL builds a PayPal Payments Standard link for the invoice total.
func payPalURL(view domain.View) string {
	if view.Provider == nil {
		return ""
	}
	values := url.Values{}
	values.Set("cmd", "_xclick")
	values.Set("business", view.Provider.AccountID)
	values.Set("item_name", "Invoice "+view.Invoice.InvoiceNumber)
	values.Set("amount", view.Invoice.Total.StringFixed(2))
	values.Set("currency_code", strings.ToUpper(view.Currency))
	return "https://www.paypal.com/cgi-bin/webscr?" + values.Encode()
}
