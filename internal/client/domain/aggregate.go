package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EmailKey is the case-insensitive identity of a client.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Aggregate projects invoices and directory entries into one Summary per
// distinct client email. Invoice-derived figures always win; the directory
// only supplies what invoices cannot: company, phone, notes, an explicit
// preferred method and a late fee. Invoices without an email are skipped.
//
// Output is ordered by total spent descending, then by display name.
func Aggregate(invoices []invoicedomain.Invoice, directory []Client, today time.Time) []Summary {
	type acc struct {
		summary Summary
		latest  *invoicedomain.Invoice
	}
	byKey := make(map[string]*acc)
	order := make([]string, 0)

	get := func(key string) *acc {
		a, ok := byKey[key]
		if !ok {
			a = &acc{summary: Summary{
				ID:                key,
				TotalSpent:        decimal.Zero,
				PaymentRegularity: RegularityRegular,
			}}
			byKey[key] = a
			order = append(order, key)
		}
		return a
	}

	for i := range invoices {
		inv := &invoices[i]
		key := EmailKey(inv.ClientEmail)
		if key == "" {
			continue
		}
		a := get(key)
		s := &a.summary
		s.Source = SourceInvoices
		s.InvoiceCount++
		s.TotalSpent = s.TotalSpent.Add(inv.Total)

		if inv.Paid {
			date := invoicedomain.DateOnly(inv.Date)
			if s.LastPayment == nil || date.After(*s.LastPayment) {
				s.LastPayment = &date
			}
		}
		if inv.IsOverdue(today) {
			s.PaymentRegularity = RegularityIrregular
		}
		if a.latest == nil || isMoreRecent(inv, a.latest) {
			a.latest = inv
		}
	}

	for _, a := range byKey {
		if a.latest == nil {
			continue
		}
		a.summary.Name = a.latest.ClientName
		a.summary.Email = a.latest.ClientEmail
		a.summary.PreferredPaymentMethod, a.summary.PreferredCardBrand = preferredFromTerms(a.latest.PaymentTerms)
		a.summary.LateFeePercentage = a.latest.PaymentTerms.LateFeePercentage
	}

	for _, entry := range directory {
		key := EmailKey(entry.Email)
		if key == "" {
			continue
		}
		a := get(key)
		s := &a.summary
		id := entry.ID
		s.DirectoryID = &id
		if s.Source == SourceInvoices {
			s.Source = SourceBoth
		} else {
			s.Source = SourceDirectory
			s.Email = entry.Email
			s.Name = entry.Name
		}
		if s.Name == "" {
			s.Name = entry.Name
		}
		s.Company = entry.Company
		s.Phone = entry.Phone
		s.Notes = entry.Notes
		if entry.PreferredPaymentMethod != "" {
			s.PreferredPaymentMethod = entry.PreferredPaymentMethod
			s.PreferredCardBrand = ""
		}
		if entry.LateFeePercentage != nil {
			s.LateFeePercentage = entry.LateFeePercentage
		}
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key].summary)
	}

	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].TotalSpent.Cmp(out[j].TotalSpent); cmp != 0 {
			return cmp > 0
		}
		return c.CompareString(out[i].DisplayName(), out[j].DisplayName()) < 0
	})
	return out
}

// DisplayName prefers the contact name, then the company, then the email.
func (s Summary) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Company != "":
		return s.Company
	}
	return s.Email
}

func isMoreRecent(a, b *invoicedomain.Invoice) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// preferredFromTerms picks bank transfer, then PayPal, then the first
// accepted card brand in alphabetical order.
func preferredFromTerms(terms invoicedomain.PaymentTerms) (string, string) {
	switch {
	case terms.BankTransfer != nil:
		return string(invoicedomain.PaymentMethodBankTransfer), ""
	case terms.PayPal != nil:
		return string(invoicedomain.PaymentMethodPayPal), ""
	case terms.CreditCard.Enabled && len(terms.CreditCard.Brands) > 0:
		brands := append([]string(nil), terms.CreditCard.Brands...)
		sort.Strings(brands)
		return string(invoicedomain.PaymentMethodCreditCard), brands[0]
	}
	return "", ""
}
