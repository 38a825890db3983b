package domain

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPaid    StatusFilter = "paid"
	StatusPending StatusFilter = "pending"
)

type SortField string

const (
	SortByDate       SortField = "date"
	SortByTotal      SortField = "total"
	SortByClientName SortField = "clientName"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListFilter selects and orders invoices for the dashboard listing.
// From and To are inclusive calendar dates compared against Invoice.Date.
type ListFilter struct {
	Query     string
	Status    StatusFilter
	From      *time.Time
	To        *time.Time
	SortField SortField
	SortDir   SortDirection
}

// Normalize fills defaults and rejects unknown enum values.
func (f ListFilter) Normalize() (ListFilter, error) {
	f.Query = strings.TrimSpace(f.Query)
	switch f.Status {
	case "":
		f.Status = StatusAll
	case StatusAll, StatusPaid, StatusPending:
	default:
		return f, ErrInvalidStatusFilter
	}
	switch f.SortField {
	case "":
		f.SortField = SortByDate
	case SortByDate, SortByTotal, SortByClientName:
	default:
		return f, ErrInvalidSortField
	}
	switch f.SortDir {
	case "":
		f.SortDir = SortDesc
	case SortAsc, SortDesc:
	default:
		return f, ErrInvalidSortField
	}
	if f.From != nil && f.To != nil && DateOnly(*f.From).After(DateOnly(*f.To)) {
		return f, ErrInvalidDateRange
	}
	return f, nil
}

// Apply returns the invoices matching every criterion of f, stably sorted.
// The input slice is not modified.
func Apply(invoices []Invoice, f ListFilter) []Invoice {
	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.matches(inv) {
			out = append(out, inv)
		}
	}

	less := f.less()
	sort.SliceStable(out, func(i, j int) bool {
		if f.SortDir == SortAsc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func (f ListFilter) matches(inv Invoice) bool {
	switch f.Status {
	case StatusPaid:
		if !inv.Paid {
			return false
		}
	case StatusPending:
		if inv.Paid {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(inv.ClientName), q) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
			return false
		}
	}

	date := DateOnly(inv.Date)
	if f.From != nil && date.Before(DateOnly(*f.From)) {
		return false
	}
	if f.To != nil && date.After(DateOnly(*f.To)) {
		return false
	}
	return true
}

// less is a strict ascending order on the sort key; equal keys keep input order.
func (f ListFilter) less() func(a, b Invoice) bool {
	switch f.SortField {
	case SortByTotal:
		return func(a, b Invoice) bool { return a.Total.LessThan(b.Total) }
	case SortByClientName:
		// Collators carry scratch buffers, so each listing gets its own.
		c := collate.New(language.English)
		return func(a, b Invoice) bool { return c.CompareString(a.ClientName, b.ClientName) < 0 }
	default:
		return func(a, b Invoice) bool { return DateOnly(a.Date).Before(DateOnly(b.Date)) }
	}
}
