package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

const day = 24 * time.Hour

// Build computes the dashboard figures. A client is active when one of
// their invoices is dated within activeWindowDays of today.
func Build(invoices []invoicedomain.Invoice, today time.Time, activeWindowDays int) Overview {
	today = invoicedomain.DateOnly(today)
	activeSince := today.AddDate(0, 0, -activeWindowDays)

	out := Overview{
		TotalRevenue:   decimal.Zero,
		PaidRevenue:    decimal.Zero,
		Outstanding:    decimal.Zero,
		AverageInvoice: decimal.Zero,
		MonthlyRevenue: []MonthlyRevenue{},
		InvoiceCount:   len(invoices),
	}

	months := map[string]*MonthlyRevenue{}
	perClient := map[string]int{}
	active := map[string]struct{}{}
	paymentDays := 0
	paidCount := 0

	for _, inv := range invoices {
		total := inv.Total
		out.TotalRevenue = out.TotalRevenue.Add(total)
		if inv.Paid {
			out.PaidRevenue = out.PaidRevenue.Add(total)
			paidCount++
			paymentDays += daysBetween(inv.Date, inv.DueDate)
		} else {
			out.Outstanding = out.Outstanding.Add(total)
			out.PendingCount++
			if inv.IsOverdue(today) {
				out.OverdueCount++
			}
		}

		key := invoicedomain.DateOnly(inv.Date).Format("2006-01")
		bucket, ok := months[key]
		if !ok {
			bucket = &MonthlyRevenue{Month: key, Revenue: decimal.Zero}
			months[key] = bucket
		}
		bucket.Revenue = bucket.Revenue.Add(total)
		bucket.InvoiceCount++

		client := strings.ToLower(strings.TrimSpace(inv.ClientEmail))
		if client == "" {
			continue
		}
		perClient[client]++
		if !invoicedomain.DateOnly(inv.Date).Before(activeSince) {
			active[client] = struct{}{}
		}
	}

	for _, bucket := range months {
		out.MonthlyRevenue = append(out.MonthlyRevenue, *bucket)
	}
	sort.Slice(out.MonthlyRevenue, func(i, j int) bool {
		return out.MonthlyRevenue[i].Month < out.MonthlyRevenue[j].Month
	})

	out.TotalClients = len(perClient)
	out.ActiveClients = len(active)
	if len(invoices) > 0 {
		out.AverageInvoice = out.TotalRevenue.Div(decimal.NewFromInt(int64(len(invoices)))).Round(2)
	}
	if out.TotalClients > 0 {
		repeat := 0
		for _, count := range perClient {
			if count > 1 {
				repeat++
			}
		}
		out.RepeatClientRate = math.Round(float64(repeat)/float64(out.TotalClients)*10000) / 100
	}
	if paidCount > 0 {
		out.AveragePaymentDays = int(math.Round(float64(paymentDays) / float64(paidCount)))
	}
	return out
}

// BuildReminders lists unpaid invoices that are overdue or due within
// upcomingDays, earliest due date first.
func BuildReminders(invoices []invoicedomain.Invoice, today time.Time, upcomingDays int) []Reminder {
	today = invoicedomain.DateOnly(today)
	horizon := today.AddDate(0, 0, upcomingDays)

	reminders := make([]Reminder, 0)
	for _, inv := range invoices {
		if inv.Paid {
			continue
		}
		due := invoicedomain.DateOnly(inv.DueDate)
		var kind ReminderType
		switch {
		case due.Before(today):
			kind = ReminderOverdue
		case !due.After(horizon):
			kind = ReminderUpcoming
		default:
			continue
		}
		reminders = append(reminders, Reminder{
			Type:          kind,
			InvoiceID:     inv.ID.String(),
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			Amount:        inv.Total,
			DueDate:       due,
			DaysUntilDue:  int(due.Sub(today) / day),
		})
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		if !reminders[i].DueDate.Equal(reminders[j].DueDate) {
			return reminders[i].DueDate.Before(reminders[j].DueDate)
		}
		return reminders[i].InvoiceID < reminders[j].InvoiceID
	})
	return reminders
}

// daysBetween is the whole number of days separating two dates, rounded up.
func daysBetween(a, b time.Time) int {
	diff := invoicedomain.DateOnly(a).Sub(invoicedomain.DateOnly(b))
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}
