// Package domain computes dashboard figures and payment reminders from an
// owner's invoices.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Overview(ctx context.Context) (Overview, error)
	Reminders(ctx context.Context) ([]Reminder, error)
}

type MonthlyRevenue struct {
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

type Overview struct {
	TotalRevenue       decimal.Decimal  `json:"total_revenue"`
	PaidRevenue        decimal.Decimal  `json:"paid_revenue"`
	Outstanding        decimal.Decimal  `json:"outstanding"`
	InvoiceCount       int              `json:"invoice_count"`
	PendingCount       int              `json:"pending_count"`
	OverdueCount       int              `json:"overdue_count"`
	MonthlyRevenue     []MonthlyRevenue `json:"monthly_revenue"`
	TotalClients       int              `json:"total_clients"`
	ActiveClients      int              `json:"active_clients"`
	AverageInvoice     decimal.Decimal  `json:"average_invoice_value"`
	RepeatClientRate   float64          `json:"repeat_client_rate"`
	AveragePaymentDays int              `json:"average_payment_days"`
}

type ReminderType string

const (
	ReminderOverdue  ReminderType = "overdue"
	ReminderUpcoming ReminderType = "upcoming"
)

type Reminder struct {
	Type          ReminderType    `json:"type"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	// DaysUntilDue is negative for overdue invoices.
	DaysUntilDue int `json:"days_until_due"`
}

var ErrInvalidOwner = errors.New("invalid_owner")
