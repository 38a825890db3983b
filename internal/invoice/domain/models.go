// Package domain contains the invoice model and the pure rules that derive
// totals, payment terms and dashboard listings from it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice is a billable document owned by exactly one user.
// Subtotal, TaxAmount and Total are derived by Recompute and never authored.
type Invoice struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID string       `gorm:"not null;index" json:"owner_id"`

	BusinessName    string `gorm:"not null;default:''" json:"business_name"`
	BusinessAddress string `gorm:"not null;default:''" json:"business_address"`
	BusinessPhone   string `gorm:"not null;default:''" json:"business_phone"`

	InvoiceNumber string    `gorm:"not null;index" json:"invoice_number"`
	Date          time.Time `gorm:"not null" json:"date"`
	DueDate       time.Time `gorm:"not null" json:"due_date"`

	ClientName  string `gorm:"not null" json:"client_name"`
	ClientEmail string `gorm:"not null;index" json:"client_email"`

	Items   datatypes.JSONSlice[Item] `gorm:"not null" json:"items"`
	Notes   string                    `gorm:"not null;default:''" json:"notes"`
	TaxRate decimal.Decimal           `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"subtotal"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tax_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total"`

	PaymentTerms     PaymentTerms `gorm:"serializer:json;not null" json:"payment_terms"`
	ShowWatermark    bool         `gorm:"not null;default:false" json:"show_watermark"`
	PaymentProvider  string       `gorm:"not null;default:''" json:"payment_provider,omitempty"`
	PaymentAccountID string       `gorm:"not null;default:''" json:"payment_account_id,omitempty"`

	Paid   bool       `gorm:"not null;default:false" json:"paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Item is a line on an invoice. It has no identity beyond its position.
type Item struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// IsOverdue reports whether the invoice is unpaid and due strictly before today.
func (i Invoice) IsOverdue(today time.Time) bool {
	return !i.Paid && DateOnly(i.DueDate).Before(DateOnly(today))
}

// DateOnly truncates t to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
