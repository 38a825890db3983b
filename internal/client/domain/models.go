package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Client is an explicitly saved directory entry. Computed figures such as
// total spent are never stored; they come from invoices at read time.
type Client struct {
	ID                     snowflake.ID     `gorm:"primaryKey" json:"id"`
	OwnerID                string           `gorm:"not null;uniqueIndex:ux_clients_owner_email,priority:1" json:"owner_id"`
	EmailKey               string           `gorm:"not null;uniqueIndex:ux_clients_owner_email,priority:2" json:"-"`
	Company                string           `gorm:"not null;default:''" json:"company"`
	Name                   string           `gorm:"not null;default:''" json:"name"`
	Email                  string           `gorm:"not null" json:"email"`
	Phone                  string           `gorm:"not null;default:''" json:"phone"`
	Notes                  string           `gorm:"not null;default:''" json:"notes"`
	PreferredPaymentMethod string           `gorm:"not null;default:''" json:"preferred_payment_method,omitempty"`
	LateFeePercentage      *decimal.Decimal `gorm:"type:decimal(7,3)" json:"late_fee_percentage,omitempty"`
	CreatedAt              time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time        `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

type PaymentRegularity string

const (
	RegularityRegular   PaymentRegularity = "regular"
	RegularityIrregular PaymentRegularity = "irregular"
)

type Source string

const (
	SourceInvoices  Source = "invoices"
	SourceDirectory Source = "directory"
	SourceBoth      Source = "both"
)

// Summary is the read-time view of one client, keyed by email.
type Summary struct {
	ID                     string            `json:"id"`
	DirectoryID            *snowflake.ID     `json:"directory_id,omitempty"`
	Company                string            `json:"company"`
	Name                   string            `json:"name"`
	Email                  string            `json:"email"`
	Phone                  string            `json:"phone"`
	Notes                  string            `json:"notes"`
	TotalSpent             decimal.Decimal   `json:"total_spent"`
	LastPayment            *time.Time        `json:"last_payment"`
	PaymentRegularity      PaymentRegularity `json:"payment_regularity"`
	PreferredPaymentMethod string            `json:"preferred_payment_method,omitempty"`
	PreferredCardBrand     string            `json:"preferred_card_brand,omitempty"`
	LateFeePercentage      *decimal.Decimal  `json:"late_fee_percentage,omitempty"`
	InvoiceCount           int               `json:"invoice_count"`
	Source                 Source            `json:"source"`
}
