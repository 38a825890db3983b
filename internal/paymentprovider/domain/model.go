package domain

import "time"

const (
	ProviderStripe = "stripe"
	ProviderPayPal = "paypal"

	PlanFree = "free"
	PlanPro  = "pro"
)

// Connection is the single payment provider an owner has connected, plus
// the owner's plan. At most one of Stripe or PayPal is set.
type Connection struct {
	OwnerID     string    `json:"owner_id" gorm:"primaryKey;type:varchar(128)"`
	Provider    string    `json:"provider" gorm:"type:varchar(32);not null;default:''"`
	AccountID   string    `json:"account_id" gorm:"type:varchar(255);not null;default:''"`
	PayPalEmail string    `json:"paypal_email" gorm:"type:varchar(255);not null;default:''"`
	Plan        string    `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

func (Connection) TableName() string { return "payment_provider_connections" }

// Connected reports whether a provider is linked.
func (c Connection) Connected() bool {
	return c.Provider != ""
}
