package domain

import (
	"context"
	"errors"
)

type Service interface {
	Status(ctx context.Context) (Status, error)
	ConnectStripe(ctx context.Context, accountID string) (Status, error)
	ConnectPayPal(ctx context.Context, email string) (Status, error)
	Disconnect(ctx context.Context) (Status, error)
	SetPlan(ctx context.Context, plan string) (Status, error)

	// Connected returns the provider linked by ownerID, or nil.
	Connected(ctx context.Context, ownerID string) (*ConnectedProvider, error)
	// ShowWatermark reports whether ownerID's documents carry the free-tier watermark.
	ShowWatermark(ctx context.Context, ownerID string) (bool, error)
}

type Status struct {
	Provider      string `json:"provider,omitempty"`
	AccountID     string `json:"account_id,omitempty"`
	PayPalEmail   string `json:"paypal_email,omitempty"`
	Connected     bool   `json:"connected"`
	Plan          string `json:"plan"`
	ShowWatermark bool   `json:"show_watermark"`
}

type ConnectedProvider struct {
	Provider  string `json:"provider"`
	AccountID string `json:"account_id"`
}

var (
	ErrInvalidOwner     = errors.New("invalid_owner")
	ErrInvalidAccountID = errors.New("invalid_account_id")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidPlan      = errors.New("invalid_plan")
)
