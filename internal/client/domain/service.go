package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type SaveClientRequest struct {
	Company                string
	Name                   string
	Email                  string
	Phone                  string
	Notes                  string
	PreferredPaymentMethod string
	LateFeePercentage      *decimal.Decimal
}

type Service interface {
	// List returns the merged projection of invoices and directory entries.
	List(ctx context.Context) ([]Summary, error)
	// Get returns the projection for one client email.
	Get(ctx context.Context, email string) (Summary, error)

	Create(ctx context.Context, req SaveClientRequest) (Client, error)
	Update(ctx context.Context, id string, req SaveClientRequest) (Client, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidEmail         = errors.New("invalid_email")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidLateFee       = errors.New("invalid_late_fee")
	ErrDuplicateEmail       = errors.New("duplicate_email")
	ErrNotFound             = errors.New("not_found")
)
