package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicegen/internal/client/domain"
	"github.com/smallbiznis/invoicegen/internal/client/repository"
	"github.com/smallbiznis/invoicegen/internal/clock"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeInvoices struct {
	invoicedomain.Service
	byOwner map[string][]invoicedomain.Invoice
}

func (f *fakeInvoices) List(ctx context.Context, _ invoicedomain.ListFilter) ([]invoicedomain.Invoice, error) {
	ownerID, _ := ownercontext.OwnerIDFromContext(ctx)
	return f.byOwner[ownerID], nil
}

func newTestService(t *testing.T, invoices *fakeInvoices) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	return New(Params{
		DB:       db,
		Log:      zaptest.NewLogger(t),
		GenID:    node,
		Clock:    clock.NewFakeDate(2024, 6, 15),
		Repo:     repository.Provide(),
		Invoices: invoices,
	})
}

func TestDirectoryCRUD(t *testing.T) {
	svc := newTestService(t, &fakeInvoices{})
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	fee := decimal.RequireFromString("1.5")
	created, err := svc.Create(ctx, domain.SaveClientRequest{
		Company:                "Acme",
		Email:                  " Billing@Acme.test ",
		PreferredPaymentMethod: "Bank_Transfer",
		LateFeePercentage:      &fee,
	})
	require.NoError(t, err)
	assert.Equal(t, "Billing@Acme.test", created.Email)
	assert.Equal(t, "bank_transfer", created.PreferredPaymentMethod)

	t.Run("duplicate email is a conflict regardless of case", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.SaveClientRequest{Name: "Other", Email: "billing@acme.test"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("same email under another owner is fine", func(t *testing.T) {
		other := ownercontext.WithOwnerID(context.Background(), "owner-2")
		_, err := svc.Create(other, domain.SaveClientRequest{Name: "Other", Email: "billing@acme.test"})
		assert.NoError(t, err)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID.String(), domain.SaveClientRequest{
			Company: "Acme Ltd",
			Email:   "billing@acme.test",
			Phone:   "555-0100",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", updated.Company)
		assert.Nil(t, updated.LateFeePercentage)

		summary, err := svc.Get(ctx, "BILLING@acme.test")
		require.NoError(t, err)
		assert.Equal(t, "555-0100", summary.Phone)
		assert.Equal(t, domain.SourceDirectory, summary.Source)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, created.ID.String()))
		assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrNotFound)
		_, err := svc.Get(ctx, "billing@acme.test")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestValidation(t *testing.T) {
	svc := newTestService(t, &fakeInvoices{})
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		req  domain.SaveClientRequest
		want error
	}{
		{"missing email", domain.SaveClientRequest{Name: "A"}, domain.ErrInvalidEmail},
		{"email without at", domain.SaveClientRequest{Name: "A", Email: "a.test"}, domain.ErrInvalidEmail},
		{"no name or company", domain.SaveClientRequest{Email: "a@a.test"}, domain.ErrInvalidName},
		{"unknown method", domain.SaveClientRequest{Name: "A", Email: "a@a.test", PreferredPaymentMethod: "cash"}, domain.ErrInvalidPaymentMethod},
		{"late fee is not a method", domain.SaveClientRequest{Name: "A", Email: "a@a.test", PreferredPaymentMethod: "late_fee"}, domain.ErrInvalidPaymentMethod},
		{"negative late fee", domain.SaveClientRequest{Name: "A", Email: "a@a.test", LateFeePercentage: &negative}, domain.ErrInvalidLateFee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestListMergesInvoices(t *testing.T) {
	invoices := &fakeInvoices{byOwner: map[string][]invoicedomain.Invoice{
		"owner-1": {
			{ID: 1, ClientName: "Acme", ClientEmail: "billing@acme.test", Total: decimal.NewFromInt(40)},
		},
	}}
	svc := newTestService(t, invoices)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	_, err := svc.Create(ctx, domain.SaveClientRequest{Company: "Acme", Email: "billing@acme.test", Phone: "1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.SaveClientRequest{Name: "Quiet", Email: "quiet@x.test"})
	require.NoError(t, err)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "billing@acme.test", got[0].ID)
	assert.Equal(t, domain.SourceBoth, got[0].Source)
	assert.Equal(t, "40", got[0].TotalSpent.String())
	assert.Equal(t, "1", got[0].Phone)
	assert.Equal(t, "quiet@x.test", got[1].ID)
}
