package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/invoice/repository"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeProviders struct {
	paymentproviderdomain.Service
	connected *paymentproviderdomain.ConnectedProvider
	pro       bool
}

func (f *fakeProviders) Connected(context.Context, string) (*paymentproviderdomain.ConnectedProvider, error) {
	return f.connected, nil
}

func (f *fakeProviders) ShowWatermark(context.Context, string) (bool, error) {
	return !f.pro, nil
}

type testEnv struct {
	svc       domain.Service
	db        *gorm.DB
	clock     *clock.FakeClock
	providers *fakeProviders
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeDate(2024, 3, 15)
	providers := &fakeProviders{}
	svc := New(Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Providers: providers,
		Config:    config.NewStaticInvoicingConfigHolder(config.DefaultInvoicingConfig()),
	})
	return testEnv{svc: svc, db: db, clock: clk, providers: providers}
}

func ownerCtx(ownerID string) context.Context {
	return ownercontext.WithOwnerID(context.Background(), ownerID)
}

func validRequest() domain.SaveInvoiceRequest {
	return domain.SaveInvoiceRequest{
		BusinessName: "Studio Nine",
		ClientName:   "Acme",
		ClientEmail:  "billing@acme.test",
		Items: []domain.Item{
			{Description: "A", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{Description: "B", Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
		TaxRate: decimal.NewFromInt(10),
	}
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	t.Run("derives totals and defaults", func(t *testing.T) {
		inv, err := env.svc.Create(ctx, validRequest())
		require.NoError(t, err)

		assert.NotZero(t, inv.ID)
		assert.Equal(t, "owner-1", inv.OwnerID)
		assert.Equal(t, "INV-20240315-0001", inv.InvoiceNumber)
		assert.Equal(t, "25.50", inv.Subtotal.StringFixed(2))
		assert.Equal(t, "2.55", inv.TaxAmount.StringFixed(2))
		assert.Equal(t, "28.05", inv.Total.StringFixed(2))
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), inv.Date)
		assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), inv.DueDate)
		assert.True(t, inv.ShowWatermark)

		stored, err := env.svc.Get(ctx, inv.ID.String())
		require.NoError(t, err)
		assert.True(t, stored.Total.Equal(inv.Total))
		assert.Len(t, stored.Items, 2)
	})

	t.Run("sequence advances per owner", func(t *testing.T) {
		inv, err := env.svc.Create(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, "INV-20240315-0002", inv.InvoiceNumber)

		other, err := env.svc.Create(ownerCtx("owner-2"), validRequest())
		require.NoError(t, err)
		assert.Equal(t, "INV-20240315-0001", other.InvoiceNumber)
	})

	t.Run("provider reference and plan are captured", func(t *testing.T) {
		env.providers.connected = &paymentproviderdomain.ConnectedProvider{Provider: "stripe", AccountID: "acct_1"}
		env.providers.pro = true
		defer func() { env.providers.connected, env.providers.pro = nil, false }()

		inv, err := env.svc.Create(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, "stripe", inv.PaymentProvider)
		assert.Equal(t, "acct_1", inv.PaymentAccountID)
		assert.False(t, inv.ShowWatermark)
	})
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	cases := []struct {
		name   string
		mutate func(*domain.SaveInvoiceRequest)
		want   error
	}{
		{"missing client name", func(r *domain.SaveInvoiceRequest) { r.ClientName = " " }, domain.ErrInvalidClientName},
		{"bad email", func(r *domain.SaveInvoiceRequest) { r.ClientEmail = "acme.test" }, domain.ErrInvalidClientEmail},
		{"no items", func(r *domain.SaveInvoiceRequest) { r.Items = nil }, domain.ErrEmptyItems},
		{"due before date", func(r *domain.SaveInvoiceRequest) {
			date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
			due := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
			r.Date, r.DueDate = &date, &due
		}, domain.ErrInvalidDueDate},
		{"unknown card brand", func(r *domain.SaveInvoiceRequest) {
			r.PaymentTerms.CreditCard = domain.CardAcceptance{Enabled: true, Brands: []string{"Bitcoin"}}
		}, domain.ErrInvalidCardBrand},
		{"tax rate beyond column range", func(r *domain.SaveInvoiceRequest) {
			r.TaxRate = decimal.NewFromInt(10_000)
		}, domain.ErrInvalidTaxRate},
		{"price beyond column range", func(r *domain.SaveInvoiceRequest) {
			r.Items[0].Price = decimal.RequireFromString("100000000000000000")
		}, domain.ErrAmountOutOfRange},
		{"total beyond column range", func(r *domain.SaveInvoiceRequest) {
			r.Items[0].Price = decimal.RequireFromString("999999999999")
			r.Items[0].Quantity = 2
		}, domain.ErrAmountOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := env.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count, "validation failures never reach storage")

	_, err := env.svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestCreateStoresTaxRateAtColumnScale(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	req := validRequest()
	req.Items = []domain.Item{{Description: "Retainer", Quantity: 1, Price: decimal.NewFromInt(10_000)}}
	req.TaxRate = decimal.RequireFromString("7.1234")

	inv, err := env.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "7.123", inv.TaxRate.String())
	assert.Equal(t, "712.30", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "10712.30", inv.Total.StringFixed(2))

	stored, err := env.svc.Get(ctx, inv.ID.String())
	require.NoError(t, err)
	want := domain.ComputeTotals(stored.Items, stored.TaxRate).Rounded()
	assert.True(t, want.TaxAmount.Equal(stored.TaxAmount), "tax %s from rate %s", stored.TaxAmount, stored.TaxRate)
}

func TestCreateSortsCanonicalCardBrands(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	req := validRequest()
	req.PaymentTerms.CreditCard = domain.CardAcceptance{Enabled: true, Brands: []string{"jcb", "Visa", "JCB"}}

	inv, err := env.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"JCB", "Visa"}, inv.PaymentTerms.CreditCard.Brands)

	stored, err := env.svc.Get(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"JCB", "Visa"}, stored.PaymentTerms.CreditCard.Brands)
}

func TestUpdateReplacesDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	inv, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Items = []domain.Item{{Description: "Only", Quantity: 4, Price: decimal.RequireFromString("2.50")}}
	req.TaxRate = decimal.Zero
	req.Notes = "net 30"
	env.clock.Advance(time.Hour)

	updated, err := env.svc.Update(ctx, inv.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "10.00", updated.Total.StringFixed(2))
	assert.True(t, updated.UpdatedAt.After(inv.UpdatedAt))

	stored, err := env.svc.Get(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, "net 30", stored.Notes)
	assert.Equal(t, "10.00", stored.Total.StringFixed(2))
}

func TestOwnerIsolation(t *testing.T) {
	env := newTestEnv(t)
	inv, err := env.svc.Create(ownerCtx("owner-1"), validRequest())
	require.NoError(t, err)

	_, err = env.svc.Get(ownerCtx("owner-2"), inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.svc.Delete(ownerCtx("owner-2"), inv.ID.String()), domain.ErrNotFound)

	list, err := env.svc.List(ownerCtx("owner-2"), domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	public, err := env.svc.GetPublic(context.Background(), inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, inv.ID, public.ID)

	_, err = env.svc.Get(ownerCtx("owner-1"), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestPaidLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")
	inv, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	paid, err := env.svc.MarkPaid(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaidAt)

	list, err := env.svc.List(ctx, domain.ListFilter{Status: domain.StatusPaid})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	unpaid, err := env.svc.MarkUnpaid(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.False(t, unpaid.Paid)
	assert.Nil(t, unpaid.PaidAt)

	list, err = env.svc.List(ctx, domain.ListFilter{Status: domain.StatusPaid})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaymentTermToggles(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")
	inv, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)
	id := inv.ID.String()

	t.Run("bank transfer round trip", func(t *testing.T) {
		on, err := env.svc.TogglePaymentMethod(ctx, id, "bank_transfer")
		require.NoError(t, err)
		require.NotNil(t, on.PaymentTerms.BankTransfer)
		assert.Equal(t, domain.BankTransferDetails{}, *on.PaymentTerms.BankTransfer)

		stored, err := env.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, stored.PaymentTerms.BankTransfer)

		off, err := env.svc.TogglePaymentMethod(ctx, id, "bank_transfer")
		require.NoError(t, err)
		assert.Nil(t, off.PaymentTerms.BankTransfer)
	})

	t.Run("card brands", func(t *testing.T) {
		unchanged, err := env.svc.ToggleCardBrand(ctx, id, "visa")
		require.NoError(t, err)
		assert.False(t, unchanged.PaymentTerms.CreditCard.Enabled)

		_, err = env.svc.TogglePaymentMethod(ctx, id, "credit_card")
		require.NoError(t, err)
		withVisa, err := env.svc.ToggleCardBrand(ctx, id, "visa")
		require.NoError(t, err)
		assert.Equal(t, []string{"Visa"}, withVisa.PaymentTerms.CreditCard.Brands)

		_, err = env.svc.ToggleCardBrand(ctx, id, "Monopoly Money")
		assert.ErrorIs(t, err, domain.ErrInvalidCardBrand)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := env.svc.TogglePaymentMethod(ctx, id, "barter")
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
	})
}

func TestPreviewDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")

	req := validRequest()
	req.ClientName = ""
	preview, err := env.svc.Preview(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "28.05", preview.Total.StringFixed(2))
	assert.Zero(t, preview.ID)

	list, err := env.svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := ownerCtx("owner-1")
	inv, err := env.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, inv.ID.String()))
	_, err = env.svc.Get(ctx, inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.svc.Delete(ctx, inv.ID.String()), domain.ErrNotFound)
}
