package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	checkoutmock "github.com/smallbiznis/invoicegen/internal/checkout/domain/mock"
	"github.com/smallbiznis/invoicegen/internal/config"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeInvoices struct {
	invoicedomain.Service
	invoices map[string]invoicedomain.Invoice
}

func (f *fakeInvoices) GetPublic(_ context.Context, id string) (invoicedomain.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return inv, nil
}

type fakeProviders struct {
	paymentproviderdomain.Service
	connected map[string]*paymentproviderdomain.ConnectedProvider
}

func (f *fakeProviders) Connected(_ context.Context, ownerID string) (*paymentproviderdomain.ConnectedProvider, error) {
	return f.connected[ownerID], nil
}

type fakeCheckout struct {
	requests []checkoutdomain.CreateSessionRequest
}

func (f *fakeCheckout) CreateSession(_ context.Context, req checkoutdomain.CreateSessionRequest) (checkoutdomain.Session, error) {
	f.requests = append(f.requests, req)
	return checkoutdomain.Session{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
}

func newTestService(t *testing.T) (domain.Service, *fakeCheckout) {
	t.Helper()
	items := []invoicedomain.Item{{Description: "Work", Quantity: 1, Price: decimal.NewFromInt(100)}}
	invoices := &fakeInvoices{invoices: map[string]invoicedomain.Invoice{
		"1": {ID: 1, OwnerID: "free-owner", Items: items, ShowWatermark: true},
		"2": {ID: 2, OwnerID: "stripe-owner", Items: items},
		"3": {ID: 3, OwnerID: "stripe-owner", Items: items, Paid: true},
	}}
	providers := &fakeProviders{connected: map[string]*paymentproviderdomain.ConnectedProvider{
		"stripe-owner": {Provider: paymentproviderdomain.ProviderStripe, AccountID: "acct_1"},
	}}
	checkout := &fakeCheckout{}
	cfg := config.DefaultInvoicingConfig()
	cfg.WatermarkText = "Free plan"

	return New(Params{
		Log:       zaptest.NewLogger(t),
		Cfg:       config.Config{CheckoutCurrency: "USD"},
		Invoicing: config.NewStaticInvoicingConfigHolder(cfg),
		Invoices:  invoices,
		Providers: providers,
		Checkout:  checkout,
	}), checkout
}

func TestGetPublicView(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	free, err := svc.GetPublicView(ctx, "1")
	require.NoError(t, err)
	assert.True(t, free.ShowWatermark)
	assert.Equal(t, "Free plan", free.WatermarkText)
	assert.False(t, free.PayNowAvailable)
	assert.Equal(t, "usd", free.Currency)

	connected, err := svc.GetPublicView(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, connected.WatermarkText)
	assert.True(t, connected.PayNowAvailable)

	paid, err := svc.GetPublicView(ctx, "3")
	require.NoError(t, err)
	assert.False(t, paid.PayNowAvailable)

	_, err = svc.GetPublicView(ctx, "404")
	assert.ErrorIs(t, err, domain.ErrInvoiceUnavailable)
}

func TestStartPayment(t *testing.T) {
	svc, checkout := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartPayment(ctx, "2", "https://app.test")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	require.Len(t, checkout.requests, 1)
	assert.Equal(t, "2", checkout.requests[0].Invoice.ID)
	assert.Equal(t, "https://app.test", checkout.requests[0].Origin)

	_, err = svc.StartPayment(ctx, "1", "")
	assert.ErrorIs(t, err, domain.ErrPaymentUnavailable)
	_, err = svc.StartPayment(ctx, "3", "")
	assert.ErrorIs(t, err, domain.ErrPaymentUnavailable)
	assert.Len(t, checkout.requests, 1)
}

func TestStartPaymentProviderErrorIsReturnedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	creator := checkoutmock.NewMockSessionCreator(ctrl)
	creator.EXPECT().
		CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req checkoutdomain.CreateSessionRequest) (checkoutdomain.Session, error) {
			assert.Equal(t, "2", req.Invoice.ID)
			return checkoutdomain.Session{}, errors.New("Your card was declined.")
		}).
		Times(1)

	items := []invoicedomain.Item{{Description: "Work", Quantity: 1, Price: decimal.NewFromInt(100)}}
	svc := New(Params{
		Log:       zaptest.NewLogger(t),
		Cfg:       config.Config{CheckoutCurrency: "usd"},
		Invoicing: config.NewStaticInvoicingConfigHolder(config.DefaultInvoicingConfig()),
		Invoices: &fakeInvoices{invoices: map[string]invoicedomain.Invoice{
			"2": {ID: 2, OwnerID: "stripe-owner", Items: items},
		}},
		Providers: &fakeProviders{connected: map[string]*paymentproviderdomain.ConnectedProvider{
			"stripe-owner": {Provider: paymentproviderdomain.ProviderStripe, AccountID: "acct_1"},
		}},
		Checkout: creator,
	})

	_, err := svc.StartPayment(context.Background(), "2", "")
	assert.EqualError(t, err, "Your card was declined.")
}
