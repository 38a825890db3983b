package service

import (
	"context"
	"errors"
	"strings"

	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	"github.com/smallbiznis/invoicegen/internal/config"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Invoicing *config.InvoicingConfigHolder
	Invoices  invoicedomain.Service
	Providers paymentproviderdomain.Service
	Checkout  checkoutdomain.SessionCreator
}

type Service struct {
	log       *zap.Logger
	currency  string
	invoicing *config.InvoicingConfigHolder
	invoices  invoicedomain.Service
	providers paymentproviderdomain.Service
	checkout  checkoutdomain.SessionCreator
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("publicinvoice.service"),
		currency:  strings.ToLower(strings.TrimSpace(p.Cfg.CheckoutCurrency)),
		invoicing: p.Invoicing,
		invoices:  p.Invoices,
		providers: p.Providers,
		checkout:  p.Checkout,
	}
}

func (s *Service) GetPublicView(ctx context.Context, invoiceID string) (domain.View, error) {
	inv, err := s.load(ctx, invoiceID)
	if err != nil {
		return domain.View{}, err
	}

	provider, err := s.providers.Connected(ctx, inv.OwnerID)
	if err != nil {
		return domain.View{}, err
	}

	view := domain.View{
		Invoice:         domain.FromInvoice(inv),
		PaymentSections: domain.Sections(inv.PaymentTerms),
		ShowWatermark:   inv.ShowWatermark,
		Provider:        provider,
		PayNowAvailable: provider != nil && !inv.Paid,
		Currency:        s.currency,
	}
	if view.ShowWatermark {
		view.WatermarkText = s.invoicing.Get().WatermarkText
	}
	return view, nil
}

func (s *Service) StartPayment(ctx context.Context, invoiceID string, origin string) (checkoutdomain.Session, error) {
	inv, err := s.load(ctx, invoiceID)
	if err != nil {
		return checkoutdomain.Session{}, err
	}
	if inv.Paid {
		return checkoutdomain.Session{}, domain.ErrPaymentUnavailable
	}
	provider, err := s.providers.Connected(ctx, inv.OwnerID)
	if err != nil {
		return checkoutdomain.Session{}, err
	}
	if provider == nil || provider.Provider != paymentproviderdomain.ProviderStripe {
		return checkoutdomain.Session{}, domain.ErrPaymentUnavailable
	}

	session, err := s.checkout.CreateSession(ctx, checkoutdomain.CreateSessionRequest{
		Invoice: &checkoutdomain.InvoiceRef{ID: inv.ID.String(), Items: inv.Items},
		Origin:  origin,
	})
	if err != nil {
		s.log.Warn("public checkout failed", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		return checkoutdomain.Session{}, err
	}
	return session, nil
}

func (s *Service) load(ctx context.Context, invoiceID string) (invoicedomain.Invoice, error) {
	inv, err := s.invoices.GetPublic(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) || errors.Is(err, invoicedomain.ErrInvalidID) {
			return invoicedomain.Invoice{}, domain.ErrInvoiceUnavailable
		}
		return invoicedomain.Invoice{}, err
	}
	return inv, nil
}
