package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/invoicegen/internal/checkout/domain"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("stripe_not_configured")

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// StripeCreator opens Stripe Checkout sessions in payment mode.
type StripeCreator struct {
	api      *client.API
	currency string
	baseURL  string
	log      *zap.Logger
}

func New(p Params) domain.SessionCreator {
	return NewStripeCreator(p.Cfg.StripeSecretKey, p.Cfg.CheckoutCurrency, p.Cfg.PublicBaseURL, nil, p.Log)
}

// NewStripeCreator builds a creator. backends may be nil to use the
// default Stripe endpoints with network retries disabled.
func NewStripeCreator(secretKey, currency, baseURL string, backends *stripe.Backends, log *zap.Logger) *StripeCreator {
	if backends == nil {
		backends = NewBackends("")
	}
	var api *client.API
	if key := strings.TrimSpace(secretKey); key != "" {
		api = client.New(key, backends)
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeCreator{
		api:      api,
		currency: currency,
		baseURL:  baseURL,
		log:      log.Named("checkout.stripe"),
	}
}

// NewBackends returns Stripe backends that never retry. An empty url keeps
// the default API host.
func NewBackends(url string) *stripe.Backends {
	cfg := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}
	if url != "" {
		cfg.URL = stripe.String(url)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
}

func (s *StripeCreator) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (domain.Session, error) {
	if err := req.Validate(); err != nil {
		return domain.Session{}, err
	}
	if s.api == nil {
		return domain.Session{}, ErrNotConfigured
	}

	origin := strings.TrimSpace(req.Origin)
	if origin == "" {
		origin = s.baseURL
	}
	successURL, cancelURL := domain.ReturnURLs(origin, req.Invoice.ID)

	items := domain.LineItems(req.Invoice.Items)
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(s.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmountCents),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("invoice_id", req.Invoice.ID)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			s.log.Warn("checkout session rejected",
				zap.String("invoice_id", req.Invoice.ID),
				zap.String("code", string(stripeErr.Code)),
				zap.String("type", string(stripeErr.Type)),
			)
			if msg := strings.TrimSpace(stripeErr.Msg); msg != "" {
				return domain.Session{}, errors.New(msg)
			}
		}
		return domain.Session{}, err
	}
	return domain.Session{ID: session.ID, URL: session.URL}, nil
}
