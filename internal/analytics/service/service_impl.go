package service

import (
	"context"

	"github.com/smallbiznis/invoicegen/internal/analytics/domain"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Invoicing *config.InvoicingConfigHolder
	Invoices  invoicedomain.Service
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	invoicing *config.InvoicingConfigHolder
	invoices  invoicedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("analytics.service"),
		clock:     p.Clock,
		invoicing: p.Invoicing,
		invoices:  p.Invoices,
	}
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	invoices, err := s.load(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	return domain.Build(invoices, clock.Today(s.clock), s.invoicing.Get().ActiveClientWindowDays), nil
}

func (s *Service) Reminders(ctx context.Context) ([]domain.Reminder, error) {
	invoices, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildReminders(invoices, clock.Today(s.clock), s.invoicing.Get().ReminderWindowDays), nil
}

func (s *Service) load(ctx context.Context) ([]invoicedomain.Invoice, error) {
	if _, ok := ownercontext.OwnerIDFromContext(ctx); !ok {
		return nil, domain.ErrInvalidOwner
	}
	return s.invoices.List(ctx, invoicedomain.ListFilter{})
}
