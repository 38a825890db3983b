package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/invoice/format"
	"github.com/smallbiznis/invoicegen/internal/observability/metrics"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Providers paymentproviderdomain.Service
	Config    *config.InvoicingConfigHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	providers paymentproviderdomain.Service
	cfg       *config.InvoicingConfigHolder
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		providers: p.Providers,
		cfg:       p.Config,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.SaveInvoiceRequest) (domain.Invoice, error) {
	ownerID, err := s.ownerID(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.buildInvoice(req)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := validate(invoice); err != nil {
		return domain.Invoice{}, err
	}

	invoice.OwnerID = ownerID
	if invoice.InvoiceNumber == "" {
		number, err := s.nextInvoiceNumber(ctx, ownerID, invoice.Date)
		if err != nil {
			return domain.Invoice{}, err
		}
		invoice.InvoiceNumber = number
	}
	if err := s.applyProvider(ctx, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	invoice.ID = s.genID.Generate()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	if invoice.Paid {
		invoice.PaidAt = &now
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	s.metrics.RecordInvoiceSaved(ctx, "create")
	s.log.Info("invoice created",
		zap.String("owner_id", ownerID),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return invoice, nil
}

// Update replaces the whole document. Concurrent updates are last-writer-wins.
func (s *Service) Update(ctx context.Context, id string, req domain.SaveInvoiceRequest) (domain.Invoice, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.buildInvoice(req)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := validate(invoice); err != nil {
		return domain.Invoice{}, err
	}

	invoice.ID = existing.ID
	invoice.OwnerID = existing.OwnerID
	invoice.CreatedAt = existing.CreatedAt
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = existing.InvoiceNumber
	}
	if req.Paid == nil {
		invoice.Paid = existing.Paid
	}
	invoice.PaidAt = existing.PaidAt
	if err := s.applyProvider(ctx, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	invoice.UpdatedAt = now
	switch {
	case invoice.Paid && invoice.PaidAt == nil:
		invoice.PaidAt = &now
	case !invoice.Paid:
		invoice.PaidAt = nil
	}

	if err := s.repo.Save(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	s.metrics.RecordInvoiceSaved(ctx, "update")
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) GetPublic(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice, err := s.repo.FindPublicByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	ownerID, err := s.ownerID(ctx)
	if err != nil {
		return nil, err
	}
	filter, err = filter.Normalize()
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	return domain.Apply(invoices, filter), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ownerID, err := s.ownerID(ctx)
	if err != nil {
		return err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkPaid(ctx context.Context, id string) (domain.Invoice, error) {
	return s.setPaid(ctx, id, true)
}

func (s *Service) MarkUnpaid(ctx context.Context, id string) (domain.Invoice, error) {
	return s.setPaid(ctx, id, false)
}

func (s *Service) setPaid(ctx context.Context, id string, paid bool) (domain.Invoice, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Paid == paid {
		return *invoice, nil
	}

	now := s.clock.Now()
	invoice.Paid = paid
	invoice.PaidAt = nil
	if paid {
		invoice.PaidAt = &now
	}
	invoice.UpdatedAt = now

	if err := s.repo.Save(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	s.metrics.RecordInvoicePaid(ctx, paid)
	return *invoice, nil
}

func (s *Service) TogglePaymentMethod(ctx context.Context, id string, method string) (domain.Invoice, error) {
	pm, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := invoice.PaymentTerms.Toggle(pm); err != nil {
		return domain.Invoice{}, err
	}
	return s.saveTerms(ctx, invoice)
}

// ToggleCardBrand leaves the invoice unchanged while card acceptance is off.
func (s *Service) ToggleCardBrand(ctx context.Context, id string, brand string) (domain.Invoice, error) {
	brand, ok := s.catalogBrand(brand)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidCardBrand
	}
	invoice, err := s.load(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !invoice.PaymentTerms.ToggleCardBrand(brand) {
		return *invoice, nil
	}
	return s.saveTerms(ctx, invoice)
}

// Preview derives totals for an unsaved draft. Required fields are not
// enforced and nothing is stored.
func (s *Service) Preview(ctx context.Context, req domain.SaveInvoiceRequest) (domain.Invoice, error) {
	ownerID, err := s.ownerID(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice, err := s.buildInvoice(req)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.OwnerID = ownerID
	show, err := s.providers.ShowWatermark(ctx, ownerID)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.ShowWatermark = show
	return invoice, nil
}

func (s *Service) saveTerms(ctx context.Context, invoice *domain.Invoice) (domain.Invoice, error) {
	invoice.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	return *invoice, nil
}

// buildInvoice turns a request into a recomputed, normalized document with
// date defaults applied.
func (s *Service) buildInvoice(req domain.SaveInvoiceRequest) (domain.Invoice, error) {
	cfg := s.cfg.Get()

	date := clock.Today(s.clock)
	if req.Date != nil {
		date = domain.DateOnly(*req.Date)
	}
	dueDate := date.AddDate(0, 0, cfg.DefaultDueDays)
	if req.DueDate != nil {
		dueDate = domain.DateOnly(*req.DueDate)
	}
	if dueDate.Before(date) {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}

	terms := req.PaymentTerms
	terms.Normalize()
	for i, brand := range terms.CreditCard.Brands {
		canonical, ok := s.catalogBrand(brand)
		if !ok {
			return domain.Invoice{}, domain.ErrInvalidCardBrand
		}
		terms.CreditCard.Brands[i] = canonical
	}
	sort.Strings(terms.CreditCard.Brands)

	invoice := domain.Invoice{
		BusinessName:    strings.TrimSpace(req.BusinessName),
		BusinessAddress: strings.TrimSpace(req.BusinessAddress),
		BusinessPhone:   strings.TrimSpace(req.BusinessPhone),
		InvoiceNumber:   strings.TrimSpace(req.InvoiceNumber),
		Date:            date,
		DueDate:         dueDate,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.TrimSpace(req.ClientEmail),
		Items:           req.Items,
		Notes:           strings.TrimSpace(req.Notes),
		TaxRate:         req.TaxRate,
		PaymentTerms:    terms,
	}
	if req.Paid != nil {
		invoice.Paid = *req.Paid
	}
	invoice.Recompute()
	if err := invoice.CheckBounds(); err != nil {
		return domain.Invoice{}, err
	}
	return invoice, nil
}

func validate(invoice domain.Invoice) error {
	if invoice.ClientName == "" {
		return domain.ErrInvalidClientName
	}
	if invoice.ClientEmail == "" || !strings.Contains(invoice.ClientEmail, "@") {
		return domain.ErrInvalidClientEmail
	}
	if len(invoice.Items) == 0 {
		return domain.ErrEmptyItems
	}
	return nil
}

func (s *Service) applyProvider(ctx context.Context, invoice *domain.Invoice) error {
	show, err := s.providers.ShowWatermark(ctx, invoice.OwnerID)
	if err != nil {
		return err
	}
	invoice.ShowWatermark = show

	connected, err := s.providers.Connected(ctx, invoice.OwnerID)
	if err != nil {
		return err
	}
	invoice.PaymentProvider = ""
	invoice.PaymentAccountID = ""
	if connected != nil {
		invoice.PaymentProvider = connected.Provider
		invoice.PaymentAccountID = connected.AccountID
	}
	return nil
}

func (s *Service) nextInvoiceNumber(ctx context.Context, ownerID string, issuedAt time.Time) (string, error) {
	count, err := s.repo.CountByOwner(ctx, s.db, ownerID)
	if err != nil {
		return "", err
	}
	template := s.cfg.Get().InvoiceNumberTemplate
	if template == "" {
		template = format.DefaultInvoiceNumberTemplate
	}
	return format.FormatInvoiceNumber(template, issuedAt, count+1)
}

// catalogBrand matches brand case-insensitively against the configured
// catalogue and returns its canonical spelling.
func (s *Service) catalogBrand(brand string) (string, bool) {
	brand = strings.TrimSpace(brand)
	for _, known := range s.cfg.Get().CardBrands {
		if strings.EqualFold(known, brand) {
			return known, true
		}
	}
	return "", false
}

func (s *Service) load(ctx context.Context, id string) (*domain.Invoice, error) {
	ownerID, err := s.ownerID(ctx)
	if err != nil {
		return nil, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) ownerID(ctx context.Context) (string, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return "", domain.ErrInvalidOwner
	}
	return ownerID, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
