package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicegen/internal/client/domain"
	"github.com/smallbiznis/invoicegen/internal/clock"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	"github.com/smallbiznis/invoicegen/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Invoices invoicedomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	invoices invoicedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("client.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		invoices: p.Invoices,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Summary, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOwner
	}

	invoices, err := s.invoices.List(ctx, invoicedomain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	directory, err := s.repo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return domain.Aggregate(invoices, directory, clock.Today(s.clock)), nil
}

func (s *Service) Get(ctx context.Context, email string) (domain.Summary, error) {
	key := domain.EmailKey(email)
	if key == "" {
		return domain.Summary{}, domain.ErrInvalidEmail
	}
	summaries, err := s.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	for _, summary := range summaries {
		if summary.ID == key {
			return summary, nil
		}
	}
	return domain.Summary{}, domain.ErrNotFound
}

func (s *Service) Create(ctx context.Context, req domain.SaveClientRequest) (domain.Client, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Client{}, domain.ErrInvalidOwner
	}
	client, err := buildClient(req)
	if err != nil {
		return domain.Client{}, err
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, ownerID, client.EmailKey)
	if err != nil {
		return domain.Client{}, err
	}
	if existing != nil {
		return domain.Client{}, domain.ErrDuplicateEmail
	}

	now := s.clock.Now()
	client.ID = s.genID.Generate()
	client.OwnerID = ownerID
	client.CreatedAt = now
	client.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Client{}, domain.ErrDuplicateEmail
		}
		return domain.Client{}, err
	}
	s.log.Info("client created", zap.String("owner_id", ownerID), zap.String("client_id", client.ID.String()))
	return client, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.SaveClientRequest) (domain.Client, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	client, err := buildClient(req)
	if err != nil {
		return domain.Client{}, err
	}

	if client.EmailKey != existing.EmailKey {
		clash, err := s.repo.FindByEmail(ctx, s.db, existing.OwnerID, client.EmailKey)
		if err != nil {
			return domain.Client{}, err
		}
		if clash != nil {
			return domain.Client{}, domain.ErrDuplicateEmail
		}
	}

	client.ID = existing.ID
	client.OwnerID = existing.OwnerID
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, &client); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Client{}, domain.ErrDuplicateEmail
		}
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOwner
	}
	clientID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, ownerID, clientID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Client, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOwner
	}
	clientID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.FindByID(ctx, s.db, ownerID, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func buildClient(req domain.SaveClientRequest) (domain.Client, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	company := strings.TrimSpace(req.Company)
	if name == "" && company == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	method := strings.TrimSpace(req.PreferredPaymentMethod)
	if method != "" {
		parsed, err := invoicedomain.ParsePaymentMethod(method)
		if err != nil || parsed == invoicedomain.PaymentMethodLateFee {
			return domain.Client{}, domain.ErrInvalidPaymentMethod
		}
		method = string(parsed)
	}

	var lateFee *decimal.Decimal
	if req.LateFeePercentage != nil {
		if req.LateFeePercentage.IsNegative() {
			return domain.Client{}, domain.ErrInvalidLateFee
		}
		value := *req.LateFeePercentage
		lateFee = &value
	}

	return domain.Client{
		EmailKey:               domain.EmailKey(email),
		Company:                company,
		Name:                   name,
		Email:                  email,
		Phone:                  strings.TrimSpace(req.Phone),
		Notes:                  strings.TrimSpace(req.Notes),
		PreferredPaymentMethod: method,
		LateFeePercentage:      lateFee,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
