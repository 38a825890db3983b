package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/invoicegen/internal/cache"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	"github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectionCacheTTL = 30 * time.Second

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	conns cache.Cache[string, domain.Connection]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("paymentprovider.service"),
		clock: p.Clock,
		repo:  p.Repo,
		conns: cache.NewTTLCache[string, domain.Connection](),
	}
}

func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Status{}, domain.ErrInvalidOwner
	}
	conn, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.Status{}, err
	}
	return toStatus(conn), nil
}

// ConnectStripe links a Stripe account and drops any PayPal link.
func (s *Service) ConnectStripe(ctx context.Context, accountID string) (domain.Status, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Status{}, domain.ErrInvalidAccountID
	}
	return s.mutate(ctx, func(conn *domain.Connection) {
		conn.Provider = domain.ProviderStripe
		conn.AccountID = accountID
		conn.PayPalEmail = ""
	})
}

// ConnectPayPal links a PayPal account and drops any Stripe link.
func (s *Service) ConnectPayPal(ctx context.Context, email string) (domain.Status, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Status{}, domain.ErrInvalidEmail
	}
	return s.mutate(ctx, func(conn *domain.Connection) {
		conn.Provider = domain.ProviderPayPal
		conn.AccountID = ""
		conn.PayPalEmail = email
	})
}

func (s *Service) Disconnect(ctx context.Context) (domain.Status, error) {
	return s.mutate(ctx, func(conn *domain.Connection) {
		conn.Provider = ""
		conn.AccountID = ""
		conn.PayPalEmail = ""
	})
}

func (s *Service) SetPlan(ctx context.Context, plan string) (domain.Status, error) {
	plan = strings.ToLower(strings.TrimSpace(plan))
	if plan != domain.PlanFree && plan != domain.PlanPro {
		return domain.Status{}, domain.ErrInvalidPlan
	}
	return s.mutate(ctx, func(conn *domain.Connection) {
		conn.Plan = plan
	})
}

func (s *Service) Connected(ctx context.Context, ownerID string) (*domain.ConnectedProvider, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, domain.ErrInvalidOwner
	}
	conn, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !conn.Connected() {
		return nil, nil
	}
	accountID := conn.AccountID
	if conn.Provider == domain.ProviderPayPal {
		accountID = conn.PayPalEmail
	}
	return &domain.ConnectedProvider{Provider: conn.Provider, AccountID: accountID}, nil
}

func (s *Service) ShowWatermark(ctx context.Context, ownerID string) (bool, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return false, domain.ErrInvalidOwner
	}
	conn, err := s.load(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return conn.Plan != domain.PlanPro, nil
}

func (s *Service) mutate(ctx context.Context, apply func(*domain.Connection)) (domain.Status, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Status{}, domain.ErrInvalidOwner
	}
	conn, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.Status{}, err
	}

	now := s.clock.Now()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	apply(&conn)
	conn.UpdatedAt = now

	s.conns.Delete(ownerID)
	if err := s.repo.Upsert(ctx, s.db, &conn); err != nil {
		s.conns.Delete(ownerID)
		return domain.Status{}, err
	}
	// A concurrent load may have cached the old row while the upsert ran.
	s.conns.Set(ownerID, conn, connectionCacheTTL)
	s.log.Info("payment provider updated",
		zap.String("owner_id", ownerID),
		zap.String("provider", conn.Provider),
		zap.String("plan", conn.Plan),
	)
	return toStatus(conn), nil
}

// load returns the stored connection, or a free-tier default when none exists.
func (s *Service) load(ctx context.Context, ownerID string) (domain.Connection, error) {
	if conn, ok := s.conns.Get(ownerID); ok {
		return conn, nil
	}
	stored, err := s.repo.Find(ctx, s.db, ownerID)
	if err != nil {
		return domain.Connection{}, err
	}
	conn := domain.Connection{OwnerID: ownerID, Plan: domain.PlanFree}
	if stored != nil {
		conn = *stored
		if conn.Plan == "" {
			conn.Plan = domain.PlanFree
		}
	}
	s.conns.Set(ownerID, conn, connectionCacheTTL)
	return conn, nil
}

func toStatus(conn domain.Connection) domain.Status {
	return domain.Status{
		Provider:      conn.Provider,
		AccountID:     conn.AccountID,
		PayPalEmail:   conn.PayPalEmail,
		Connected:     conn.Connected(),
		Plan:          conn.Plan,
		ShowWatermark: conn.Plan != domain.PlanPro,
	}
}
