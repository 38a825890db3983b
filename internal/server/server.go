package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	analyticsdomain "github.com/smallbiznis/invoicegen/internal/analytics/domain"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	clientdomain "github.com/smallbiznis/invoicegen/internal/client/domain"
	"github.com/smallbiznis/invoicegen/internal/config"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/observability"
	obsmiddleware "github.com/smallbiznis/invoicegen/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/invoicegen/internal/observability/metrics"
	obstracing "github.com/smallbiznis/invoicegen/internal/observability/tracing"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
	"github.com/smallbiznis/invoicegen/internal/providers/pdf"
	publicinvoicedomain "github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/render"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module serves the owner API and the public invoice routes.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
		s.RegisterPublicRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine             *gin.Engine
	cfg                config.Config
	log                *zap.Logger
	invoicing          *config.InvoicingConfigHolder
	invoiceSvc         invoicedomain.Service
	clientSvc          clientdomain.Service
	paymentProviderSvc paymentproviderdomain.Service
	analyticsSvc       analyticsdomain.Service
	checkout           checkoutdomain.SessionCreator
	publicInvoiceSvc   publicinvoicedomain.Service
	renderer           render.Renderer
	pdf                pdf.Provider
	limiter            ratelimit.Limiter
	obsMetrics         *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin                *gin.Engine
	Cfg                config.Config
	Log                *zap.Logger
	Invoicing          *config.InvoicingConfigHolder
	InvoiceSvc         invoicedomain.Service
	PaymentProviderSvc paymentproviderdomain.Service
	Checkout           checkoutdomain.SessionCreator
	PublicInvoiceSvc   publicinvoicedomain.Service
	Renderer           render.Renderer
	Limiter            ratelimit.Limiter

	ClientSvc    clientdomain.Service    `optional:"true"`
	AnalyticsSvc analyticsdomain.Service `optional:"true"`
	PDF          pdf.Provider            `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:             p.Gin,
		cfg:                p.Cfg,
		log:                p.Log.Named("http.server"),
		invoicing:          p.Invoicing,
		invoiceSvc:         p.InvoiceSvc,
		clientSvc:          p.ClientSvc,
		paymentProviderSvc: p.PaymentProviderSvc,
		analyticsSvc:       p.AnalyticsSvc,
		checkout:           p.Checkout,
		publicInvoiceSvc:   p.PublicInvoiceSvc,
		renderer:           p.Renderer,
		pdf:                p.PDF,
		limiter:            p.Limiter,
		obsMetrics:         p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterAPIRoutes mounts the owner-scoped dashboard API.
func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	// Keeps its own wire contract and answers every method.
	api.Any("/create-checkout-session", s.CreateCheckoutSession)

	owned := api.Group("", s.OwnerRequired())

	// -------- Invoices --------
	owned.GET("/invoices", s.ListInvoices)
	owned.POST("/invoices", s.CreateInvoice)
	owned.POST("/invoices/preview", s.PreviewInvoice)
	owned.GET("/invoices/:id", s.GetInvoice)
	owned.PUT("/invoices/:id", s.UpdateInvoice)
	owned.DELETE("/invoices/:id", s.DeleteInvoice)
	owned.POST("/invoices/:id/paid", s.MarkInvoicePaid)
	owned.POST("/invoices/:id/unpaid", s.MarkInvoiceUnpaid)
	owned.POST("/invoices/:id/terms/:method/toggle", s.TogglePaymentMethod)
	owned.POST("/invoices/:id/terms/credit_card/brands/:brand/toggle", s.ToggleCardBrand)
	owned.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)
	owned.GET("/card-brands", s.ListCardBrands)

	// -------- Clients --------
	owned.GET("/clients", s.ListClients)
	owned.GET("/clients/lookup", s.GetClientByEmail)
	owned.POST("/clients", s.CreateClient)
	owned.PUT("/clients/:id", s.UpdateClient)
	owned.DELETE("/clients/:id", s.DeleteClient)

	// -------- Payment provider --------
	owned.GET("/payment-provider", s.GetPaymentProviderStatus)
	owned.POST("/payment-provider/stripe", s.ConnectStripe)
	owned.POST("/payment-provider/paypal", s.ConnectPayPal)
	owned.DELETE("/payment-provider", s.DisconnectPaymentProvider)
	owned.PUT("/payment-provider/plan", s.SetPlan)

	// -------- Dashboard --------
	owned.GET("/analytics/overview", s.GetAnalyticsOverview)
	owned.GET("/reminders", s.ListReminders)
	owned.GET("/export/invoices.csv", s.ExportInvoicesCSV)
	owned.GET("/export/clients.csv", s.ExportClientsCSV)
}

// RegisterPublicRoutes mounts the read-only invoice pages shared with payers.
func (s *Server) RegisterPublicRoutes() {
	s.engine.GET("/invoice/:id", s.PublicRateLimit("invoice_view"), s.RenderPublicInvoice)
	s.engine.POST("/invoice/:id/pay", s.PublicRateLimit("invoice_pay"), s.StartPublicPayment)
	s.engine.GET("/public/invoices/:id", s.PublicRateLimit("invoice_json"), s.GetPublicInvoice)
}
