package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	analyticsservice "github.com/smallbiznis/invoicegen/internal/analytics/service"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	clientrepository "github.com/smallbiznis/invoicegen/internal/client/repository"
	clientservice "github.com/smallbiznis/invoicegen/internal/client/service"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	invoicerepository "github.com/smallbiznis/invoicegen/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/invoicegen/internal/invoice/service"
	"github.com/smallbiznis/invoicegen/internal/migration"
	paymentproviderrepository "github.com/smallbiznis/invoicegen/internal/paymentprovider/repository"
	paymentproviderservice "github.com/smallbiznis/invoicegen/internal/paymentprovider/service"
	"github.com/smallbiznis/invoicegen/internal/providers/pdf"
	publicinvoiceservice "github.com/smallbiznis/invoicegen/internal/publicinvoice/service"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/render"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testOwner = "owner-1"

type stubCheckout struct {
	requests []checkoutdomain.CreateSessionRequest
	err      error
}

func (s *stubCheckout) CreateSession(_ context.Context, req checkoutdomain.CreateSessionRequest) (checkoutdomain.Session, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return checkoutdomain.Session{}, s.err
	}
	return checkoutdomain.Session{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

type testServer struct {
	srv      *Server
	router   *gin.Engine
	checkout *stubCheckout
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.Migrate(db, "sqlite", log))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeDate(2024, 3, 15)
	invoicing := config.NewStaticInvoicingConfigHolder(config.DefaultInvoicingConfig())
	cfg := config.Config{CheckoutCurrency: "usd", OwnerHeader: "X-Owner-ID"}

	providers := paymentproviderservice.New(paymentproviderservice.Params{
		DB:    db,
		Log:   log,
		Clock: clk,
		Repo:  paymentproviderrepository.Provide(),
	})
	invoices := invoiceservice.New(invoiceservice.Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      invoicerepository.Provide(),
		Providers: providers,
		Config:    invoicing,
	})
	clients := clientservice.New(clientservice.Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    clk,
		Repo:     clientrepository.Provide(),
		Invoices: invoices,
	})
	analytics := analyticsservice.New(analyticsservice.Params{
		Log:       log,
		Clock:     clk,
		Invoicing: invoicing,
		Invoices:  invoices,
	})
	checkout := &stubCheckout{}
	public := publicinvoiceservice.New(publicinvoiceservice.Params{
		Log:       log,
		Cfg:       cfg,
		Invoicing: invoicing,
		Invoices:  invoices,
		Providers: providers,
		Checkout:  checkout,
	})

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:                r,
		Cfg:                cfg,
		Log:                log,
		Invoicing:          invoicing,
		InvoiceSvc:         invoices,
		PaymentProviderSvc: providers,
		Checkout:           checkout,
		PublicInvoiceSvc:   public,
		Renderer:           render.NewRenderer(),
		Limiter:            ratelimit.NewLocalLimiter(100, 100, time.Minute),
		ClientSvc:          clients,
		AnalyticsSvc:       analytics,
		PDF:                pdf.New(),
	})
	srv.RegisterAPIRoutes()
	srv.RegisterPublicRoutes()

	return &testServer{srv: srv, router: r, checkout: checkout}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, owner string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

type invoiceBody struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Paid          bool            `json:"paid"`
	ShowWatermark bool            `json:"show_watermark"`
	PaymentTerms  struct {
		BankTransfer *struct{} `json:"bank_transfer"`
		CreditCard   struct {
			Enabled bool     `json:"enabled"`
			Brands  []string `json:"brands"`
		} `json:"credit_card"`
	} `json:"payment_terms"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func draftInvoice() map[string]any {
	return map[string]any{
		"business_name": "Studio Nine",
		"date":          "2024-03-01",
		"due_date":      "2024-03-31",
		"client_name":   "Acme Corp",
		"client_email":  "billing@acme.test",
		"tax_rate":      "10",
		"items": []map[string]any{
			{"description": "Design", "quantity": "2", "price": 10},
			{"description": "Hosting", "quantity": 1, "price": "5.50"},
		},
	}
}

func (ts *testServer) createInvoice(t *testing.T) invoiceBody {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/invoices", draftInvoice(), testOwner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[invoiceBody](t, w)
}

func TestOwnerRequired(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/invoices", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeError(t, w).Type)
}

func TestInvoiceLifecycle(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createInvoice(t)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.InvoiceNumber)
	assert.True(t, created.Subtotal.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, created.TaxAmount.Equal(decimal.RequireFromString("2.55")))
	assert.True(t, created.Total.Equal(decimal.RequireFromString("28.05")))
	assert.True(t, created.ShowWatermark)

	w := ts.do(t, http.MethodGet, "/api/invoices", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]invoiceBody](t, w), 1)

	w = ts.do(t, http.MethodGet, "/api/invoices", nil, "someone-else")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]invoiceBody](t, w))

	w = ts.do(t, http.MethodPost, "/api/invoices/"+created.ID+"/paid", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeData[invoiceBody](t, w).Paid)

	w = ts.do(t, http.MethodGet, "/api/invoices?status=pending", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]invoiceBody](t, w))

	w = ts.do(t, http.MethodGet, "/api/invoices?q=acme&status=paid", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]invoiceBody](t, w), 1)

	w = ts.do(t, http.MethodDelete, "/api/invoices/"+created.ID, nil, testOwner)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/invoices/"+created.ID, nil, testOwner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createInvoice(t)

	draft := draftInvoice()
	draft["items"] = []map[string]any{{"description": "Design", "quantity": 3, "price": "12.755"}}
	draft["tax_rate"] = 0
	w := ts.do(t, http.MethodPut, "/api/invoices/"+created.ID, draft, testOwner)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData[invoiceBody](t, w)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("38.27")), updated.Total.String())
}

func TestCreateInvoiceValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(map[string]any)
		code  string
		field string
	}{
		{
			name:  "missing client name",
			edit:  func(d map[string]any) { d["client_name"] = "  " },
			code:  "invalid_client_name",
			field: "client_name",
		},
		{
			name:  "email without at sign",
			edit:  func(d map[string]any) { d["client_email"] = "billing.acme.test" },
			code:  "invalid_client_email",
			field: "client_email",
		},
		{
			name:  "no items",
			edit:  func(d map[string]any) { d["items"] = []any{} },
			code:  "empty_items",
			field: "items",
		},
		{
			name:  "unparseable date",
			edit:  func(d map[string]any) { d["date"] = "yesterday" },
			code:  "invalid_date",
			field: "date",
		},
		{
			name:  "tax rate beyond column range",
			edit:  func(d map[string]any) { d["tax_rate"] = "10000" },
			code:  "invalid_tax_rate",
			field: "tax_rate",
		},
		{
			name: "price beyond column range",
			edit: func(d map[string]any) {
				d["items"] = []map[string]any{{"description": "A", "quantity": 1, "price": "100000000000000000"}}
			},
			code:  "amount_out_of_range",
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			draft := draftInvoice()
			tt.edit(draft)

			w := ts.do(t, http.MethodPost, "/api/invoices", draft, testOwner)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			payload := decodeError(t, w)
			assert.Equal(t, "validation_error", payload.Type)
			require.Len(t, payload.Errors, 1)
			assert.Equal(t, tt.code, payload.Errors[0].Code)
			assert.Equal(t, tt.field, payload.Errors[0].Field)

			w = ts.do(t, http.MethodGet, "/api/invoices", nil, testOwner)
			assert.Empty(t, decodeData[[]invoiceBody](t, w))
		})
	}
}

func TestPreviewInvoiceDoesNotPersist(t *testing.T) {
	ts := newTestServer(t)
	draft := draftInvoice()
	draft["items"] = []map[string]any{
		{"description": "Design", "quantity": "abc", "price": 10},
		{"description": "Hosting", "quantity": 2, "price": "-4"},
		{"description": "Support", "quantity": 1, "price": "7.25"},
	}
	draft["tax_rate"] = ""

	w := ts.do(t, http.MethodPost, "/api/invoices/preview", draft, testOwner)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decodeData[invoiceBody](t, w)
	assert.True(t, preview.Total.Equal(decimal.RequireFromString("7.25")))

	w = ts.do(t, http.MethodGet, "/api/invoices", nil, testOwner)
	assert.Empty(t, decodeData[[]invoiceBody](t, w))
}

func TestTogglePaymentTerms(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createInvoice(t)
	base := "/api/invoices/" + created.ID

	w := ts.do(t, http.MethodPost, base+"/terms/bank_transfer/toggle", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, decodeData[invoiceBody](t, w).PaymentTerms.BankTransfer)

	w = ts.do(t, http.MethodPost, base+"/terms/credit_card/toggle", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeData[invoiceBody](t, w).PaymentTerms.CreditCard.Enabled)

	w = ts.do(t, http.MethodPost, base+"/terms/credit_card/brands/Visa/toggle", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Visa"}, decodeData[invoiceBody](t, w).PaymentTerms.CreditCard.Brands)

	w = ts.do(t, http.MethodPost, base+"/terms/bank_transfer/toggle", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeData[invoiceBody](t, w).PaymentTerms.BankTransfer)

	w = ts.do(t, http.MethodPost, base+"/terms/bitcoin/toggle", nil, testOwner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCardBrands(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/card-brands", nil, testOwner)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.DefaultInvoicingConfig().CardBrands, decodeData[[]string](t, w))
}

func TestCreateCheckoutSession(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{
		"invoice": map[string]any{
			"id":    "inv_1",
			"items": []map[string]any{{"description": "Design", "quantity": 2, "price": "12.755"}},
		},
	}

	t.Run("method not allowed", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/create-checkout-session", nil, "")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
		assert.JSONEq(t, `{"message":"Method Not Allowed"}`, w.Body.String())
	})

	t.Run("invalid invoice", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/create-checkout-session", map[string]any{"invoice": map[string]any{"items": []any{}}}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid invoice data"}`, w.Body.String())

		w = ts.do(t, http.MethodPost, "/api/create-checkout-session", "{not json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		calls := len(ts.checkout.requests)
		w = ts.do(t, http.MethodPost, "/api/create-checkout-session", map[string]any{
			"invoice": map[string]any{
				"id":    "inv_1",
				"items": []map[string]any{{"description": "Design", "quantity": 1, "price": "100000000000000000"}},
			},
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid invoice data"}`, w.Body.String())
		assert.Len(t, ts.checkout.requests, calls)
	})

	t.Run("created", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/create-checkout-session", body, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"id":"cs_test_1"}`, w.Body.String())
		require.NotEmpty(t, ts.checkout.requests)
		last := ts.checkout.requests[len(ts.checkout.requests)-1]
		assert.Equal(t, "inv_1", last.Invoice.ID)
		assert.Equal(t, int64(1276), checkoutdomain.LineItems(last.Invoice.Items)[0].UnitAmountCents)
	})

	t.Run("provider error", func(t *testing.T) {
		ts.checkout.err = errors.New("Your card was declined.")
		defer func() { ts.checkout.err = nil }()

		w := ts.do(t, http.MethodPost, "/api/create-checkout-session", body, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Your card was declined."}`, w.Body.String())
	})
}

func TestPublicInvoiceView(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createInvoice(t)

	w := ts.do(t, http.MethodGet, "/invoice/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Acme Corp")
	assert.Contains(t, w.Body.String(), config.DefaultInvoicingConfig().WatermarkText)
	assert.NotContains(t, w.Body.String(), "Pay Now")

	w = ts.do(t, http.MethodPost, "/invoice/"+created.ID+"/pay", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/payment-provider/stripe", map[string]any{"account_id": "acct_123"}, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/public/invoices/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeData[struct {
		PayNowAvailable bool `json:"pay_now_available"`
		Invoice         struct {
			OwnerID string `json:"owner_id"`
		} `json:"invoice"`
	}](t, w)
	assert.True(t, view.PayNowAvailable)
	assert.Empty(t, view.Invoice.OwnerID)

	w = ts.do(t, http.MethodPost, "/invoice/"+created.ID+"/pay", nil, "")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "https://checkout.test/cs_test_1", w.Header().Get("Location"))

	w = ts.do(t, http.MethodGet, "/invoice/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRateLimit(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createInvoice(t)
	ts.srv.limiter = ratelimit.NewLocalLimiter(0.001, 1, time.Minute)

	w := ts.do(t, http.MethodGet, "/public/invoices/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/public/invoices/"+created.ID, nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decodeError(t, w).Type)
}

func TestClientsAPI(t *testing.T) {
	ts := newTestServer(t)
	ts.createInvoice(t)

	client := map[string]any{"name": "Jane Doe", "email": "jane@example.test", "late_fee_percentage": "1.5"}
	w := ts.do(t, http.MethodPost, "/api/clients", client, testOwner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	client["email"] = "JANE@example.test"
	w = ts.do(t, http.MethodPost, "/api/clients", client, testOwner)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/clients", map[string]any{"name": "No Email"}, testOwner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/clients", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decodeData[[]struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}](t, w)
	require.Len(t, summaries, 2)
	emails := []string{summaries[0].Email, summaries[1].Email}
	assert.ElementsMatch(t, []string{"billing@acme.test", "jane@example.test"}, emails)

	w = ts.do(t, http.MethodGet, "/api/clients/lookup?email=billing@acme.test", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAnalyticsAndReminders(t *testing.T) {
	ts := newTestServer(t)
	ts.createInvoice(t)

	w := ts.do(t, http.MethodGet, "/api/analytics/overview", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	overview := decodeData[struct {
		InvoiceCount int `json:"invoice_count"`
		PendingCount int `json:"pending_count"`
	}](t, w)
	assert.Equal(t, 1, overview.InvoiceCount)
	assert.Equal(t, 1, overview.PendingCount)

	w = ts.do(t, http.MethodGet, "/api/reminders", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestExportInvoicesCSV(t *testing.T) {
	ts := newTestServer(t)
	ts.createInvoice(t)

	w := ts.do(t, http.MethodGet, "/api/export/invoices.csv?from=2024-03-01&to=2024-03-31", nil, testOwner)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "invoice_number,"))
	assert.Contains(t, lines[1], "Acme Corp")

	w = ts.do(t, http.MethodGet, "/api/export/invoices.csv?from=2024-04-01", nil, testOwner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, strings.Split(strings.TrimSpace(w.Body.String()), "\n"), 1)
}

func TestDownloadInvoicePDF(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createInvoice(t)

	w := ts.do(t, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil, testOwner)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestInputNumber(t *testing.T) {
	tests := []struct {
		raw      string
		amount   string
		quantity int64
	}{
		{raw: `12.5`, amount: "12.5", quantity: 12},
		{raw: `"3"`, amount: "3", quantity: 3},
		{raw: `""`, amount: "0", quantity: 0},
		{raw: `null`, amount: "0", quantity: 0},
		{raw: `"-2"`, amount: "0", quantity: 0},
		{raw: `"NaN"`, amount: "0", quantity: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n InputNumber
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.True(t, n.Amount().Equal(decimal.RequireFromString(tt.amount)), n.Amount().String())
			assert.Equal(t, tt.quantity, n.Quantity())
		})
	}
}
