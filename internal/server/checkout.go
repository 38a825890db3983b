package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	"go.uber.org/zap"
)

const checkoutProvider = "stripe"

type checkoutSessionRequest struct {
	Invoice *struct {
		ID    string               `json:"id"`
		Items []invoiceItemRequest `json:"items"`
	} `json:"invoice"`
}

// CreateCheckoutSession answers with bare {id} or {message} bodies rather
// than the error envelope used by the rest of the API.
func (s *Server) CreateCheckoutSession(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
		return
	}

	ctx := c.Request.Context()
	var body checkoutSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice data"})
		return
	}

	req := checkoutdomain.CreateSessionRequest{Origin: requestOrigin(c)}
	if body.Invoice != nil {
		c.Set("invoice_id", strings.TrimSpace(body.Invoice.ID))
		req.Invoice = &checkoutdomain.InvoiceRef{
			ID:    strings.TrimSpace(body.Invoice.ID),
			Items: toItems(body.Invoice.Items),
		}
	}
	if err := req.Validate(); err != nil {
		s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice data"})
		return
	}

	session, err := s.checkout.CreateSession(ctx, req)
	if err != nil {
		if errors.Is(err, checkoutdomain.ErrInvalidInvoice) {
			s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid invoice data"})
			return
		}
		s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "error")
		s.log.Warn("create checkout session", zap.String("invoice_id", req.Invoice.ID), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "created")
	c.JSON(http.StatusOK, gin.H{"id": session.ID})
}

// requestOrigin returns the http(s) Origin header, or "" so the session
// creator falls back to the configured public URL.
func requestOrigin(c *gin.Context) string {
	origin := strings.TrimRight(strings.TrimSpace(c.GetHeader("Origin")), "/")
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		return origin
	}
	return ""
}
