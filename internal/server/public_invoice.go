package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/smallbiznis/invoicegen/internal/checkout/domain"
	checkoutservice "github.com/smallbiznis/invoicegen/internal/checkout/service"
	publicinvoicedomain "github.com/smallbiznis/invoicegen/internal/publicinvoice/domain"
	"go.uber.org/zap"
)

// RenderPublicInvoice serves the shareable invoice page.
func (s *Server) RenderPublicInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	view, err := s.publicInvoiceSvc.GetPublicView(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	html, err := s.renderer.RenderHTML(view)
	if err != nil {
		s.log.Error("render public invoice", zap.String("invoice_id", id), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) GetPublicInvoice(c *gin.Context) {
	view, err := s.publicInvoiceSvc.GetPublicView(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// StartPublicPayment opens a checkout session for the invoice and sends the
// payer to the hosted payment page.
func (s *Server) StartPublicPayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	session, err := s.publicInvoiceSvc.StartPayment(ctx, id, requestOrigin(c))
	if err != nil {
		switch {
		case errors.Is(err, publicinvoicedomain.ErrInvoiceUnavailable),
			errors.Is(err, publicinvoicedomain.ErrPaymentUnavailable),
			errors.Is(err, checkoutservice.ErrNotConfigured):
			AbortWithError(c, err)
		case errors.Is(err, checkoutdomain.ErrInvalidInvoice):
			s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "invalid")
			AbortWithError(c, err)
		default:
			s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "error")
			s.log.Warn("start public payment", zap.String("invoice_id", id), zap.Error(err))
			AbortWithError(c, errors.Join(ErrPaymentProvider, err))
		}
		return
	}
	s.obsMetrics.RecordCheckoutSession(ctx, checkoutProvider, "created")

	if session.URL == "" {
		c.JSON(http.StatusOK, gin.H{"id": session.ID})
		return
	}
	c.Redirect(http.StatusSeeOther, session.URL)
}
