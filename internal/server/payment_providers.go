package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentproviderdomain "github.com/smallbiznis/invoicegen/internal/paymentprovider/domain"
)

type connectStripeRequest struct {
	AccountID string `json:"account_id"`
}

type connectPayPalRequest struct {
	Email string `json:"email"`
}

type setPlanRequest struct {
	Plan string `json:"plan"`
}

func (s *Server) GetPaymentProviderStatus(c *gin.Context) {
	resp, err := s.paymentProviderSvc.Status(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConnectStripe(c *gin.Context) {
	var req connectStripeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentProviderSvc.ConnectStripe(c.Request.Context(), strings.TrimSpace(req.AccountID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConnectPayPal(c *gin.Context) {
	var req connectPayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentProviderSvc.ConnectPayPal(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisconnectPaymentProvider(c *gin.Context) {
	resp, err := s.paymentProviderSvc.Disconnect(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetPlan(c *gin.Context) {
	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentProviderSvc.SetPlan(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Plan)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentProviderValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentproviderdomain.ErrInvalidAccountID),
		errors.Is(err, paymentproviderdomain.ErrInvalidEmail),
		errors.Is(err, paymentproviderdomain.ErrInvalidPlan):
		return true
	default:
		return false
	}
}
