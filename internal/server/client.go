package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbiznis/invoicegen/internal/client/domain"
)

type clientRequest struct {
	Company                string       `json:"company"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email"`
	Phone                  string       `json:"phone"`
	Notes                  string       `json:"notes"`
	PreferredPaymentMethod string       `json:"preferred_payment_method"`
	LateFeePercentage      *InputNumber `json:"late_fee_percentage"`
}

func (r clientRequest) toDomain() (clientdomain.SaveClientRequest, error) {
	req := clientdomain.SaveClientRequest{
		Company:                strings.TrimSpace(r.Company),
		Name:                   strings.TrimSpace(r.Name),
		Email:                  strings.TrimSpace(r.Email),
		Phone:                  strings.TrimSpace(r.Phone),
		Notes:                  r.Notes,
		PreferredPaymentMethod: strings.TrimSpace(r.PreferredPaymentMethod),
	}
	if r.LateFeePercentage != nil {
		if raw := strings.TrimSpace(string(*r.LateFeePercentage)); raw != "" {
			fee, err := decimal.NewFromString(raw)
			if err != nil {
				return req, clientdomain.ErrInvalidLateFee
			}
			req.LateFeePercentage = &fee
		}
	}
	return req, nil
}

func (s *Server) ListClients(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientByEmail(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		AbortWithError(c, newValidationError("email", "required", "email is required"))
		return
	}

	resp, err := s.clientSvc.Get(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateClient(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	save, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clientSvc.Create(c.Request.Context(), save)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateClient(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	save, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clientSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), save)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteClient(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if err := s.clientSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isClientValidationError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, clientdomain.ErrInvalidPaymentMethod),
		errors.Is(err, clientdomain.ErrInvalidLateFee):
		return true
	default:
		return false
	}
}
