package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/invoicegen/internal/observability/context"
	"github.com/smallbiznis/invoicegen/internal/ownercontext"
	"go.uber.org/zap"
)

const defaultOwnerHeader = "X-Owner-ID"

// OwnerRequired reads the owning user from the trusted header set by the
// upstream auth proxy.
func (s *Server) OwnerRequired() gin.HandlerFunc {
	header := strings.TrimSpace(s.cfg.OwnerHeader)
	if header == "" {
		header = defaultOwnerHeader
	}
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.GetHeader(header))
		if ownerID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := ownercontext.WithOwnerID(c.Request.Context(), ownerID)
		ctx = obscontext.WithOwnerID(ctx, ownerID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// PublicRateLimit limits public invoice routes per client IP and invoice.
func (s *Server) PublicRateLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID := strings.TrimSpace(c.Param("id"))
		c.Set("invoice_id", invoiceID)

		if s.limiter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		allowed, err := s.limiter.Allow(ctx, c.ClientIP()+":"+invoiceID)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.String("endpoint", endpoint), zap.Error(err))
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "unavailable")
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "exceeded")
			AbortWithError(c, ErrRateLimited)
			return
		}
		s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
		c.Next()
	}
}
