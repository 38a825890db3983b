package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
	"github.com/smallbiznis/invoicegen/internal/providers/pdf"
	"go.uber.org/zap"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	req, ok := s.bindInvoiceRequest(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("invoice_id", resp.ID.String())
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	req, ok := s.bindInvoiceRequest(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PreviewInvoice computes the derived totals of a draft without saving it.
func (s *Server) PreviewInvoice(c *gin.Context) {
	req, ok := s.bindInvoiceRequest(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) bindInvoiceRequest(c *gin.Context) (invoicedomain.SaveInvoiceRequest, bool) {
	var body invoiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return invoicedomain.SaveInvoiceRequest{}, false
	}
	req, err := body.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return invoicedomain.SaveInvoiceRequest{}, false
	}
	return req, true
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Query  string `form:"q"`
		Status string `form:"status"`
		From   string `form:"from"`
		To     string `form:"to"`
		Sort   string `form:"sort"`
		Dir    string `form:"dir"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, false)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListFilter{
		Query:     query.Query,
		Status:    invoicedomain.StatusFilter(strings.TrimSpace(query.Status)),
		From:      from,
		To:        to,
		SortField: invoicedomain.SortField(strings.TrimSpace(query.Sort)),
		SortDir:   invoicedomain.SortDirection(strings.ToLower(strings.TrimSpace(query.Dir))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	resp, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) MarkInvoicePaid(c *gin.Context) {
	s.setPaid(c, true)
}

func (s *Server) MarkInvoiceUnpaid(c *gin.Context) {
	s.setPaid(c, false)
}

func (s *Server) setPaid(c *gin.Context, paid bool) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	var (
		resp invoicedomain.Invoice
		err  error
	)
	if paid {
		resp, err = s.invoiceSvc.MarkPaid(c.Request.Context(), id)
	} else {
		resp, err = s.invoiceSvc.MarkUnpaid(c.Request.Context(), id)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) TogglePaymentMethod(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	resp, err := s.invoiceSvc.TogglePaymentMethod(c.Request.Context(), id, strings.TrimSpace(c.Param("method")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ToggleCardBrand(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	resp, err := s.invoiceSvc.ToggleCardBrand(c.Request.Context(), id, strings.TrimSpace(c.Param("brand")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCardBrands(c *gin.Context) {
	brands := []string{}
	if s.invoicing != nil {
		brands = append(brands, s.invoicing.Get().CardBrands...)
	}
	c.JSON(http.StatusOK, gin.H{"data": brands})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	if s.pdf == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	c.Set("invoice_id", id)

	ctx := c.Request.Context()
	inv, err := s.invoiceSvc.Get(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	watermark := ""
	if s.invoicing != nil {
		watermark = s.invoicing.Get().WatermarkText
	}
	doc, err := s.pdf.GenerateInvoice(ctx, pdf.NewInvoiceData(inv, s.cfg.CheckoutCurrency, watermark))
	if err != nil {
		s.obsMetrics.RecordPDFRender(ctx, "error")
		if errors.Is(err, ctx.Err()) {
			AbortWithError(c, err)
			return
		}
		s.log.Error("render invoice pdf", zap.String("invoice_id", id), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}
	s.obsMetrics.RecordPDFRender(ctx, "ok")

	c.Header("Content-Disposition", `attachment; filename="`+pdf.FileName(inv)+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, doc); err != nil {
		s.log.Warn("write invoice pdf", zap.String("invoice_id", id), zap.Error(err))
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidClientName),
		errors.Is(err, invoicedomain.ErrInvalidClientEmail),
		errors.Is(err, invoicedomain.ErrEmptyItems),
		errors.Is(err, invoicedomain.ErrInvalidDueDate),
		errors.Is(err, invoicedomain.ErrInvalidPaymentMethod),
		errors.Is(err, invoicedomain.ErrPaymentMethodDisabled),
		errors.Is(err, invoicedomain.ErrInvalidCardBrand),
		errors.Is(err, invoicedomain.ErrInvalidStatusFilter),
		errors.Is(err, invoicedomain.ErrInvalidSortField),
		errors.Is(err, invoicedomain.ErrInvalidDateRange),
		errors.Is(err, invoicedomain.ErrInvalidTaxRate),
		errors.Is(err, invoicedomain.ErrAmountOutOfRange):
		return true
	default:
		return false
	}
}
