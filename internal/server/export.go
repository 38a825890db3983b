package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicegen/internal/export"
	invoicedomain "github.com/smallbiznis/invoicegen/internal/invoice/domain"
)

const csvContentType = "text/csv; charset=utf-8"

func (s *Server) ExportInvoicesCSV(c *gin.Context) {
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), false)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListFilter{
		From:      from,
		To:        to,
		SortField: invoicedomain.SortByDate,
		SortDir:   invoicedomain.SortAsc,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInvoicesCSV(&buf, invoices); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}

func (s *Server) ExportClientsCSV(c *gin.Context) {
	if s.clientSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	summaries, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteClientsCSV(&buf, summaries); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="clients.csv"`)
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}
