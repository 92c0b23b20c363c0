package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"pdv/internal/domain/reports"
	"pdv/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// runReport parses the report query and writes fn's result with the range.
func runReport[T any](h *ReportsHandler, c *gin.Context, fn func(context.Context, reports.Filter) (T, error)) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter(h.Location())
	if err != nil {
		h.Error(c, err)
		return
	}

	data, err := fn(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ReportResponse[T]{Range: filter.Range, Data: data})
}

// Clients handles GET /reports/clients
func (h *ReportsHandler) Clients(c *gin.Context) {
	runReport(h, c, h.service.Clients)
}

// Products handles GET /reports/products
func (h *ReportsHandler) Products(c *gin.Context) {
	runReport(h, c, h.service.Products)
}

// Sellers handles GET /reports/sellers
func (h *ReportsHandler) Sellers(c *gin.Context) {
	runReport(h, c, h.service.Sellers)
}

// Payments handles GET /reports/payments
func (h *ReportsHandler) Payments(c *gin.Context) {
	runReport(h, c, h.service.Payments)
}

// Summary handles GET /reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	runReport(h, c, h.service.Summary)
}

// Period handles GET /reports/period
func (h *ReportsHandler) Period(c *gin.Context) {
	runReport(h, c, h.service.Period)
}

// Dashboard handles GET /reports/dashboard; covers all sales.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}
