package handlers

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/domain/sales"
	"pdv/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles checkout and the sales history.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Checkout handles POST /sales. Retries should carry X-Idempotency-Key so a
// lost response does not record the sale twice.
func (h *SaleHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.Checkout(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSale(sale))
}

// Preview handles POST /sales/preview: runs every checkout rule and returns
// the computed totals without storing anything.
func (h *SaleHandler) Preview(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	draft, err := h.service.Build(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	preview := sales.NewSale(draft, "", h.Now(), "")
	h.OK(c, dto.FromSale(preview))
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var q dto.SaleListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter(h.Location())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, dto.FromSale))
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(sale))
}

// Receipt handles GET /sales/:id/receipt
func (h *SaleHandler) Receipt(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sales.BuildReceipt(sale))
}

// Delete handles DELETE /sales/:id; requires X-Passphrase.
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.Passphrase(c), saleID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
