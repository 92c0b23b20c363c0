package handlers

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/infrastructure/http/v1/dto"
)

// SellerHandler handles seller registry requests.
type SellerHandler struct {
	*CatalogHandler[*seller.Seller, dto.SellerResponse]
	service *seller.Service
}

// NewSellerHandler creates a new seller handler.
func NewSellerHandler(base *BaseHandler, service *seller.Service) *SellerHandler {
	return &SellerHandler{
		CatalogHandler: NewCatalogHandler(base, service, "name", dto.FromSeller),
		service:        service,
	}
}

// Create handles POST /sellers
func (h *SellerHandler) Create(c *gin.Context) {
	var req dto.SellerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sl := req.ToDomain()
	if err := h.service.Create(c.Request.Context(), h.Passphrase(c), sl); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSeller(sl))
}

// Update handles PUT /sellers/:id
func (h *SellerHandler) Update(c *gin.Context) {
	var req dto.SellerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sl, ok := h.load(c)
	if !ok {
		return
	}
	if err := req.Apply(sl); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), h.Passphrase(c), sl); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSeller(sl))
}

// Delete handles DELETE /sellers/:id
func (h *SellerHandler) Delete(c *gin.Context) {
	sellerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.Passphrase(c), sellerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Active handles GET /sellers/active
func (h *SellerHandler) Active(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MapSlice(items, dto.FromSeller))
}
