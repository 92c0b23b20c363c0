package handlers

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/domain/catalogs/product"
	"pdv/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles product catalog requests.
// Every mutation needs the X-Passphrase header.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.ProductResponse]
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, service, "description", dto.FromProduct),
		service:        service,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToDomain()
	if err := h.service.Create(c.Request.Context(), h.Passphrase(c), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromProduct(p))
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, ok := h.load(c)
	if !ok {
		return
	}
	req.Apply(p)

	if err := h.service.Update(c.Request.Context(), h.Passphrase(c), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.Passphrase(c), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Active handles GET /products/active - the sale item picker.
func (h *ProductHandler) Active(c *gin.Context) {
	items, err := h.service.ListActive(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MapSlice(items, dto.FromProduct))
}

// Sizes handles GET /products/sizes
func (h *ProductHandler) Sizes(c *gin.Context) {
	h.OK(c, dto.SizesResponse{Sizes: product.Sizes})
}
