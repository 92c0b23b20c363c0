package handlers

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/domain/catalogs/client"
	"pdv/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles client registry requests.
type ClientHandler struct {
	*CatalogHandler[*client.Client, dto.ClientResponse]
	service *client.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHandler {
	return &ClientHandler{
		CatalogHandler: NewCatalogHandler(base, service, "name", dto.FromClient),
		service:        service,
	}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := h.service.Create(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromClient(cl))
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl, ok := h.load(c)
	if !ok {
		return
	}
	if err := req.Apply(cl); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromClient(cl))
}

// Delete handles DELETE /clients/:id; requires X-Passphrase.
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.Passphrase(c), clientID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// FindByCPF handles GET /clients/by-cpf/:cpf
func (h *ClientHandler) FindByCPF(c *gin.Context) {
	cl, err := h.service.FindByCPF(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromClient(cl))
}
