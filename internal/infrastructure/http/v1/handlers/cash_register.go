package handlers

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/core/apperror"
	"pdv/internal/domain/cashregister"
	"pdv/internal/infrastructure/http/v1/dto"
)

// CashRegisterHandler handles the drawer session endpoints.
type CashRegisterHandler struct {
	*BaseHandler
	service *cashregister.Service
}

// NewCashRegisterHandler creates a new cash register handler.
func NewCashRegisterHandler(base *BaseHandler, service *cashregister.Service) *CashRegisterHandler {
	return &CashRegisterHandler{BaseHandler: base, service: service}
}

// Current handles GET /cash-registers/current. A closed drawer is not an
// error here: the screen shows the "open" form instead.
func (h *CashRegisterHandler) Current(c *gin.Context) {
	reg, err := h.service.Current(c.Request.Context())
	if err != nil {
		if apperror.HasCode(err, apperror.CodeCashRegisterNotOpen) {
			h.OK(c, dto.CurrentCashRegisterResponse{Open: false})
			return
		}
		h.Error(c, err)
		return
	}

	resp := dto.FromCashRegister(reg)
	h.OK(c, dto.CurrentCashRegisterResponse{Open: true, Register: &resp})
}

// Open handles POST /cash-registers/open; requires X-Passphrase.
func (h *CashRegisterHandler) Open(c *gin.Context) {
	var req dto.OpenCashRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reg, err := h.service.Open(c.Request.Context(), h.Passphrase(c), req.InitialAmount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCashRegister(reg))
}

// Close handles POST /cash-registers/close; requires X-Passphrase.
func (h *CashRegisterHandler) Close(c *gin.Context) {
	var req dto.CloseCashRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reg, err := h.service.Close(c.Request.Context(), h.Passphrase(c), req.ActualAmount, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCashRegister(reg))
}

// List handles GET /cash-registers
func (h *CashRegisterHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, dto.FromCashRegister))
}

// Get handles GET /cash-registers/:id
func (h *CashRegisterHandler) Get(c *gin.Context) {
	registerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	reg, err := h.service.GetByID(c.Request.Context(), registerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCashRegister(reg))
}
