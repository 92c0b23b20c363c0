package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"pdv/internal/core/entity"
	"pdv/internal/core/id"
	"pdv/internal/domain"
	"pdv/internal/infrastructure/http/v1/dto"
)

// CatalogReader is the read side shared by the registry services.
type CatalogReader[T entity.Validatable] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides the generic list and get handlers of a registry.
// Mutations differ per registry (passphrase rules) and live on the
// entity handlers that embed it.
type CatalogHandler[T entity.Validatable, R any] struct {
	*BaseHandler
	reader       CatalogReader[T]
	defaultOrder string
	mapToDTO     func(T) R
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, R any](
	base *BaseHandler,
	reader CatalogReader[T],
	defaultOrder string,
	mapToDTO func(T) R,
) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{
		BaseHandler:  base,
		reader:       reader,
		defaultOrder: defaultOrder,
		mapToDTO:     mapToDTO,
	}
}

// List handles GET /{entity} - list with search and pagination.
func (h *CatalogHandler[T, R]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := q.ToFilter()
	if filter.OrderBy == "" {
		filter.OrderBy = h.defaultOrder
	}

	result, err := h.reader.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, h.mapToDTO))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, R]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.reader.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(e))
}

// load fetches the entity named by :id for an update.
func (h *CatalogHandler[T, R]) load(c *gin.Context) (T, bool) {
	var zero T
	entityID, ok := h.ParseID(c)
	if !ok {
		return zero, false
	}
	e, err := h.reader.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return zero, false
	}
	return e, true
}
