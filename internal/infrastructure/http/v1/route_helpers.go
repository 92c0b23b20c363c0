// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/core/security"
	"pdv/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for registry handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ActiveListHandler is an optional interface for registries with an
// "active only" picker list.
type ActiveListHandler interface {
	Active(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a registry.
//
// Usage:
//
//	repo := catalog_repo.NewSellerRepo(cfg.TxManager)
//	service := seller.NewService(repo, cfg.TxManager, cfg.Gate)
//	handler := handlers.NewSellerHandler(base, service)
//	RegisterCatalogRoutes(api.Group("/sellers"), handler, security.ResourceSellers)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, resource string) {
	read := middleware.RequirePermission(resource, security.ActionRead)

	group.GET("", read, handler.List)
	if active, ok := handler.(ActiveListHandler); ok {
		group.GET("/active", read, active.Active)
	}
	group.POST("", middleware.RequirePermission(resource, security.ActionCreate), handler.Create)
	group.GET("/:id", read, handler.Get)
	group.PUT("/:id", middleware.RequirePermission(resource, security.ActionUpdate), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(resource, security.ActionDelete), handler.Delete)
}
