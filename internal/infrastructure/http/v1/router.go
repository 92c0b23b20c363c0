package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"pdv/internal/core/security"
	"pdv/internal/domain/auth"
	"pdv/internal/domain/cashregister"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/domain/reports"
	"pdv/internal/domain/sales"
	"pdv/internal/infrastructure/http/v1/handlers"
	"pdv/internal/infrastructure/http/v1/middleware"
	"pdv/internal/infrastructure/storage/postgres"
	"pdv/pkg/logger"
)

// RouterConfig holds the services and infrastructure the API is built on.
type RouterConfig struct {
	// Pool is used by the health endpoints
	Pool *postgres.Pool

	// Sessions is pinged by the readiness probe
	Sessions handlers.Pinger

	Logger *logger.Logger

	// Location is the shop time zone for date parameters
	Location *time.Location

	// GinMode is gin.ReleaseMode, gin.DebugMode or gin.TestMode
	GinMode string
	Version string

	AllowedOrigins []string

	// Idempotency is optional; nil disables X-Idempotency-Key handling
	Idempotency middleware.IdempotencyStore

	// APILimiter and LoginLimiter are optional
	APILimiter   *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter

	AuthService         *auth.Service
	ProductService      *product.Service
	ClientService       *client.Service
	SellerService       *seller.Service
	SaleService         *sales.Service
	CashRegisterService *cashregister.Service
	ReportService       *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	middleware.SetupValidator()

	router := gin.New()

	// Global middleware (order matters!). Logger sits outside ErrorHandler so
	// it sees the final status; Recovery sits inside so a panic still gets
	// a JSON body.
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.Pool != nil {
		healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Sessions, cfg.Version)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	base := handlers.NewBaseHandler(cfg.Location)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, base, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))
		if cfg.APILimiter != nil {
			protected.Use(cfg.APILimiter.Middleware(middleware.ByUserOrIP))
		}
		if cfg.Idempotency != nil {
			protected.Use(middleware.Idempotency(cfg.Idempotency))
		}

		registerUserRoutes(protected, base, cfg)
		registerCatalogRoutes(protected, base, cfg)
		registerSaleRoutes(protected, base, cfg)
		registerCashRegisterRoutes(protected, base, cfg)
		registerReportRoutes(protected, base, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	group := rg.Group("/auth")
	if cfg.LoginLimiter != nil {
		group.POST("/login", cfg.LoginLimiter.Middleware(middleware.ByClientIP), authHandler.Login)
	} else {
		group.POST("/login", authHandler.Login)
	}

	protected := group.Group("")
	protected.Use(middleware.Auth(cfg.AuthService))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}

// registerUserRoutes registers admin user management.
func registerUserRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewAuthHandler(base, cfg.AuthService)

	users := rg.Group("/users")
	users.Use(middleware.RequireRole(security.RoleAdmin))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id/active", h.SetActive)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// registerCatalogRoutes registers the product, client and seller registries.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	// --- PRODUCTS ---
	{
		h := handlers.NewProductHandler(base, cfg.ProductService)
		group := rg.Group("/products")
		group.GET("/sizes", middleware.RequirePermission(security.ResourceProducts, security.ActionRead), h.Sizes)
		RegisterCatalogRoutes(group, h, security.ResourceProducts)
	}

	// --- CLIENTS ---
	{
		h := handlers.NewClientHandler(base, cfg.ClientService)
		group := rg.Group("/clients")
		group.GET("/by-cpf/:cpf", middleware.RequirePermission(security.ResourceClients, security.ActionRead), h.FindByCPF)
		RegisterCatalogRoutes(group, h, security.ResourceClients)
	}

	// --- SELLERS ---
	{
		h := handlers.NewSellerHandler(base, cfg.SellerService)
		RegisterCatalogRoutes(rg.Group("/sellers"), h, security.ResourceSellers)
	}
}

// registerSaleRoutes registers checkout and sales history.
func registerSaleRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewSaleHandler(base, cfg.SaleService)
	read := middleware.RequirePermission(security.ResourceSales, security.ActionRead)
	create := middleware.RequirePermission(security.ResourceSales, security.ActionCreate)

	group := rg.Group("/sales")
	{
		group.GET("", read, h.List)
		group.POST("", create, h.Checkout)
		group.POST("/preview", create, h.Preview)
		group.GET("/:id", read, h.Get)
		group.GET("/:id/receipt", read, h.Receipt)
		group.DELETE("/:id", middleware.RequirePermission(security.ResourceSales, security.ActionDelete), h.Delete)
	}
}

// registerCashRegisterRoutes registers the drawer session endpoints.
func registerCashRegisterRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewCashRegisterHandler(base, cfg.CashRegisterService)
	read := middleware.RequirePermission(security.ResourceCashRegisters, security.ActionRead)

	group := rg.Group("/cash-registers")
	{
		group.GET("", read, h.List)
		group.GET("/current", read, h.Current)
		group.POST("/open", middleware.RequirePermission(security.ResourceCashRegisters, security.ActionCreate), h.Open)
		group.POST("/close", middleware.RequirePermission(security.ResourceCashRegisters, security.ActionUpdate), h.Close)
		group.GET("/:id", read, h.Get)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.ReportService)

	group := rg.Group("/reports")
	group.Use(middleware.RequirePermission(security.ResourceReports, security.ActionRead))
	{
		group.GET("/clients", h.Clients)
		group.GET("/products", h.Products)
		group.GET("/sellers", h.Sellers)
		group.GET("/payments", h.Payments)
		group.GET("/summary", h.Summary)
		group.GET("/period", h.Period)
		group.GET("/dashboard", h.Dashboard)
	}
}
