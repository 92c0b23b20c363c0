package main

import (
	"context"
	"fmt"
	"time"

	"pdv/internal/core/security"
	"pdv/internal/domain/auth"
	"pdv/internal/domain/cashregister"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/domain/reports"
	"pdv/internal/domain/sales"
	"pdv/internal/infrastructure/config"
	"pdv/internal/infrastructure/http/v1/middleware"
	"pdv/internal/infrastructure/numerator"
	"pdv/internal/infrastructure/session"
	"pdv/internal/infrastructure/storage/postgres"
	"pdv/internal/infrastructure/storage/postgres/auth_repo"
	"pdv/internal/infrastructure/storage/postgres/catalog_repo"
	"pdv/internal/infrastructure/storage/postgres/document_repo"
	"pdv/pkg/logger"
)

const (
	idempotencyTTL             = 24 * time.Hour
	idempotencyCleanupInterval = time.Hour
	sessionSweepInterval       = 5 * time.Minute
)

// app holds the services shared by the router and the background loops.
type app struct {
	log *logger.Logger

	sessions     auth.SessionStore
	memSessions  *session.MemoryStore
	redisStore   *session.RedisStore
	idempotency  *postgres.IdempotencyStore
	apiLimiter   *middleware.RateLimiter
	loginLimiter *middleware.RateLimiter

	auth          *auth.Service
	products      *product.Service
	clients       *client.Service
	sellers       *seller.Service
	sales         *sales.Service
	cashRegisters *cashregister.Service
	reports       *reports.Service
}

func buildApp(ctx context.Context, cfg *config.Config, pool *postgres.Pool, log *logger.Logger) (*app, error) {
	a := &app{log: log}
	txm := postgres.NewTxManager(pool)

	gate, err := security.NewPassphraseGate(cfg.Security.PassphraseHash, cfg.Security.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("passphrase gate: %w", err)
	}

	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		return nil, fmt.Errorf("audit service: %w", err)
	}

	// --- Sessions ---
	if cfg.Redis.Addr != "" {
		a.redisStore = session.NewRedisStore(session.NewRedisClient(session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
		a.sessions = a.redisStore
		log.Infow("session store: redis", "addr", cfg.Redis.Addr)
	} else {
		a.memSessions = session.NewMemoryStore()
		a.sessions = a.memSessions
		log.Info("session store: memory")
	}

	// --- Auth ---
	jwtCfg := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
	jwtCfg.AccessTokenTTL = cfg.Auth.AccessTokenTTL
	authCfg := auth.DefaultServiceConfig()
	authCfg.SessionTTL = cfg.Auth.SessionTTL
	a.auth = auth.NewService(auth_repo.NewUserRepo(txm), a.sessions, txm, auth.NewJWTService(jwtCfg), authCfg)
	if err := a.auth.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// --- Registries ---
	a.products = product.NewService(catalog_repo.NewProductRepo(txm), txm, gate)
	a.clients = client.NewService(catalog_repo.NewClientRepo(txm), txm, gate)
	a.sellers = seller.NewService(catalog_repo.NewSellerRepo(txm), txm, gate)

	// --- Sales and cash register ---
	codes := numerator.NewWithSource(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})
	a.sales = sales.NewService(sales.ServiceConfig{
		Repo:      document_repo.NewSaleRepo(txm),
		TxManager: txm,
		Numerator: codes,
		Gate:      gate,
		Audit:     auditSvc,
		Clients:   a.clients,
		Sellers:   a.sellers,
		Products:  a.products,
		Now:       nowIn(cfg.App.Location),
	})
	a.cashRegisters = cashregister.NewService(cashregister.ServiceConfig{
		Repo:      document_repo.NewCashRegisterRepo(txm),
		Sales:     a.sales,
		TxManager: txm,
		Gate:      gate,
		Audit:     auditSvc,
		Now:       nowIn(cfg.App.Location),
	})
	a.reports = reports.NewService(a.sales, a.products, reports.WithNow(nowIn(cfg.App.Location)))

	// --- HTTP support ---
	a.idempotency = postgres.NewIdempotencyStore(txm, idempotencyTTL)

	apiCfg := middleware.DefaultRateLimiterConfig()
	apiCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
	apiCfg.Burst = cfg.RateLimit.Burst
	a.apiLimiter = middleware.NewRateLimiter(apiCfg)

	loginCfg := middleware.DefaultRateLimiterConfig()
	loginCfg.RequestsPerSecond = float64(cfg.RateLimit.LoginPerMinute) / 60
	loginCfg.Burst = cfg.RateLimit.LoginPerMinute
	a.loginLimiter = middleware.NewRateLimiter(loginCfg)

	return a, nil
}

// Start launches the background loops. They stop when ctx is done.
func (a *app) Start(ctx context.Context) {
	cleanup := middleware.DefaultRateLimiterConfig().CleanupInterval
	go a.apiLimiter.Run(ctx, cleanup)
	go a.loginLimiter.Run(ctx, cleanup)
	go a.idempotency.RunCleanup(ctx, idempotencyCleanupInterval)
	if a.memSessions != nil {
		go a.memSessions.RunSweeper(ctx, sessionSweepInterval)
	}
}

// Close releases connections that are not owned by the pool.
func (a *app) Close() {
	if a.redisStore != nil {
		if err := a.redisStore.Close(); err != nil {
			a.log.Warnw("close redis", "error", err)
		}
	}
}

func nowIn(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}
