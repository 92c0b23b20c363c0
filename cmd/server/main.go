// Package main is the entry point for the PDV API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Embedded zone database so APP_TIMEZONE resolves on minimal images.
	_ "time/tzdata"

	v1 "pdv/internal/infrastructure/http/v1"
	"pdv/internal/infrastructure/config"
	"pdv/internal/infrastructure/storage/postgres"
	"pdv/internal/infrastructure/storage/postgres/migration"
	"pdv/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting pdv server", "version", version, "env", cfg.App.Env, "timezone", cfg.App.Location.String())

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalw("migrations failed", "error", err)
		}
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	app, err := buildApp(ctx, cfg, pool, log)
	if err != nil {
		log.Fatalw("failed to build application", "error", err)
	}
	defer app.Close()

	// Background loops stop with ctx.
	app.Start(ctx)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:                pool,
		Sessions:            app.sessions,
		Logger:              log,
		Location:            cfg.App.Location,
		GinMode:             cfg.Server.GinMode,
		Version:             version,
		AllowedOrigins:      cfg.CORS.AllowedOrigins,
		Idempotency:         app.idempotency,
		APILimiter:          app.apiLimiter,
		LoginLimiter:        app.loginLimiter,
		AuthService:         app.auth,
		ProductService:      app.products,
		ClientService:       app.clients,
		SellerService:       app.sellers,
		SaleService:         app.sales,
		CashRegisterService: app.cashRegisters,
		ReportService:       app.reports,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful shutdown ---
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Errorw("server failed", "error", err)
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func runMigrations(cfg *config.Config, log *logger.Logger) error {
	m, err := migration.New(cfg.Database.MigrationsPath, cfg.Database.DSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warnw("close migrator", "error", err)
		}
	}()
	return m.Up()
}
