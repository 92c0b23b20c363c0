// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "time/tzdata"

	"pdv/internal/core/apperror"
	"pdv/internal/core/security"
	"pdv/internal/core/types"
	"pdv/internal/domain/auth"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/infrastructure/config"
	"pdv/internal/infrastructure/session"
	"pdv/internal/infrastructure/storage/postgres"
	"pdv/internal/infrastructure/storage/postgres/auth_repo"
	"pdv/internal/infrastructure/storage/postgres/catalog_repo"
	"pdv/pkg/logger"
)

const (
	defaultAdminEmail    = "admin@venda.com"
	defaultAdminPassword = "admin123"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	demo := flag.Bool("demo", os.Getenv("SEED_DEMO_DATA") == "true", "also seed demo sellers, products and clients")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig(cfg.Auth.JWTSecret))
	authSvc := auth.NewService(auth_repo.NewUserRepo(txm), session.NewMemoryStore(), txm, jwtSvc, auth.DefaultServiceConfig())

	if err := seedAdminUser(ctx, authSvc, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if *demo {
		gate, err := security.NewPassphraseGate(cfg.Security.PassphraseHash, cfg.Security.Passphrase)
		if err != nil {
			log.Fatalw("invalid passphrase settings", "error", err)
		}
		// Demo data goes through the services, so they need the plain phrase.
		if cfg.Security.Passphrase == "" {
			log.Fatal("PASSPHRASE is required to seed demo data")
		}
		d := demoSeeder{
			passphrase: cfg.Security.Passphrase,
			products:   product.NewService(catalog_repo.NewProductRepo(txm), txm, gate),
			clients:    client.NewService(catalog_repo.NewClientRepo(txm), txm, gate),
			sellers:    seller.NewService(catalog_repo.NewSellerRepo(txm), txm, gate),
			log:        log,
		}
		if err := d.run(ctx); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, svc *auth.Service, log *logger.Logger) error {
	email := getEnv("ADMIN_EMAIL", defaultAdminEmail)
	user, created, err := svc.EnsureUser(ctx, auth.CreateUserRequest{
		Email:    email,
		Password: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
		Name:     "Administrador",
		Role:     security.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if created {
		log.Infow("admin user created", "email", user.Email, "user_id", user.ID)
	} else {
		log.Infow("admin user already exists", "email", user.Email, "user_id", user.ID)
	}
	return nil
}

type demoSeeder struct {
	passphrase string
	products   *product.Service
	clients    *client.Service
	sellers    *seller.Service
	log        *logger.Logger
}

func (d demoSeeder) run(ctx context.Context) error {
	if err := d.seedSellers(ctx); err != nil {
		return fmt.Errorf("sellers: %w", err)
	}
	if err := d.seedProducts(ctx); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	if err := d.seedClients(ctx); err != nil {
		return fmt.Errorf("clients: %w", err)
	}
	return nil
}

func (d demoSeeder) seedSellers(ctx context.Context) error {
	existing, err := d.sellers.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		d.log.Infow("sellers already present, skipping", "count", len(existing))
		return nil
	}
	for _, s := range []struct{ name, phone string }{
		{"Ana Souza", "11987654321"},
		{"Bruno Lima", "11976543210"},
	} {
		if err := d.sellers.Create(ctx, d.passphrase, seller.NewSeller(s.name, s.phone)); err != nil {
			return err
		}
	}
	d.log.Info("demo sellers created")
	return nil
}

func (d demoSeeder) seedProducts(ctx context.Context) error {
	created := 0
	for _, p := range []struct{ code, description, cost, price string }{
		{"CAM001", "Camiseta Básica Algodão", "18.00", "39.90"},
		{"CAM002", "Camiseta Estampada", "22.50", "49.90"},
		{"CAL001", "Calça Jeans", "55.00", "129.90"},
		{"BON001", "Boné Aba Reta", "15.00", "34.90"},
	} {
		err := d.products.Create(ctx, d.passphrase,
			product.NewProduct(p.code, p.description, types.MustMoney(p.cost), types.MustMoney(p.price)))
		if apperror.HasCode(err, apperror.CodeDuplicate) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}
	d.log.Infow("demo products created", "count", created)
	return nil
}

func (d demoSeeder) seedClients(ctx context.Context) error {
	created := 0
	for _, c := range []struct{ cpf, name, phone, birth string }{
		{"52998224725", "Carla Mendes", "11912345678", "1990-04-12"},
		{"11144477735", "Diego Rocha", "11923456789", "1985-11-30"},
		{"12345678909", "Elisa Prado", "", "2001-02-07"},
	} {
		_, err := d.clients.FindByCPF(ctx, c.cpf)
		if err == nil {
			continue
		}
		if !apperror.IsNotFound(err) {
			return err
		}
		birth, err := time.Parse(time.DateOnly, c.birth)
		if err != nil {
			return err
		}
		if err := d.clients.Create(ctx, client.NewClient(c.cpf, c.name, c.phone, birth)); err != nil {
			return err
		}
		created++
	}
	d.log.Infow("demo clients created", "count", created)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
