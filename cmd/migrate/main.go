// Package main provides the schema migration CLI.
//
// Usage:
//
//	migrate up
//	migrate down [steps]
//	migrate version
//	migrate force <version>
//	migrate sync-codes [YYYYMM]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "time/tzdata"

	"pdv/internal/domain/sales"
	"pdv/internal/infrastructure/config"
	"pdv/internal/infrastructure/numerator"
	"pdv/internal/infrastructure/storage/postgres"
	"pdv/internal/infrastructure/storage/postgres/document_repo"
	"pdv/internal/infrastructure/storage/postgres/migration"
	"pdv/pkg/logger"
)

func main() {
	var (
		envFile        string
		migrationsPath string
	)
	flag.StringVar(&envFile, "env", ".env", "optional env file")
	flag.StringVar(&migrationsPath, "path", "", "migration source URL (default: MIGRATIONS_PATH)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}

	if command == "sync-codes" {
		if err := syncCodes(cfg, log, args[1:]); err != nil {
			log.Fatalw("sync-codes failed", "error", err)
		}
		return
	}

	m, err := migration.New(migrationsPath, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warnw("close migrator", "error", err)
		}
	}()

	switch command {
	case "up":
		err = m.Up()

	case "down":
		steps := 1
		if len(args) > 1 {
			if args[1] == "all" {
				steps = 0
			} else if steps, err = strconv.Atoi(args[1]); err != nil || steps < 1 {
				log.Fatalw("invalid number of steps", "value", args[1])
			}
		}
		err = m.Down(steps)

	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			err = verr
			break
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)

	case "force":
		if len(args) < 2 {
			log.Fatal("version required. Usage: migrate force <version>")
		}
		version, perr := strconv.Atoi(args[1])
		if perr != nil {
			log.Fatalw("invalid version", "value", args[1])
		}
		err = m.Force(version)

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalw("migration command failed", "command", command, "error", err)
	}
}

// syncCodes moves the sale code counter of a month to the highest code
// already stored, after importing sales from another system.
func syncCodes(cfg *config.Config, log *logger.Logger, args []string) error {
	period := time.Now().In(cfg.App.Location)
	if len(args) > 0 {
		p, err := time.ParseInLocation("200601", args[0], cfg.App.Location)
		if err != nil {
			return fmt.Errorf("period must be YYYYMM: %w", err)
		}
		period = p
	}

	ctx := logger.WithLogger(context.Background(), log)
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		return err
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	svc := sales.NewService(sales.ServiceConfig{
		Repo:      document_repo.NewSaleRepo(txm),
		TxManager: txm,
		Numerator: numerator.NewWithSource(func(ctx context.Context) numerator.Querier {
			return txm.GetQuerier(ctx)
		}),
	})

	seq, err := svc.SyncCodeCounter(ctx, period)
	if err != nil {
		return err
	}
	log.Infow("sale code counter synced", "period", period.Format("200601"), "last", seq)
	return nil
}

func printUsage() {
	fmt.Println(`PDV migration CLI

Usage:
  migrate [flags] <command> [args]

Commands:
  up                  Apply all pending migrations
  down [n|all]        Roll back n migrations (default 1)
  version             Print the applied version
  force <version>     Mark a version as applied after a manual fix
  sync-codes [YYYYMM] Align the monthly sale code counter with stored sales

Flags:
  -env   optional env file (default .env)
  -path  migration source URL (default MIGRATIONS_PATH, file://migrations)`)
}
