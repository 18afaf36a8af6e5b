// Package main implements a demo that exercises the repository against a live
// Postgres instance: it seeds a payment ledger, inserts more payments through
// concurrent ambient-connection workers, and prints the resulting aggregates.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kosyan62/repka/example/config"
	"github.com/kosyan62/repka/repository/postgresengine"
)

const (
	defaultSeedPayments      = 1000
	defaultWorkers           = 4
	defaultPaymentsPerWorker = 250
)

type Config struct {
	SeedPayments      int
	Workers           int
	PaymentsPerWorker int
	Verbose           bool
}

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgxPool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolDemoConfig())
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pgxPool.Close()

	if err = pgxPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = ensureSchema(ctx, pgxPool); err != nil {
		log.Fatalf("Failed to create demo schema: %v", err)
	}

	var repoOptions []postgresengine.Option
	if cfg.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		repoOptions = append(repoOptions, postgresengine.WithLogger(logger))
	}

	repo, err := postgresengine.NewFromPGXPool(PaymentsTable(), pgxPool, repoOptions...)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	log.Printf("Seeding %d payments...", cfg.SeedPayments)
	if err = seedPayments(ctx, repo, cfg.SeedPayments); err != nil {
		log.Fatalf("Failed to seed payments: %v", err)
	}

	log.Printf("Running %d workers inserting %d payments each...", cfg.Workers, cfg.PaymentsPerWorker)
	if err = runWorkers(ctx, pgxPool, cfg, repoOptions); err != nil {
		log.Fatalf("Worker run failed: %v", err)
	}

	// Read the aggregates back through the sqlx adapter to show that both
	// connection types serve the same repository contract.
	db := config.PostgresSQLXDemoConfig()
	defer func() {
		_ = db.Close() // makes no sense to handle this
	}()

	sqlxRepo, err := postgresengine.NewFromSQLX(PaymentsTable(), db)
	if err != nil {
		log.Fatalf("Failed to create sqlx repository: %v", err)
	}

	if err = reportAggregates(ctx, sqlxRepo); err != nil {
		log.Fatalf("Failed to report aggregates: %v", err)
	}
}

func parseFlags() Config {
	var (
		seed      = flag.Int("seed", defaultSeedPayments, "Number of payments to seed initially")
		workers   = flag.Int("workers", defaultWorkers, "Number of concurrent insert workers")
		perWorker = flag.Int("payments-per-worker", defaultPaymentsPerWorker, "Payments each worker inserts")
		verbose   = flag.Bool("verbose", false, "Enable repository debug logging")
	)

	flag.Parse()

	return Config{
		SeedPayments:      *seed,
		Workers:           *workers,
		PaymentsPerWorker: *perWorker,
		Verbose:           *verbose,
	}
}
