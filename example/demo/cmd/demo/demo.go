package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine"
)

// Payment is one ledger entry in the demo schema.
type Payment struct {
	repository.Identity
	PublicID uuid.UUID
	Date     time.Time
	Amount   int64
}

const paymentsTableName = "demo_payments"

const createPaymentsTableSQL = `
	CREATE TABLE IF NOT EXISTS demo_payments (
		id BIGSERIAL PRIMARY KEY,
		public_id UUID NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		amount BIGINT NOT NULL
	)`

// PaymentsTable maps Payment onto the demo_payments table.
func PaymentsTable() repository.Table[*Payment] {
	return repository.Table[*Payment]{
		Name: paymentsTableName,
		Columns: []repository.Column[*Payment]{
			repository.ColumnOf("public_id", func(m *Payment) *uuid.UUID { return &m.PublicID }),
			repository.ColumnOf("date", func(m *Payment) *time.Time { return &m.Date }),
			repository.ColumnOf("amount", func(m *Payment) *int64 { return &m.Amount }),
		},
		NewModel: func() *Payment { return new(Payment) },
	}
}

func buildPayment(date time.Time, amount int64) *Payment {
	return &Payment{
		PublicID: uuid.Must(uuid.NewV7()),
		Date:     date,
		Amount:   amount,
	}
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createPaymentsTableSQL)

	return err
}

// seedPayments inserts count payments, one InsertMany round-trip per batch.
func seedPayments(ctx context.Context, repo *postgresengine.Repository[*Payment], count int) error {
	const batchSize = 500

	now := time.Now()

	for seeded := 0; seeded < count; seeded += batchSize {
		size := batchSize
		if remaining := count - seeded; remaining < size {
			size = remaining
		}

		batch := make([]*Payment, 0, size)
		for i := 0; i < size; i++ {
			age := time.Duration(rand.Intn(30*24)) * time.Hour //nolint:gosec // Demo code - weak random is acceptable
			amount := int64(rand.Intn(10000) + 100)            //nolint:gosec // Demo code - weak random is acceptable
			batch = append(batch, buildPayment(now.Add(-age), amount))
		}

		if _, err := repo.InsertMany(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

// runWorkers inserts payments concurrently through a repository without a
// connection of its own: every task carries the pool in its context instead.
func runWorkers(ctx context.Context, pool *pgxpool.Pool, cfg Config, options []postgresengine.Option) error {
	ambientRepo, err := postgresengine.NewWithAmbientConnection(PaymentsTable(), options...)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for worker := 0; worker < cfg.Workers; worker++ {
		group.Go(func() error {
			taskCtx := repository.WithConnection(groupCtx, pool)

			for i := 0; i < cfg.PaymentsPerWorker; i++ {
				amount := int64(rand.Intn(10000) + 100) //nolint:gosec // Demo code - weak random is acceptable
				if _, insertErr := ambientRepo.Insert(taskCtx, buildPayment(time.Now(), amount)); insertErr != nil {
					return insertErr
				}
			}

			return nil
		})
	}

	return group.Wait()
}

// reportAggregates prints the ledger totals, reading through the given repository.
func reportAggregates(ctx context.Context, repo *postgresengine.Repository[*Payment]) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	large, err := repo.Count(ctx, repository.Col("amount").Gte(5000))
	if err != nil {
		return err
	}

	payments, err := repo.GetAll(ctx, nil, repository.Col("date").Asc())
	if err != nil {
		return err
	}

	var sum int64
	for _, payment := range payments {
		sum += payment.Amount
	}

	log.Printf("Ledger holds %d payments, %d of them with an amount of at least 5000", total, large)
	log.Printf("Total ledger amount: %d", sum)

	if len(payments) > 0 {
		log.Printf("Oldest payment: %s, newest payment: %s",
			payments[0].Date.Format(time.RFC3339),
			payments[len(payments)-1].Date.Format(time.RFC3339))
	}

	return nil
}
