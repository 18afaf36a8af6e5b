package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/testutil/fixtures"
	. "github.com/kosyan62/repka/testutil/helper"                 //nolint:revive
	. "github.com/kosyan62/repka/testutil/helper/postgreswrapper" //nolint:revive
)

func Benchmark_Insert_With_ManyRows_InTheTable(b *testing.B) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(b, fixtures.TransactionsTable())
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(b, wrapper)
	GivenTransactionsInserted(b, ctx, repo, 1000)

	// act
	b.Run("insert 1 row", func(b *testing.B) {
		b.ResetTimer()
		var insertTime time.Duration

		for i := 0; i < b.N; i++ {
			b.StopTimer()
			transaction := fixtures.BuildTransaction(FixtureDate(i%365), 250)

			b.StartTimer()
			start := time.Now()
			inserted, err := repo.Insert(ctx, transaction)
			insertTime += time.Since(start)
			b.StopTimer()

			assert.NoError(b, err)

			dbErr := repo.DeleteByID(ctx, inserted.ID)
			assert.NoError(b, dbErr)
		}

		b.ReportMetric(float64(insertTime.Milliseconds())/float64(b.N), "ms/insert-op")
	})
}

func Benchmark_InsertMany_With_ManyRows_InTheTable(b *testing.B) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(b, fixtures.TransactionsTable())
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(b, wrapper)
	GivenTransactionsInserted(b, ctx, repo, 1000)

	const batchSize = 100

	// act
	b.Run("insert 100 rows", func(b *testing.B) {
		b.ResetTimer()
		var insertTime time.Duration

		for i := 0; i < b.N; i++ {
			b.StopTimer()
			transactions := make([]*fixtures.Transaction, 0, batchSize)
			for j := 0; j < batchSize; j++ {
				transactions = append(transactions, fixtures.BuildTransaction(FixtureDate(j%365), 250))
			}

			b.StartTimer()
			start := time.Now()
			inserted, err := repo.InsertMany(ctx, transactions)
			insertTime += time.Since(start)
			b.StopTimer()

			assert.NoError(b, err)
			assert.Len(b, inserted, batchSize)

			ids := make([]int64, 0, len(inserted))
			for _, transaction := range inserted {
				ids = append(ids, transaction.ID)
			}

			dbErr := repo.DeleteByIDs(ctx, ids)
			assert.NoError(b, dbErr)
		}

		b.ReportMetric(float64(insertTime.Milliseconds())/float64(b.N), "ms/insert-op")
	})
}

func Benchmark_GetAll_With_ManyRows_InTheTable(b *testing.B) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(b, fixtures.TransactionsTable())
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(b, wrapper)
	GivenTransactionsInserted(b, ctx, repo, 1000)

	filters := []repository.Filter{repository.Col("price").Gte(50000)}

	// act
	b.Run("query", func(b *testing.B) {
		b.ResetTimer()
		var queryTime time.Duration

		for i := 0; i < b.N; i++ {
			b.StartTimer()
			start := time.Now()
			_, queryErr := repo.GetAll(ctx, filters)
			queryTime += time.Since(start)
			b.StopTimer()
			assert.NoError(b, queryErr)
		}

		b.ReportMetric(float64(queryTime.Milliseconds())/float64(b.N), "ms/query-op")
	})
}

func Benchmark_GetByID_With_ManyRows_InTheTable(b *testing.B) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(b, fixtures.TransactionsTable())
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(b, wrapper)
	seeded := GivenTransactionsInserted(b, ctx, repo, 1000)
	transactionID := seeded[len(seeded)/2].ID

	// act
	b.Run("get by id", func(b *testing.B) {
		b.ResetTimer()
		var getTime time.Duration

		for i := 0; i < b.N; i++ {
			b.StartTimer()
			start := time.Now()
			_, found, queryErr := repo.GetByID(ctx, transactionID)
			getTime += time.Since(start)
			b.StopTimer()
			assert.NoError(b, queryErr)
			assert.True(b, found)
		}

		b.ReportMetric(float64(getTime.Milliseconds())/float64(b.N), "ms/get-op")
	})
}
