package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kosyan62/repka/repository/postgresengine"
	"github.com/kosyan62/repka/testutil/fixtures"
)

// GivenUniqueID generates a unique UUID for testing.
func GivenUniqueID(t testing.TB) uuid.UUID {
	publicID, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return publicID
}

// FixtureDate returns a deterministic timestamp for test data, offset by the
// given number of days.
func FixtureDate(days int) time.Time {
	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	return base.AddDate(0, 0, days)
}

// GivenTransactionInserted inserts one transaction and returns it with its
// identity assigned.
func GivenTransactionInserted(
	t testing.TB,
	ctx context.Context, //nolint:revive
	repo *postgresengine.Repository[*fixtures.Transaction],
	days int,
	price int64,
) *fixtures.Transaction {

	transaction, err := repo.Insert(ctx, fixtures.BuildTransaction(FixtureDate(days), price))
	assert.NoError(t, err, "error in arranging test data")

	return transaction
}

// GivenTransactionsInserted inserts count transactions one day apart with
// prices 100, 200, 300, ... and returns them in insertion order.
func GivenTransactionsInserted(
	t testing.TB,
	ctx context.Context, //nolint:revive
	repo *postgresengine.Repository[*fixtures.Transaction],
	count int,
) []*fixtures.Transaction {

	transactions := make([]*fixtures.Transaction, 0, count)
	for i := 0; i < count; i++ {
		transactions = append(transactions, fixtures.BuildTransaction(FixtureDate(i), int64(100*(i+1))))
	}

	inserted, err := repo.InsertMany(ctx, transactions)
	assert.NoError(t, err, "error in arranging test data")

	return inserted
}

// FixtureReceiptItems returns a small deterministic set of receipt line items.
func FixtureReceiptItems() []fixtures.ReceiptItem {
	return []fixtures.ReceiptItem{
		{Name: "espresso", Quantity: 2, Price: 250},
		{Name: "croissant", Quantity: 1, Price: 320},
	}
}
