package fixtures

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

// DDL for the fixture tables, one statement per constant because the pgx
// extended protocol rejects multi-statement strings.
const (
	createTransactionsTableSQL = `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			date TIMESTAMPTZ NOT NULL,
			price BIGINT NOT NULL
		)`

	createTasksTableSQL = `
		CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			priority BIGSERIAL
		)`

	createReceiptsTableSQL = `
		CREATE TABLE IF NOT EXISTS receipts (
			id BIGSERIAL PRIMARY KEY,
			public_id UUID NOT NULL,
			items JSONB NOT NULL DEFAULT '[]'
		)`

	truncateFixtureTablesSQL = `TRUNCATE TABLE transactions, tasks, receipts RESTART IDENTITY`
)

// EnsureFixtureTables creates the fixture tables if they do not exist yet.
func EnsureFixtureTables(t testing.TB, conn any) {
	statements := []string{
		createTransactionsTableSQL,
		createTasksTableSQL,
		createReceiptsTableSQL,
	}

	for _, statement := range statements {
		execSchemaStatement(t, conn, statement)
	}
}

// TruncateFixtureTables empties the fixture tables and restarts their
// sequences for test isolation.
func TruncateFixtureTables(t testing.TB, conn any) {
	execSchemaStatement(t, conn, truncateFixtureTablesSQL)
}

func execSchemaStatement(t testing.TB, conn any, statement string) {
	switch c := conn.(type) {
	case *pgxpool.Pool:
		_, err := c.Exec(context.Background(), statement)
		assert.NoError(t, err, "error executing fixture schema statement")

	case *sqlx.DB:
		_, err := c.Exec(statement)
		assert.NoError(t, err, "error executing fixture schema statement")

	default:
		panic(fmt.Sprintf("unsupported connection type: %T", c))
	}
}
