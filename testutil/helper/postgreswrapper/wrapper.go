package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine"
	"github.com/kosyan62/repka/testutil/config"
	"github.com/kosyan62/repka/testutil/fixtures"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper interface to abstract over different adapter types
type Wrapper[M repository.Model] interface {
	GetRepository() *postgresengine.Repository[M]
	Connection() any
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper[M repository.Model] struct {
	pool *pgxpool.Pool
	repo *postgresengine.Repository[M]
}

func (w *PGXPoolWrapper[M]) GetRepository() *postgresengine.Repository[M] {
	return w.repo
}

func (w *PGXPoolWrapper[M]) Connection() any {
	return w.pool
}

func (w *PGXPoolWrapper[M]) Close() {
	w.pool.Close()
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper[M repository.Model] struct {
	db   *sqlx.DB
	repo *postgresengine.Repository[M]
}

func (w *SQLXWrapper[M]) GetRepository() *postgresengine.Repository[M] {
	return w.repo
}

func (w *SQLXWrapper[M]) Connection() any {
	return w.db
}

func (w *SQLXWrapper[M]) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the environment variable
// and ensures the fixture tables exist.
func CreateWrapperWithTestConfig[M repository.Model](
	t testing.TB,
	table repository.Table[M],
	options ...postgresengine.Option,
) Wrapper[M] {

	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		repo, err := postgresengine.NewFromPGXPool(table, connPool, options...)
		assert.NoError(t, err, "error creating repository")

		fixtures.EnsureFixtureTables(t, connPool)

		return &PGXPoolWrapper[M]{pool: connPool, repo: repo}

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()

		repo, err := postgresengine.NewFromSQLX(table, db, options...)
		assert.NoError(t, err, "error creating repository")

		fixtures.EnsureFixtureTables(t, db)

		return &SQLXWrapper[M]{db: db, repo: repo}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// TryCreateRepository tries to create a repository for the given table and returns the error (for testing error cases)
func TryCreateRepository[M repository.Model](
	t testing.TB,
	table repository.Table[M],
	options ...postgresengine.Option,
) error {

	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")
		defer connPool.Close()

		_, err = postgresengine.NewFromPGXPool(table, connPool, options...)

		return err

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()
		defer func(db *sqlx.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresengine.NewFromSQLX(table, db, options...)

		return err

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CreateTestConnection creates a raw connection of the adapter type selected by the
// environment variable, for ambient connection tests. The returned func closes it.
func CreateTestConnection(t testing.TB) (any, func()) {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		fixtures.EnsureFixtureTables(t, connPool)

		return connPool, connPool.Close

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()

		fixtures.EnsureFixtureTables(t, db)

		return db, func() {
			_ = db.Close() // ignore error
		}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CleanUp truncates the fixture tables for the given wrapper
func CleanUp[M repository.Model](t testing.TB, wrapper Wrapper[M]) {
	fixtures.TruncateFixtureTables(t, wrapper.Connection())
}
