package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine/internal/adapters"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// Repository provides typed CRUD access to the rows of one Postgres table,
// described by a repository.Table definition. The connection is either bound
// at construction time or resolved per call from an ambient context slot.
//
// Supported connection types: *pgxpool.Pool and *sqlx.DB.
//
// A Repository carries no mutable state, so a single instance is safe for
// concurrent use by any number of goroutines.
type Repository[M repository.Model] struct {
	table            repository.Table[M]
	conn             any
	db               adapters.DBAdapter
	connectionVar    repository.ConnectionVar
	logger           repository.Logger
	contextualLogger repository.ContextualLogger
	metricsCollector repository.MetricsCollector
}

// New creates a Repository for the given table on top of an explicit
// database connection. The connection type is inspected when an operation
// executes, so an unsupported type surfaces as ErrUnsupportedConnectionType
// from the operation, not from the constructor.
//
// Example usage:
//
//	repo, err := postgresengine.New(transactionsTable, pool, postgresengine.WithLogger(logger))
func New[M repository.Model](table repository.Table[M], connection any, options ...Option) (*Repository[M], error) {
	if connection == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(table, connection, nil, options...)
}

// NewFromPGXPool creates a Repository bound to a pgx connection pool.
func NewFromPGXPool[M repository.Model](table repository.Table[M], pool *pgxpool.Pool, options ...Option) (*Repository[M], error) {
	if pool == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(table, pool, adapters.NewPGXAdapter(pool), options...)
}

// NewFromSQLX creates a Repository bound to an sqlx database handle.
func NewFromSQLX[M repository.Model](table repository.Table[M], db *sqlx.DB, options ...Option) (*Repository[M], error) {
	if db == nil {
		return nil, repository.ErrNilDatabaseConnection
	}

	return newRepository(table, db, adapters.NewSQLXAdapter(db), options...)
}

// NewWithAmbientConnection creates a Repository without a bound connection.
// Every operation resolves the connection from its context through the
// configured repository.ConnectionVar, defaulting to
// repository.DefaultConnectionVar. Operations on a context without a stored
// connection fail with ErrNoConnectionInContext.
//
// Example usage:
//
//	repo, err := postgresengine.NewWithAmbientConnection(transactionsTable)
//	ctx = repository.WithConnection(ctx, pool)
//	all, err := repo.GetAll(ctx, nil)
func NewWithAmbientConnection[M repository.Model](table repository.Table[M], options ...Option) (*Repository[M], error) {
	return newRepository(table, nil, nil, options...)
}

func newRepository[M repository.Model](
	table repository.Table[M],
	conn any,
	db adapters.DBAdapter,
	options ...Option,
) (*Repository[M], error) {

	if validateErr := table.Validate(); validateErr != nil {
		return nil, validateErr
	}

	config, optionErr := applyOptions(options)
	if optionErr != nil {
		return nil, optionErr
	}

	return &Repository[M]{
		table:            table,
		conn:             conn,
		db:               db,
		connectionVar:    config.connectionVar,
		logger:           config.logger,
		contextualLogger: config.contextualLogger,
		metricsCollector: config.metricsCollector,
	}, nil
}

// Table returns the table definition the Repository operates on.
func (r *Repository[M]) Table() repository.Table[M] {
	return r.table
}

// Connection returns the raw database connection, resolved from the context
// slot for ambient repositories. It exists for custom statements that go
// beyond the Repository operations and branch on the connection type
// themselves.
func (r *Repository[M]) Connection(ctx context.Context) (any, error) {
	if r.conn != nil {
		return r.conn, nil
	}

	conn, ok := r.connectionVar.ConnectionFrom(ctx)
	if !ok {
		return nil, errors.Join(repository.ErrNoConnectionInContext, fmt.Errorf("slot %q", r.connectionVar.Name()))
	}

	return conn, nil
}

// adapter resolves the DBAdapter executing the statements of one operation.
func (r *Repository[M]) adapter(ctx context.Context) (adapters.DBAdapter, error) {
	if r.db != nil {
		return r.db, nil
	}

	conn, connErr := r.Connection(ctx)
	if connErr != nil {
		return nil, connErr
	}

	db, resolveErr := adapters.Resolve(conn)
	if resolveErr != nil {
		return nil, errors.Join(repository.ErrUnsupportedConnectionType, resolveErr)
	}

	return db, nil
}

// resolveAdapter wraps adapter with the error accounting shared by all
// operations.
func (r *Repository[M]) resolveAdapter(ctx context.Context, operation string) (adapters.DBAdapter, error) {
	db, adapterErr := r.adapter(ctx)
	if adapterErr != nil {
		r.logError(ctx, logMsgResolveConnFailed, adapterErr)
		r.recordError(ctx, operation, errorTypeConnection)

		return nil, adapterErr
	}

	return db, nil
}

// executeQuery runs a row-returning SQL statement and hands back the rows
// with timing information.
func (r *Repository[M]) executeQuery(ctx context.Context, operation string, sqlQuery sqlQueryString) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	db, adapterErr := r.resolveAdapter(ctx, operation)
	if adapterErr != nil {
		return nil, 0, adapterErr
	}

	start := time.Now()
	rows, queryErr := db.Query(ctx, sqlQuery)
	duration := time.Since(start)

	r.logDebugSQL(ctx, operation, sqlQuery, duration)

	if queryErr != nil {
		r.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		r.recordDuration(ctx, durationMetricFor(operation), duration, operation, statusError)
		r.recordError(ctx, operation, errorTypeQuery)

		return nil, duration, errors.Join(repository.ErrQueryingRowsFailed, queryErr)
	}

	return rows, duration, nil
}

// executeScalar runs a single-value SQL statement into dest with timing
// information.
func (r *Repository[M]) executeScalar(ctx context.Context, operation string, sqlQuery sqlQueryString, dest any) (
	time.Duration,
	error,
) {

	db, adapterErr := r.resolveAdapter(ctx, operation)
	if adapterErr != nil {
		return 0, adapterErr
	}

	start := time.Now()
	scalarErr := db.QueryScalar(ctx, sqlQuery, dest)
	duration := time.Since(start)

	r.logDebugSQL(ctx, operation, sqlQuery, duration)

	if scalarErr != nil {
		r.logError(ctx, logMsgDBQueryFailed, scalarErr, logAttrQuery, sqlQuery)
		r.recordDuration(ctx, durationMetricFor(operation), duration, operation, statusError)
		r.recordError(ctx, operation, errorTypeQuery)

		return duration, errors.Join(repository.ErrQueryingRowsFailed, scalarErr)
	}

	return duration, nil
}

// executeStatement runs a SQL statement without result rows and reports the
// affected row count with timing information.
func (r *Repository[M]) executeStatement(ctx context.Context, operation string, sqlQuery sqlQueryString) (
	rowsAffectedInt64,
	time.Duration,
	error,
) {

	db, adapterErr := r.resolveAdapter(ctx, operation)
	if adapterErr != nil {
		return 0, 0, adapterErr
	}

	start := time.Now()
	result, execErr := db.Exec(ctx, sqlQuery)
	duration := time.Since(start)

	r.logDebugSQL(ctx, operation, sqlQuery, duration)

	if execErr != nil {
		r.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		r.recordDuration(ctx, durationMetricFor(operation), duration, operation, statusError)
		r.recordError(ctx, operation, errorTypeExec)

		return 0, duration, errors.Join(repository.ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		r.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		r.recordError(ctx, operation, errorTypeRowsAffected)

		return 0, duration, errors.Join(repository.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows closes the rows and logs a warning if closing fails.
func (r *Repository[M]) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		r.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// scanModels drains the rows into freshly built models. The identifier is
// scanned first, the mapped columns behind it, matching
// repository.Table.SelectColumns.
func (r *Repository[M]) scanModels(ctx context.Context, operation string, rows adapters.DBRows) ([]M, error) {
	models := make([]M, 0)

	for rows.Next() {
		m := r.table.NewModel()

		var id int64

		targets := make([]any, 0, len(r.table.Columns)+1)
		targets = append(targets, &id)
		targets = append(targets, r.table.ScanTargets(m)...)

		if scanErr := rows.Scan(targets...); scanErr != nil {
			r.logError(ctx, logMsgScanRowFailed, scanErr)
			r.recordError(ctx, operation, errorTypeScan)

			return nil, errors.Join(repository.ErrScanningDBRowFailed, scanErr)
		}

		m.SetID(id)
		models = append(models, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logError(ctx, logMsgRowIterationFailed, rowsErr)
		r.recordError(ctx, operation, errorTypeQuery)

		return nil, errors.Join(repository.ErrQueryingRowsFailed, rowsErr)
	}

	return models, nil
}

// scanIDs drains a single-column identifier projection.
func (r *Repository[M]) scanIDs(ctx context.Context, operation string, rows adapters.DBRows) ([]int64, error) {
	ids := make([]int64, 0)

	for rows.Next() {
		var id int64

		if scanErr := rows.Scan(&id); scanErr != nil {
			r.logError(ctx, logMsgScanRowFailed, scanErr)
			r.recordError(ctx, operation, errorTypeScan)

			return nil, errors.Join(repository.ErrScanningDBRowFailed, scanErr)
		}

		ids = append(ids, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logError(ctx, logMsgRowIterationFailed, rowsErr)
		r.recordError(ctx, operation, errorTypeQuery)

		return nil, errors.Join(repository.ErrQueryingRowsFailed, rowsErr)
	}

	return ids, nil
}

// finishQuery records the success metrics and the operational log line
// shared by the read operations.
func (r *Repository[M]) finishQuery(ctx context.Context, operation string, duration time.Duration, rowCount int) {
	r.recordDuration(ctx, metricQueryDuration, duration, operation, statusSuccess)
	r.recordValue(ctx, metricRowsReturned, float64(rowCount), operation, statusSuccess)

	r.logOperation(
		ctx,
		operation,
		logAttrDurationMS, r.toMilliseconds(duration),
		logAttrRowCount, rowCount)
}

// finishStatement records the success metrics and the operational log line
// shared by the write operations.
func (r *Repository[M]) finishStatement(ctx context.Context, operation string, duration time.Duration, rowsAffected rowsAffectedInt64) {
	r.recordDuration(ctx, metricExecDuration, duration, operation, statusSuccess)
	r.recordValue(ctx, metricRowsAffected, float64(rowsAffected), operation, statusSuccess)

	r.logOperation(
		ctx,
		operation,
		logAttrDurationMS, r.toMilliseconds(duration),
		logAttrRowsAffected, rowsAffected)
}
