package postgresengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine"
	"github.com/kosyan62/repka/testutil/fixtures"
	. "github.com/kosyan62/repka/testutil/helper"                 //nolint:revive
	. "github.com/kosyan62/repka/testutil/helper/postgreswrapper" //nolint:revive
)

func Test_Observability_Repository_WithLogger_LogsQueries(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithLogger(logger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "get_all should log exactly one SQL statement and one operational statement")
	assert.True(t, testHandler.HasDebugLog("executed sql for: get_all"), "should log with correct message")
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: get_all").
			WithDurationMS().
			Assert(), "should log with duration_ms attribute",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("repository operation: get_all completed").
			WithDurationMS().
			WithRowCount().
			Assert(), "should log completion with duration and row count",
	)
}

func Test_Observability_Repository_WithLogger_LogsInserts(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithLogger(logger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.Insert(ctxWithTimeout, fixtures.BuildTransaction(FixtureDate(0), 250))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "insert should log exactly one SQL statement and one operational statement")
	assert.True(t, testHandler.HasDebugLog("executed sql for: insert"), "should log with correct message")
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: insert").
			WithDurationMS().
			Assert(), "should log with duration_ms attribute",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("repository operation: insert completed").
			WithDurationMS().
			WithRowsAffected().
			Assert(), "should log completion with duration and rows affected",
	)
}

func Test_Observability_Repository_WithLogger_LogsExistenceChecks(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithLogger(logger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	exists, err := repo.Exists(ctxWithTimeout, repository.Col("price").Eq(250))

	// assert
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "exists should log exactly one SQL statement and one operational statement")
	assert.True(t,
		testHandler.HasInfoLogWithMessage("repository operation: exists completed").
			WithDurationMS().
			WithExists().
			Assert(), "should log completion with duration and the existence flag",
	)
}

func Test_Observability_Repository_WithLogger_LogsEachStepOfGetOrCreate(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithLogger(logger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	defaults := repository.Changes{
		"date":  FixtureDate(0),
		"price": int64(250),
	}

	// act - no row matches, so the lookup is followed by an insert
	_, wasCreated, err := repo.GetOrCreate(ctxWithTimeout, defaults, repository.Col("price").Eq(250))

	// assert
	assert.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, 4, testHandler.GetRecordCount(), "lookup and insert should log exactly one SQL statement and one operational statement each")
	assert.True(t, testHandler.HasDebugLog("executed sql for: first"), "should log the lookup")
	assert.True(t, testHandler.HasDebugLog("executed sql for: insert"), "should log the insert")
	assert.True(t,
		testHandler.HasInfoLogWithMessage("repository operation: first completed").
			WithDurationMS().
			WithRowCount().
			Assert(), "should log lookup completion with duration and row count",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("repository operation: insert completed").
			WithDurationMS().
			WithRowsAffected().
			Assert(), "should log insert completion with duration and rows affected",
	)

	// act - a row matches now, so only the lookup runs
	testHandler.Reset()

	_, wasCreated, err = repo.GetOrCreate(ctxWithTimeout, defaults, repository.Col("price").Eq(250))

	// assert
	assert.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "a hit should log the lookup only")
	assert.False(t, testHandler.HasDebugLog("executed sql for: insert"), "a hit should not insert")
}

func Test_Observability_Repository_WithLogger_LogsErrorsCorrectly(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	table := fixtures.TransactionsTable()
	table.Name = "non_existent_table_2"

	wrapper := CreateWrapperWithTestConfig(t, table, postgresengine.WithLogger(logger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - attempt to query the non-existent table
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.Error(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "a failed query should log the SQL statement and the error")
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: get_all").
			WithDurationMS().
			Assert(), "should log the SQL statement even when it fails",
	)
	assert.True(t,
		testHandler.HasErrorLogWithMessage("database query execution failed").
			Assert(), "should log the database error with correct message",
	)
}

func Test_Observability_Repository_WithoutLogger_HandlesErrorsGracefully(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	table := fixtures.TransactionsTable()
	table.Name = "non_existent_table_no_logger"

	wrapper := CreateWrapperWithTestConfig(t, table)
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - the failure path must not panic without configured observability
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.Error(t, err)
}

func Test_Observability_Repository_WithMetrics_RecordsQueryMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)
	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.HasDurationRecordForMetric("repository_query_duration_seconds").
		WithOperation("get_all").
		WithStatus("success").
		WithTable("transactions").
		Assert(), "should record query duration metric with correct labels")
	assert.True(t, metricsCollector.HasValueRecordForMetric("repository_rows_returned").
		WithOperation("get_all").
		WithStatus("success").
		Assert(), "should record rows returned metric with correct labels")
}

func Test_Observability_Repository_WithMetrics_RecordsExecMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)
	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.Insert(ctxWithTimeout, fixtures.BuildTransaction(FixtureDate(0), 250))

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.HasDurationRecordForMetric("repository_exec_duration_seconds").
		WithOperation("insert").
		WithStatus("success").
		WithTable("transactions").
		Assert(), "should record exec duration metric with correct labels")
	assert.True(t, metricsCollector.HasValueRecordForMetric("repository_rows_affected").
		WithOperation("insert").
		WithStatus("success").
		Assert(), "should record rows affected metric with correct labels")
}

func Test_Observability_Repository_WithMetrics_RecordsErrorMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)

	table := fixtures.TransactionsTable()
	table.Name = "non_existent_table_3"

	wrapper := CreateWrapperWithTestConfig(t, table, postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - attempt to query the non-existent table
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.Error(t, err)
	assert.True(t, metricsCollector.HasDurationRecordForMetric("repository_query_duration_seconds").
		WithOperation("get_all").
		WithStatus("error").
		Assert(), "should record query duration metric with error status")
	assert.True(t, metricsCollector.HasCounterRecordForMetric("repository_database_errors_total").
		WithOperation("get_all").
		WithStatus("error").
		WithErrorType("query").
		WithTable("non_existent_table_3").
		Assert(), "should record database error counter with correct labels")
}

func Test_Observability_Repository_WithMetrics_RecordsRefusedOperations(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)
	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - delete without filters is refused before touching the database
	err := repo.Delete(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, err, repository.ErrMissingDeleteFilters)
	assert.True(t, metricsCollector.HasCounterRecordForMetric("repository_database_errors_total").
		WithOperation("delete").
		WithStatus("error").
		WithErrorType("precondition").
		Assert(), "should record a precondition error counter")
	assert.Zero(t, metricsCollector.GetDurationRecordCount(), "a refused operation should not record durations")
}

func Test_Observability_Repository_WithContextualLogger_LogsQueries(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	contextualLogger := NewContextualLoggerSpy(true)
	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.NoError(t, err)
	assert.True(t, contextualLogger.GetTotalRecordCount() >= 2, "contextual logger should record at least 2 log entries (debug SQL and info operation)")
	assert.True(t, contextualLogger.HasDebugLog("executed sql for: get_all"), "should log SQL execution with correct message")
	assert.True(t, contextualLogger.HasInfoLog("repository operation: get_all completed"), "should log operation completion")
}

func Test_Observability_Repository_WithContextualLogger_LogsErrors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	contextualLogger := NewContextualLoggerSpy(true)

	table := fixtures.TransactionsTable()
	table.Name = "non_existent_table_contextual"

	wrapper := CreateWrapperWithTestConfig(t, table, postgresengine.WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - attempt to query the non-existent table
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.Error(t, err)
	assert.True(t, contextualLogger.GetTotalRecordCount() >= 1, "contextual logger should record at least 1 error log entry")
	assert.True(t, contextualLogger.HasErrorLog("database query execution failed"), "should log database error with correct message")
}

func Test_Observability_Repository_WithBothLoggers_ReceivesRecordsOnBoth(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper := CreateWrapperWithTestConfig(
		t,
		fixtures.TransactionsTable(),
		postgresengine.WithLogger(logger),
		postgresengine.WithContextualLogger(contextualLogger),
	)
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "the plain logger should receive both records")
	assert.Equal(t, 2, contextualLogger.GetTotalRecordCount(), "the contextual logger should receive both records")
}

func Test_Observability_Repository_WithMetrics_FallbackToNonContextual(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The basic metrics collector does not implement ContextualMetricsCollector,
	// so the engine must fall back to the plain collection methods.
	metricsCollector := NewMetricsCollectorSpy(true)

	table := fixtures.TransactionsTable()
	table.Name = "non_existent_table_fallback"

	wrapper := CreateWrapperWithTestConfig(t, table, postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// act - attempt to query non-existent table to trigger fallback metric recording
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.Error(t, err)
	assert.False(t, metricsCollector.SupportsContextual(), "basic spy should not support contextual interface")
	assert.True(t, metricsCollector.HasDurationRecordForMetric("repository_query_duration_seconds").
		WithOperation("get_all").
		WithStatus("error").
		Assert(), "should record query duration via fallback path")
	assert.True(t, metricsCollector.HasCounterRecordForMetric("repository_database_errors_total").
		WithOperation("get_all").
		WithStatus("error").
		Assert(), "should record error counter via fallback path")
}

func Test_Observability_Repository_WithContextualMetrics_UsesContextualPath(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewContextualMetricsCollectorSpy(true)
	wrapper := CreateWrapperWithTestConfig(t, fixtures.TransactionsTable(), postgresengine.WithMetrics(metricsCollector))
	defer wrapper.Close()
	repo := wrapper.GetRepository()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := repo.GetAll(ctxWithTimeout, nil)

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.SupportsContextual(), "contextual spy should support contextual interface")
	assert.Positive(t, metricsCollector.GetContextCallCount(), "the engine should prefer the context-aware collection methods")
	assert.True(t, metricsCollector.HasDurationRecordForMetric("repository_query_duration_seconds").
		WithOperation("get_all").
		WithStatus("success").
		Assert(), "should record query duration via contextual path")
}
