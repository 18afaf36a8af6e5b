package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/kosyan62/repka/repository"
)

const (
	logMsgBuildQueryFailed         = "failed to build query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database statement execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgRowIterationFailed       = "database row iteration failed"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgResolveConnFailed        = "failed to resolve database connection"
	logMsgSerializeFailed          = "failed to serialize model"
	logMsgApplyChangesFailed       = "failed to apply change set"
	logMsgInsertReturnedTooFewRows = "insert returned fewer rows than inserted models"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "repository operation: "
	logMsgCompletedSuffix          = " completed"

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrTable        = "table"
	logAttrDurationMS   = "duration_ms"
	logAttrRowCount     = "row_count"
	logAttrRowsAffected = "rows_affected"
	logAttrExists       = "exists"

	operationInsert        = "insert"
	operationInsertMany    = "insert_many"
	operationUpdate        = "update"
	operationUpdatePartial = "update_partial"
	operationFirst         = "first"
	operationGetAll        = "get_all"
	operationGetAllIDs     = "get_all_ids"
	operationGetByID       = "get_by_id"
	operationGetByIDs      = "get_by_ids"
	operationCount         = "count"
	operationExists        = "exists"
	operationGetOrCreate   = "get_or_create"
	operationDelete        = "delete"
	operationDeleteByID    = "delete_by_id"
	operationDeleteByIDs   = "delete_by_ids"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeConnection   = "connection"
	errorTypeBuildQuery   = "build_query"
	errorTypeQuery        = "query"
	errorTypeExec         = "exec"
	errorTypeScan         = "scan"
	errorTypeRowsAffected = "rows_affected"
	errorTypeSerialize    = "serialize"
	errorTypePrecondition = "precondition"

	metricQueryDuration  = "repository_query_duration_seconds"
	metricExecDuration   = "repository_exec_duration_seconds"
	metricRowsReturned   = "repository_rows_returned"
	metricRowsAffected   = "repository_rows_affected"
	metricDatabaseErrors = "repository_database_errors_total"

	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"
	labelTable     = "table"
)

// logDebugSQL logs SQL statements with execution time at debug level on both
// configured loggers.
func (r *Repository[M]) logDebugSQL(ctx context.Context, operation, sqlQuery string, duration time.Duration) {
	if r.logger != nil {
		r.logger.Debug(logMsgSQLExecuted+operation, logAttrDurationMS, r.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, logAttrDurationMS, r.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs the completion of an operation at info level on both
// configured loggers.
func (r *Repository[M]) logOperation(ctx context.Context, operation string, args ...any) {
	msg := logMsgOperation + operation + logMsgCompletedSuffix

	if r.logger != nil {
		r.logger.Info(msg, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// logWarn logs non-critical issues at warn level on both configured loggers.
func (r *Repository[M]) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

// logError logs error information at error level on both configured loggers.
func (r *Repository[M]) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrTable, r.table.Name}
	allArgs = append(allArgs, args...)

	if r.logger != nil {
		r.logger.Error(msg, allArgs...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (r *Repository[M]) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// durationMetricFor maps an operation to its duration metric, mirroring the
// success-path accounting of finishQuery and finishStatement.
func durationMetricFor(operation string) string {
	switch operation {
	case operationInsert, operationInsertMany, operationUpdate, operationUpdatePartial,
		operationDelete, operationDeleteByID, operationDeleteByIDs:

		return metricExecDuration
	default:
		return metricQueryDuration
	}
}

// metricLabels builds the common label set for a recorded metric.
func (r *Repository[M]) metricLabels(operation, status string) map[string]string {
	return map[string]string{
		labelOperation: operation,
		labelStatus:    status,
		labelTable:     r.table.Name,
	}
}

// recordDuration records a duration metric if a collector is configured,
// using the context-aware method when the collector supports it.
func (r *Repository[M]) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := r.metricLabels(operation, status)

	if contextualCollector, ok := r.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	r.metricsCollector.RecordDuration(metric, duration, labels)
}

// recordValue records a value metric if a collector is configured,
// using the context-aware method when the collector supports it.
func (r *Repository[M]) recordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := r.metricLabels(operation, status)

	if contextualCollector, ok := r.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	r.metricsCollector.RecordValue(metric, value, labels)
}

// recordError counts a failed operation if a collector is configured,
// using the context-aware method when the collector supports it.
func (r *Repository[M]) recordError(ctx context.Context, operation, errorType string) {
	if r.metricsCollector == nil {
		return
	}

	labels := r.metricLabels(operation, statusError)
	labels[labelErrorType] = errorType

	if contextualCollector, ok := r.metricsCollector.(repository.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	r.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}
