package postgresengine

import (
	"context"

	"github.com/kosyan62/repka/repository"
)

// GetAll returns the models of all rows matching every filter, in the given
// order. Without orders the rows come back in the backend's order. The
// result is never nil; no matching rows yield an empty slice.
func (r *Repository[M]) GetAll(
	ctx context.Context,
	filters []repository.Filter,
	orders ...repository.Order,
) ([]M, error) {

	return r.selectModels(ctx, operationGetAll, filters, orders, 0)
}

// First returns the model of the first row matching every filter, in the
// given order. Absence is reported through the boolean, never as an error.
func (r *Repository[M]) First(
	ctx context.Context,
	filters []repository.Filter,
	orders ...repository.Order,
) (M, bool, error) {

	return r.selectFirst(ctx, operationFirst, filters, orders)
}

// GetByID returns the model with the given identifier. Absence is reported
// through the boolean, never as an error.
func (r *Repository[M]) GetByID(ctx context.Context, id int64) (M, bool, error) {
	return r.selectFirst(ctx, operationGetByID, []repository.Filter{repository.ColID().Eq(id)}, nil)
}

// GetByIDs returns the models with the given identifiers, in the given order.
// Identifiers without a matching row are skipped silently; an empty id list
// returns an empty result without touching the database.
func (r *Repository[M]) GetByIDs(ctx context.Context, ids []int64, orders ...repository.Order) ([]M, error) {
	if len(ids) == 0 {
		return make([]M, 0), nil
	}

	return r.selectModels(ctx, operationGetByIDs, []repository.Filter{repository.ColID().In(ids)}, orders, 0)
}

// GetAllIDs returns the identifiers of all rows matching every filter, in
// ascending identifier order.
func (r *Repository[M]) GetAllIDs(ctx context.Context, filters ...repository.Filter) ([]int64, error) {
	sqlQuery, buildErr := r.buildSelectIDsQuery(filters)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operationGetAllIDs, errorTypeBuildQuery)

		return nil, buildErr
	}

	rows, duration, queryErr := r.executeQuery(ctx, operationGetAllIDs, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.closeRows(ctx, rows)

	ids, scanErr := r.scanIDs(ctx, operationGetAllIDs, rows)
	if scanErr != nil {
		return nil, scanErr
	}

	r.finishQuery(ctx, operationGetAllIDs, duration, len(ids))

	return ids, nil
}

// Count returns the number of rows matching every filter.
func (r *Repository[M]) Count(ctx context.Context, filters ...repository.Filter) (int64, error) {
	sqlQuery, buildErr := r.buildCountQuery(filters)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operationCount, errorTypeBuildQuery)

		return 0, buildErr
	}

	var count int64

	duration, scalarErr := r.executeScalar(ctx, operationCount, sqlQuery, &count)
	if scalarErr != nil {
		return 0, scalarErr
	}

	r.recordDuration(ctx, metricQueryDuration, duration, operationCount, statusSuccess)

	r.logOperation(
		ctx,
		operationCount,
		logAttrDurationMS, r.toMilliseconds(duration),
		logAttrRowCount, count)

	return count, nil
}

// Exists reports whether at least one row matches every filter.
func (r *Repository[M]) Exists(ctx context.Context, filters ...repository.Filter) (bool, error) {
	sqlQuery, buildErr := r.buildExistsQuery(filters)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operationExists, errorTypeBuildQuery)

		return false, buildErr
	}

	var exists bool

	duration, scalarErr := r.executeScalar(ctx, operationExists, sqlQuery, &exists)
	if scalarErr != nil {
		return false, scalarErr
	}

	r.recordDuration(ctx, metricQueryDuration, duration, operationExists, statusSuccess)

	r.logOperation(
		ctx,
		operationExists,
		logAttrDurationMS, r.toMilliseconds(duration),
		logAttrExists, exists)

	return exists, nil
}

// GetOrCreate returns the first row matching every filter, creating one from
// the defaults when no row matches. The boolean reports whether a row was
// created.
//
// Lookup and insert are two separate statements, not one atomic upsert:
// concurrent callers can both miss and both create. With a unique constraint
// on the filtered columns the second insert fails with the constraint
// violation joined into the returned error.
func (r *Repository[M]) GetOrCreate(
	ctx context.Context,
	defaults repository.Changes,
	filters ...repository.Filter,
) (M, bool, error) {

	var zero M

	existing, found, firstErr := r.First(ctx, filters)
	if firstErr != nil {
		return zero, false, firstErr
	}

	if found {
		return existing, false, nil
	}

	created := r.table.NewModel()

	if applyErr := r.table.ApplyChanges(created, defaults); applyErr != nil {
		r.logError(ctx, logMsgApplyChangesFailed, applyErr)
		r.recordError(ctx, operationGetOrCreate, errorTypePrecondition)

		return zero, false, applyErr
	}

	inserted, insertErr := r.Insert(ctx, created)
	if insertErr != nil {
		return zero, false, insertErr
	}

	return inserted, true, nil
}

// selectModels implements the shared query flow of the model-returning read
// operations.
func (r *Repository[M]) selectModels(
	ctx context.Context,
	operation string,
	filters []repository.Filter,
	orders []repository.Order,
	limit uint,
) ([]M, error) {

	sqlQuery, buildErr := r.buildSelectQuery(filters, orders, limit)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operation, errorTypeBuildQuery)

		return nil, buildErr
	}

	rows, duration, queryErr := r.executeQuery(ctx, operation, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.closeRows(ctx, rows)

	models, scanErr := r.scanModels(ctx, operation, rows)
	if scanErr != nil {
		return nil, scanErr
	}

	r.finishQuery(ctx, operation, duration, len(models))

	return models, nil
}

// selectFirst narrows selectModels to the first matching row.
func (r *Repository[M]) selectFirst(
	ctx context.Context,
	operation string,
	filters []repository.Filter,
	orders []repository.Order,
) (M, bool, error) {

	var zero M

	models, selectErr := r.selectModels(ctx, operation, filters, orders, 1)
	if selectErr != nil {
		return zero, false, selectErr
	}

	if len(models) == 0 {
		return zero, false, nil
	}

	return models[0], true, nil
}
