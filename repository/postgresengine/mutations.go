package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine/internal/adapters"
)

// Insert writes the model as a new row and assigns the generated identifier
// to it. On adapters that return inserted columns, database-populated
// columns named by IgnoreOnInsert are read back into the model as well; on
// other adapters those attributes keep their in-memory values.
func (r *Repository[M]) Insert(ctx context.Context, m M) (M, error) {
	var zero M

	if insertErr := r.insertModels(ctx, operationInsert, []M{m}); insertErr != nil {
		return zero, insertErr
	}

	return m, nil
}

// InsertMany writes the models with a single multi-row insert and assigns
// the generated identifiers in input order. An empty input returns without
// touching the database. Read-back of IgnoreOnInsert columns follows the
// same adapter capability as Insert.
func (r *Repository[M]) InsertMany(ctx context.Context, models []M) ([]M, error) {
	if len(models) == 0 {
		return make([]M, 0), nil
	}

	if insertErr := r.insertModels(ctx, operationInsertMany, models); insertErr != nil {
		return nil, insertErr
	}

	return models, nil
}

// Update persists all mapped columns of the model, keyed on its identifier.
// There is no dirty tracking; the full row is written.
func (r *Repository[M]) Update(ctx context.Context, m M) error {
	if m.GetID() == 0 {
		r.recordError(ctx, operationUpdate, errorTypePrecondition)

		return repository.ErrMissingIdentity
	}

	record, serializeErr := r.table.RowFromModel(m)
	if serializeErr != nil {
		r.logError(ctx, logMsgSerializeFailed, serializeErr)
		r.recordError(ctx, operationUpdate, errorTypeSerialize)

		return serializeErr
	}

	return r.updateRecord(ctx, operationUpdate, m.GetID(), record)
}

// UpdatePartial assigns the change set to the model and persists exactly the
// named columns. All other in-memory attributes stay untouched in storage,
// even when they differ from the stored row. An empty change set is a no-op.
func (r *Repository[M]) UpdatePartial(ctx context.Context, m M, changes repository.Changes) error {
	if m.GetID() == 0 {
		r.recordError(ctx, operationUpdatePartial, errorTypePrecondition)

		return repository.ErrMissingIdentity
	}

	if len(changes) == 0 {
		return nil
	}

	if applyErr := r.table.ApplyChanges(m, changes); applyErr != nil {
		r.logError(ctx, logMsgApplyChangesFailed, applyErr)
		r.recordError(ctx, operationUpdatePartial, errorTypePrecondition)

		return applyErr
	}

	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}

	record, serializeErr := r.table.RowForColumns(m, names)
	if serializeErr != nil {
		r.logError(ctx, logMsgSerializeFailed, serializeErr)
		r.recordError(ctx, operationUpdatePartial, errorTypeSerialize)

		return serializeErr
	}

	return r.updateRecord(ctx, operationUpdatePartial, m.GetID(), record)
}

// UpdateMany persists the models sequentially and stops at the first
// failure, leaving the preceding updates in place. The batch is not
// transactional.
func (r *Repository[M]) UpdateMany(ctx context.Context, models []M) error {
	for _, m := range models {
		if updateErr := r.Update(ctx, m); updateErr != nil {
			return updateErr
		}
	}

	return nil
}

// Delete removes all rows matching every filter. Calling it without filters
// fails with ErrMissingDeleteFilters before touching the database; passing a
// single explicit nil filter is the sanctioned way to delete every row.
func (r *Repository[M]) Delete(ctx context.Context, filters ...repository.Filter) error {
	if len(filters) == 0 {
		r.recordError(ctx, operationDelete, errorTypePrecondition)

		return repository.ErrMissingDeleteFilters
	}

	return r.deleteRows(ctx, operationDelete, filters)
}

// DeleteByID removes the row with the given identifier. Deleting an absent
// identifier is not an error.
func (r *Repository[M]) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteRows(ctx, operationDeleteByID, []repository.Filter{repository.ColID().Eq(id)})
}

// DeleteByIDs removes the rows with the given identifiers. An empty id list
// returns without touching the database.
func (r *Repository[M]) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	return r.deleteRows(ctx, operationDeleteByIDs, []repository.Filter{repository.ColID().In(ids)})
}

// insertModels implements the shared insert flow: one multi-row statement,
// then the returned columns are scanned back into the models positionally.
func (r *Repository[M]) insertModels(ctx context.Context, operation string, models []M) error {
	db, adapterErr := r.resolveAdapter(ctx, operation)
	if adapterErr != nil {
		return adapterErr
	}

	withInsertedColumns := db.ReturnsInsertedColumns()

	sqlQuery, buildErr := r.buildInsertQuery(models, withInsertedColumns)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operation, errorTypeBuildQuery)

		return buildErr
	}

	rows, duration, queryErr := r.executeQuery(ctx, operation, sqlQuery)
	if queryErr != nil {
		return queryErr
	}
	defer r.closeRows(ctx, rows)

	if scanErr := r.scanInsertReturning(ctx, operation, rows, models, withInsertedColumns); scanErr != nil {
		return scanErr
	}

	r.finishStatement(ctx, operation, duration, int64(len(models)))

	return nil
}

// scanInsertReturning assigns the RETURNING values to the inserted models,
// relying on the rows coming back in VALUES order.
func (r *Repository[M]) scanInsertReturning(
	ctx context.Context,
	operation string,
	rows adapters.DBRows,
	models []M,
	withInsertedColumns bool,
) error {

	var insertedColumns []repository.Column[M]
	if withInsertedColumns {
		insertedColumns = r.table.IgnoredInsertColumns()
	}

	scanned := 0

	for rows.Next() {
		if scanned >= len(models) {
			break
		}

		m := models[scanned]

		var id int64

		targets := make([]any, 0, len(insertedColumns)+1)
		targets = append(targets, &id)

		for _, column := range insertedColumns {
			targets = append(targets, column.ScanTarget(m))
		}

		if scanErr := rows.Scan(targets...); scanErr != nil {
			r.logError(ctx, logMsgScanRowFailed, scanErr)
			r.recordError(ctx, operation, errorTypeScan)

			return errors.Join(repository.ErrScanningDBRowFailed, scanErr)
		}

		m.SetID(id)
		scanned++
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logError(ctx, logMsgRowIterationFailed, rowsErr)
		r.recordError(ctx, operation, errorTypeQuery)

		return errors.Join(repository.ErrQueryingRowsFailed, rowsErr)
	}

	if scanned < len(models) {
		shortErr := errors.Join(
			repository.ErrQueryingRowsFailed,
			fmt.Errorf("expected %d returned rows, got %d", len(models), scanned),
		)

		r.logError(ctx, logMsgInsertReturnedTooFewRows, shortErr)
		r.recordError(ctx, operation, errorTypeQuery)

		return shortErr
	}

	return nil
}

// updateRecord implements the shared flow of the update operations.
func (r *Repository[M]) updateRecord(ctx context.Context, operation string, id int64, record goqu.Record) error {
	sqlQuery, buildErr := r.buildUpdateQuery(id, record)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operation, errorTypeBuildQuery)

		return buildErr
	}

	rowsAffected, duration, execErr := r.executeStatement(ctx, operation, sqlQuery)
	if execErr != nil {
		return execErr
	}

	r.finishStatement(ctx, operation, duration, rowsAffected)

	return nil
}

// deleteRows implements the shared flow of the delete operations.
func (r *Repository[M]) deleteRows(ctx context.Context, operation string, filters []repository.Filter) error {
	sqlQuery, buildErr := r.buildDeleteQuery(filters)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildQueryFailed, buildErr)
		r.recordError(ctx, operation, errorTypeBuildQuery)

		return buildErr
	}

	rowsAffected, duration, execErr := r.executeStatement(ctx, operation, sqlQuery)
	if execErr != nil {
		return execErr
	}

	r.finishStatement(ctx, operation, duration, rowsAffected)

	return nil
}
