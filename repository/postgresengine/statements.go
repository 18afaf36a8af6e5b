package postgresengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"

	// Register the postgres dialect with goqu.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/kosyan62/repka/repository"
)

const dialectPostgres = "postgres"

// Every statement is built with goqu's postgres dialect and rendered with
// the values interpolated, so the adapters execute plain SQL strings without
// bind parameters.

func (r *Repository[M]) buildSelectQuery(
	filters []repository.Filter,
	orders []repository.Order,
	limit uint,
) (sqlQueryString, error) {

	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.table.Name).
		Select(r.table.SelectColumns()...)

	selectStmt = r.applyFilters(selectStmt, filters)
	selectStmt = r.applyOrders(selectStmt, orders)

	if limit > 0 {
		selectStmt = selectStmt.Limit(limit)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildSelectIDsQuery projects only the identifier column, always in
// ascending identifier order.
func (r *Repository[M]) buildSelectIDsQuery(filters []repository.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.table.Name).
		Select(repository.IDColumn).
		Order(goqu.I(repository.IDColumn).Asc())

	selectStmt = r.applyFilters(selectStmt, filters)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (r *Repository[M]) buildCountQuery(filters []repository.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.table.Name).
		Select(goqu.COUNT(goqu.Star()))

	selectStmt = r.applyFilters(selectStmt, filters)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (r *Repository[M]) buildExistsQuery(filters []repository.Filter) (sqlQueryString, error) {
	matchStmt := goqu.Dialect(dialectPostgres).
		From(r.table.Name).
		Select(goqu.L("1"))

	matchStmt = r.applyFilters(matchStmt, filters)

	selectStmt := goqu.Dialect(dialectPostgres).
		Select(goqu.Func("EXISTS", matchStmt))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds one multi-row INSERT for the models. The statement
// returns the generated identifiers, and with withInsertedColumns also the
// database-populated columns named by IgnoreOnInsert, in VALUES order.
func (r *Repository[M]) buildInsertQuery(models []M, withInsertedColumns bool) (sqlQueryString, error) {
	insertColumnNames := r.table.InsertColumnNames()

	cols := make([]any, 0, len(insertColumnNames))
	for _, name := range insertColumnNames {
		cols = append(cols, name)
	}

	vals := make([][]any, 0, len(models))

	for _, m := range models {
		values, valuesErr := r.table.InsertValues(m)
		if valuesErr != nil {
			return "", valuesErr
		}

		vals = append(vals, values)
	}

	returning := []any{repository.IDColumn}

	if withInsertedColumns {
		for _, column := range r.table.IgnoredInsertColumns() {
			returning = append(returning, column.Name())
		}
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(r.table.Name).
		Cols(cols...).
		Vals(vals...).
		Returning(returning...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (r *Repository[M]) buildUpdateQuery(id int64, record goqu.Record) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(r.table.Name).
		Set(record).
		Where(goqu.I(repository.IDColumn).Eq(id))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (r *Repository[M]) buildDeleteQuery(filters []repository.Filter) (sqlQueryString, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(r.table.Name)

	for _, filter := range filters {
		if filter == nil {
			continue
		}

		deleteStmt = deleteStmt.Where(filter)
	}

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// applyFilters adds each non-nil filter as a WHERE condition; goqu combines
// them with AND.
func (r *Repository[M]) applyFilters(selectStmt *goqu.SelectDataset, filters []repository.Filter) *goqu.SelectDataset {
	for _, filter := range filters {
		if filter == nil {
			continue
		}

		selectStmt = selectStmt.Where(filter)
	}

	return selectStmt
}

// applyOrders adds the explicit ordering; without orders the statement keeps
// the backend's row order.
func (r *Repository[M]) applyOrders(selectStmt *goqu.SelectDataset, orders []repository.Order) *goqu.SelectDataset {
	if len(orders) == 0 {
		return selectStmt
	}

	return selectStmt.Order(orders...)
}
