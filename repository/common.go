package repository

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a repository is created with a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedConnectionType is returned when a connection is neither a pgx pool nor a sqlx database.
	ErrUnsupportedConnectionType = errors.New("unsupported database connection type")

	// ErrNoConnectionInContext is returned when ambient resolution finds no connection in the consulted slot.
	ErrNoConnectionInContext = errors.New("no database connection in context")

	// ErrZeroConnectionVar is returned when a connection var was not created with NewConnectionVar.
	ErrZeroConnectionVar = errors.New("connection var must be created with NewConnectionVar")

	// ErrEmptyTableName is returned when a table is defined without a name.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrNoColumnsDefined is returned when a table is defined without mapped columns.
	ErrNoColumnsDefined = errors.New("table has no mapped columns")

	// ErrNilModelFactory is returned when a table is defined without a model factory.
	ErrNilModelFactory = errors.New("table has no model factory")

	// ErrEmptyColumnName is returned when a mapped column has an empty name.
	ErrEmptyColumnName = errors.New("empty column name supplied")

	// ErrDuplicateColumn is returned when two mapped columns share a name, or a column shadows the identifier column.
	ErrDuplicateColumn = errors.New("duplicate column name in table definition")

	// ErrUnknownColumn is returned when a change set or column list names a column the table does not map.
	ErrUnknownColumn = errors.New("unknown column name")

	// ErrIncompatibleValue is returned when a change-set value cannot be assigned to the column's field.
	ErrIncompatibleValue = errors.New("value is not compatible with the column type")

	// ErrSerializingModelFailed is returned when a model cannot be serialized to a database row.
	ErrSerializingModelFailed = errors.New("serializing model to row failed")

	// ErrMissingIdentity is returned when an operation requires a model that was inserted before.
	ErrMissingIdentity = errors.New("model has no identity yet")

	// ErrMissingDeleteFilters is returned when Delete is called without any filter argument.
	// Pass an explicit nil filter to delete all rows.
	ErrMissingDeleteFilters = errors.New("delete requires filters, pass an explicit nil filter to delete all rows")

	// ErrBuildingQueryFailed is returned when an SQL statement could not be built.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingRowsFailed is returned when a select statement fails to execute.
	ErrQueryingRowsFailed = errors.New("querying rows failed")

	// ErrExecutingStatementFailed is returned when an insert, update or delete statement fails to execute.
	ErrExecutingStatementFailed = errors.New("executing statement failed")

	// ErrScanningDBRowFailed is returned when a database row cannot be scanned into a model.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrGettingRowsAffectedFailed is returned when the affected row count cannot be read from a result.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")
)
