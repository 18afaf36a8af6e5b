package repository

import (
	"errors"
	"fmt"
	"slices"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"
)

// IDColumn is the fixed name of the identifier column of every mapped table.
const IDColumn = "id"

// Column maps one database column onto a field of the model M.
//
// A column knows how to read the field for INSERT/UPDATE statements, how to
// produce a scan destination for SELECT results, and how to assign a
// change-set value back to the field. Columns are built with ColumnOf or
// JSONColumnOf; the accessors are captured as closures when the table is
// defined, so no reflection happens at operation time.
type Column[M Model] struct {
	name   string
	value  func(m M) (any, error)
	scan   func(m M) any
	assign func(m M, value any) error
}

// Name returns the database column name.
func (c Column[M]) Name() string {
	return c.name
}

// Value reads the mapped field in its database representation.
func (c Column[M]) Value(m M) (any, error) {
	return c.value(m)
}

// ScanTarget returns a destination pointer for scanning a database value
// into the mapped field.
func (c Column[M]) ScanTarget(m M) any {
	return c.scan(m)
}

// Assign writes a change-set value to the mapped field.
func (c Column[M]) Assign(m M, value any) error {
	return c.assign(m, value)
}

// ColumnOf maps the database column name onto the field selected by the
// accessor. The field's value is stored as-is, so V must be a type the
// database driver can write and scan directly.
func ColumnOf[M Model, V any](name string, field func(m M) *V) Column[M] {
	return Column[M]{
		name: name,
		value: func(m M) (any, error) {
			return *field(m), nil
		},
		scan: func(m M) any {
			return field(m)
		},
		assign: func(m M, value any) error {
			if value == nil {
				var zero V
				*field(m) = zero
				return nil
			}

			typed, ok := value.(V)
			if !ok {
				var zero V
				return errors.Join(
					ErrIncompatibleValue,
					fmt.Errorf("column %q expects %T, got %T", name, zero, value),
				)
			}

			*field(m) = typed

			return nil
		},
	}
}

// JSONColumnOf maps a jsonb database column onto the field selected by the
// accessor. The field is marshaled on write and unmarshaled on scan, so V can
// be any JSON-serializable type (structs, maps, slices).
func JSONColumnOf[M Model, V any](name string, field func(m M) *V) Column[M] {
	return Column[M]{
		name: name,
		value: func(m M) (any, error) {
			data, marshalErr := jsoniter.ConfigFastest.Marshal(*field(m))
			if marshalErr != nil {
				return nil, errors.Join(
					ErrSerializingModelFailed,
					fmt.Errorf("column %q: %w", name, marshalErr),
				)
			}

			return string(data), nil
		},
		scan: func(m M) any {
			return &jsonCell[V]{dest: field(m)}
		},
		assign: func(m M, value any) error {
			switch typed := value.(type) {
			case nil:
				var zero V
				*field(m) = zero
				return nil
			case V:
				*field(m) = typed
				return nil
			case []byte:
				return unmarshalJSONValue(name, typed, field(m))
			case string:
				return unmarshalJSONValue(name, []byte(typed), field(m))
			default:
				var zero V
				return errors.Join(
					ErrIncompatibleValue,
					fmt.Errorf("column %q expects %T or raw JSON, got %T", name, zero, value),
				)
			}
		},
	}
}

// jsonCell is a scan destination that unmarshals a jsonb value into the
// mapped field.
type jsonCell[V any] struct {
	dest *V
}

// Scan implements sql.Scanner; both database/sql and pgx fall back to it.
func (c *jsonCell[V]) Scan(src any) error {
	switch data := src.(type) {
	case nil:
		var zero V
		*c.dest = zero
		return nil
	case []byte:
		return jsoniter.ConfigFastest.Unmarshal(data, c.dest)
	case string:
		return jsoniter.ConfigFastest.Unmarshal([]byte(data), c.dest)
	default:
		return fmt.Errorf("cannot scan %T into a json column", src)
	}
}

func unmarshalJSONValue[V any](name string, data []byte, dest *V) error {
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(data, dest); unmarshalErr != nil {
		return errors.Join(
			ErrIncompatibleValue,
			fmt.Errorf("column %q: %w", name, unmarshalErr),
		)
	}

	return nil
}

// Table describes the mapping between the model M and its database table.
//
// The identifier column is implicit: every table has an "id" column holding
// the model's identity, excluded from Columns. While its fields are exported
// for definition as a struct literal, a Table should not be modified after
// the first repository was created from it.
type Table[M Model] struct {
	// Name is the database table name.
	Name string

	// Columns maps the non-identifier columns in registration order.
	Columns []Column[M]

	// IgnoreOnInsert names columns the database populates itself on insert,
	// e.g. from a sequence default. They are omitted from INSERT statements
	// and read back into the model where the connection supports it.
	IgnoreOnInsert []string

	// NewModel allocates an empty model for scanning query results.
	NewModel func() M
}

// Validate ensures the table definition is usable by a repository.
func (t Table[M]) Validate() error {
	if t.Name == "" {
		return ErrEmptyTableName
	}

	if len(t.Columns) == 0 {
		return ErrNoColumnsDefined
	}

	if t.NewModel == nil {
		return ErrNilModelFactory
	}

	seen := map[string]struct{}{IDColumn: {}}

	for _, column := range t.Columns {
		if column.name == "" {
			return ErrEmptyColumnName
		}

		if _, duplicate := seen[column.name]; duplicate {
			return errors.Join(ErrDuplicateColumn, fmt.Errorf("column %q", column.name))
		}

		seen[column.name] = struct{}{}
	}

	for _, name := range t.IgnoreOnInsert {
		if _, ok := seen[name]; !ok || name == IDColumn {
			return errors.Join(ErrUnknownColumn, fmt.Errorf("ignore-on-insert column %q", name))
		}
	}

	return nil
}

// ColumnNames returns the mapped column names without the identifier column.
func (t Table[M]) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.name)
	}

	return names
}

// SelectColumns returns the full select list: the identifier column followed
// by the mapped columns in registration order.
func (t Table[M]) SelectColumns() []any {
	columns := make([]any, 0, len(t.Columns)+1)
	columns = append(columns, IDColumn)

	for _, column := range t.Columns {
		columns = append(columns, column.name)
	}

	return columns
}

// InsertColumnNames returns the column names written by INSERT statements,
// i.e. the mapped columns minus IgnoreOnInsert.
func (t Table[M]) InsertColumnNames() []string {
	names := make([]string, 0, len(t.Columns))

	for _, column := range t.Columns {
		if slices.Contains(t.IgnoreOnInsert, column.name) {
			continue
		}

		names = append(names, column.name)
	}

	return names
}

// IgnoredInsertColumns returns the columns named by IgnoreOnInsert in
// registration order.
func (t Table[M]) IgnoredInsertColumns() []Column[M] {
	columns := make([]Column[M], 0, len(t.IgnoreOnInsert))

	for _, column := range t.Columns {
		if slices.Contains(t.IgnoreOnInsert, column.name) {
			columns = append(columns, column)
		}
	}

	return columns
}

// ScanTargets returns scan destinations for the mapped columns in
// registration order, aligned with SelectColumns minus the identifier column.
// The identity is scanned separately because it is only reachable through
// the Model interface.
func (t Table[M]) ScanTargets(m M) []any {
	targets := make([]any, 0, len(t.Columns))
	for _, column := range t.Columns {
		targets = append(targets, column.scan(m))
	}

	return targets
}

// RowFromModel serializes the mapped columns of the model into a statement
// record, leaving out the given column names.
func (t Table[M]) RowFromModel(m M, exclude ...string) (goqu.Record, error) {
	record := make(goqu.Record, len(t.Columns))

	for _, column := range t.Columns {
		if slices.Contains(exclude, column.name) {
			continue
		}

		value, valueErr := column.value(m)
		if valueErr != nil {
			return nil, valueErr
		}

		record[column.name] = value
	}

	return record, nil
}

// InsertRowFromModel serializes the model for an INSERT statement, leaving
// out the IgnoreOnInsert columns.
func (t Table[M]) InsertRowFromModel(m M) (goqu.Record, error) {
	return t.RowFromModel(m, t.IgnoreOnInsert...)
}

// InsertValues reads the insertable column values of the model in
// registration order, aligned with InsertColumnNames.
func (t Table[M]) InsertValues(m M) ([]any, error) {
	values := make([]any, 0, len(t.Columns))

	for _, column := range t.Columns {
		if slices.Contains(t.IgnoreOnInsert, column.name) {
			continue
		}

		value, valueErr := column.value(m)
		if valueErr != nil {
			return nil, valueErr
		}

		values = append(values, value)
	}

	return values, nil
}

// RowForColumns serializes only the named columns of the model.
func (t Table[M]) RowForColumns(m M, names []string) (goqu.Record, error) {
	record := make(goqu.Record, len(names))

	for _, name := range names {
		column, ok := t.columnByName(name)
		if !ok {
			return nil, errors.Join(ErrUnknownColumn, fmt.Errorf("column %q", name))
		}

		value, valueErr := column.value(m)
		if valueErr != nil {
			return nil, valueErr
		}

		record[name] = value
	}

	return record, nil
}

// ApplyChanges assigns the change set to the model's mapped fields.
func (t Table[M]) ApplyChanges(m M, changes Changes) error {
	for name, value := range changes {
		column, ok := t.columnByName(name)
		if !ok {
			return errors.Join(ErrUnknownColumn, fmt.Errorf("column %q", name))
		}

		if assignErr := column.assign(m, value); assignErr != nil {
			return assignErr
		}
	}

	return nil
}

func (t Table[M]) columnByName(name string) (Column[M], bool) {
	for _, column := range t.Columns {
		if column.name == name {
			return column, true
		}
	}

	return Column[M]{}, false
}
