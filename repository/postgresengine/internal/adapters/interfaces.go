package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the repository engine.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	QueryScalar(ctx context.Context, query string, dest any) error
	Exec(ctx context.Context, query string) (DBResult, error)

	// ReturnsInsertedColumns reports whether this adapter reads
	// database-populated insert columns back into the model via RETURNING.
	ReturnsInsertedColumns() bool
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
