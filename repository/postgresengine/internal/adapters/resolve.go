package adapters

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// Resolve selects the adapter for a raw database connection. The supported
// connection types mirror the engine's typed factory functions; anything
// else is reported with its concrete type so misconfiguration shows up in
// the error message.
func Resolve(conn any) (DBAdapter, error) {
	switch typed := conn.(type) {
	case *pgxpool.Pool:
		return NewPGXAdapter(typed), nil
	case *sqlx.DB:
		return NewSQLXAdapter(typed), nil
	default:
		return nil, fmt.Errorf("connection type %T", conn)
	}
}
