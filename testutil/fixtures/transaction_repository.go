package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/kosyan62/repka/repository"
	"github.com/kosyan62/repka/repository/postgresengine"
)

// TransactionRepository extends the generic repository with a hand-written
// aggregate query, showing how custom SQL coexists with the mapped
// operations on the same connection.
type TransactionRepository struct {
	*postgresengine.Repository[*Transaction]
}

// NewTransactionRepository creates a TransactionRepository bound to the given
// connection.
func NewTransactionRepository(connection any, options ...postgresengine.Option) (*TransactionRepository, error) {
	repo, err := postgresengine.New(TransactionsTable(), connection, options...)
	if err != nil {
		return nil, err
	}

	return &TransactionRepository{Repository: repo}, nil
}

// NewAmbientTransactionRepository creates a TransactionRepository that takes
// its connection from the context on every call.
func NewAmbientTransactionRepository(options ...postgresengine.Option) (*TransactionRepository, error) {
	repo, err := postgresengine.NewWithAmbientConnection(TransactionsTable(), options...)
	if err != nil {
		return nil, err
	}

	return &TransactionRepository{Repository: repo}, nil
}

// Sum adds up the price of all transactions with a hand-written SQL query on
// the repository's connection.
func (r *TransactionRepository) Sum(ctx context.Context) (int64, error) {
	conn, connErr := r.Connection(ctx)
	if connErr != nil {
		return 0, connErr
	}

	const query = `SELECT COALESCE(SUM(price), 0) FROM transactions`

	var sum int64

	switch c := conn.(type) {
	case *pgxpool.Pool:
		if scanErr := c.QueryRow(ctx, query).Scan(&sum); scanErr != nil {
			return 0, scanErr
		}

	case *sqlx.DB:
		if getErr := c.GetContext(ctx, &sum, query); getErr != nil {
			return 0, getErr
		}

	default:
		return 0, errors.Join(repository.ErrUnsupportedConnectionType, fmt.Errorf("connection type %T", conn))
	}

	return sum, nil
}
