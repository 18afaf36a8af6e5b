package fixtures

import (
	"time"

	"github.com/kosyan62/repka/repository"
)

// TransactionsTableName is the database table holding Transaction rows.
const TransactionsTableName = "transactions"

// Transaction represents a single money movement on an account.
type Transaction struct {
	repository.Identity
	Date  time.Time
	Price int64
}

// BuildTransaction creates a new Transaction without an identity.
func BuildTransaction(date time.Time, price int64) *Transaction {
	return &Transaction{
		Date:  date,
		Price: price,
	}
}

// TransactionsTable maps Transaction onto the transactions table.
func TransactionsTable() repository.Table[*Transaction] {
	return repository.Table[*Transaction]{
		Name: TransactionsTableName,
		Columns: []repository.Column[*Transaction]{
			repository.ColumnOf("date", func(m *Transaction) *time.Time { return &m.Date }),
			repository.ColumnOf("price", func(m *Transaction) *int64 { return &m.Price }),
		},
		NewModel: func() *Transaction { return new(Transaction) },
	}
}
