// Package repository provides core abstractions for generic, typed CRUD
// repositories over single database tables.
//
// This package defines the contracts shared by all repository engines:
// models with an integer identity, declarative table/column mappings,
// filters and orders built on the goqu expression language, ambient
// connection slots, and common error definitions.
//
// Key types:
//   - Model: contract for persistable entities, fulfilled by embedding Identity
//   - Table / Column: declarative mapping between a model and its table
//   - Filter / Order / Changes: query predicates, sort directives, change sets
//   - ConnectionVar: context-carried connection slot for ambient resolution
//
// Common usage pattern:
//
//	type Transaction struct {
//		repository.Identity
//		Date  time.Time
//		Price int64
//	}
//
//	var transactionsTable = repository.Table[*Transaction]{
//		Name: "transactions",
//		Columns: []repository.Column[*Transaction]{
//			repository.ColumnOf("date", func(t *Transaction) *time.Time { return &t.Date }),
//			repository.ColumnOf("price", func(t *Transaction) *int64 { return &t.Price }),
//		},
//		NewModel: func() *Transaction { return &Transaction{} },
//	}
//
//	repo, err := postgresengine.NewFromPGXPool(transactionsTable, pool)
//	if err != nil {
//		// handle error
//	}
//
//	trans, err := repo.Insert(ctx, &Transaction{Price: 100})
//	all, err := repo.GetAll(ctx, []repository.Filter{repository.Col("price").Eq(100)})
package repository
