package repository

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Filter is a predicate over mapped columns, built from Col and the goqu
// expression language. Filters passed to one operation are combined with AND.
//
//	repo.GetAll(ctx, []repository.Filter{repository.Col("price").Eq(100)})
type Filter = goqu.Expression

// Order is a sort directive over a mapped column.
//
//	repo.First(ctx, nil, repository.Col("price").Desc())
type Order = exp.OrderedExpression

// Changes is a partial change set keyed by column name. Values must be
// compatible with the column's field type or, for JSON columns, raw JSON.
type Changes = map[string]any

// Col references a mapped column for building filters and orders.
func Col(name string) exp.IdentifierExpression {
	return goqu.C(name)
}

// ColID references the fixed identifier column.
func ColID() exp.IdentifierExpression {
	return goqu.C(IDColumn)
}
