// Package fixtures contains minimal test models for repository testing.
//
// This package provides a small set of persistable models from a personal
// finance domain that are used for testing repository functionality. The
// models cover the mapping features a table definition can use: plain
// columns (Transaction), database-assigned columns excluded from inserts
// (Task), and jsonb document columns (Receipt).
//
// The models embed repository.Identity and come with table definitions
// (TransactionsTable, TasksTable, ReceiptsTable) plus schema helpers
// (EnsureFixtureTables, TruncateFixtureTables) needed for repository testing.
//
// This is testing infrastructure - not production domain code.
package fixtures
