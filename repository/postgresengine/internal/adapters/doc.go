// Package adapters provides database adapter implementations for the PostgreSQL repository engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database
// libraries: pgxpool.Pool and sqlx.DB. All adapters provide equivalent query and
// execution functionality through a common DBAdapter interface; they differ in one
// declared capability, ReturnsInsertedColumns, which tells the engine whether
// database-populated insert columns can be read back through RETURNING.
//
// The adapters handle the specifics of each database library while presenting a
// unified interface for query execution and result handling.
package adapters
