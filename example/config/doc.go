// Package config provides database configuration helpers for PostgreSQL connections
// for the demo: a small payment ledger.
//
// This package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sqlx.DB) with a
// pre-configured demo database DSN.
package config
