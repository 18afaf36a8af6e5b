// Package config provides PostgreSQL database configuration for repository
// testing.
//
// This package contains factory functions for creating database connections
// using the repository's supported PostgreSQL adapters (pgx.Pool, sqlx.DB)
// with a pre-configured test database DSN.
package config
