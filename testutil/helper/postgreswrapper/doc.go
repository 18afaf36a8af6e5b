// Package postgreswrapper provides test wrappers for PostgreSQL repository testing with multi-adapter support.
//
// This package enables testing across different PostgreSQL drivers (pgx.Pool, sqlx.DB) through
// a unified Wrapper interface. Test adapter selection is controlled via the ADAPTER_TYPE environment
// variable, enabling comprehensive testing of all database implementations.
//
// Adapter Types:
//
//	PGXPoolWrapper: wraps pgx.Pool for high-performance connection pooling
//	SQLXWrapper: wraps sqlx.DB for extended SQL functionality
//
// Utility Functions:
//
//	CreateWrapperWithTestConfig: creates the appropriate wrapper based on ADAPTER_TYPE env var
//	TryCreateRepository: creates a repository and returns the error for testing error cases
//	CreateTestConnection: creates a raw connection for ambient connection tests
//	CleanUp: truncates the fixture tables for test isolation
//
// Environment Variables:
//
//	ADAPTER_TYPE: selects adapter (pgx.pool, sqlx.db)
package postgreswrapper
