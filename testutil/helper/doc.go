// Package helper provides testing utilities and test doubles for PostgreSQL repository testing.
//
// This package contains shared testing infrastructure including spy log handlers
// for capturing and validating log output during tests, spy metrics collectors
// for verifying observability instrumentation, and other common test utilities
// used across the PostgreSQL repository test suite.
package helper
