package postgresengine

import (
	"github.com/kosyan62/repka/repository"
)

// settings collects the optional configuration shared by all repository
// factory functions. Options mutate settings instead of the generic
// Repository so they stay free of type parameters.
type settings struct {
	logger           repository.Logger
	contextualLogger repository.ContextualLogger
	metricsCollector repository.MetricsCollector
	connectionVar    repository.ConnectionVar
}

// Option defines a functional option for configuring a Repository.
type Option func(*settings) error

// WithLogger sets the logger for the Repository.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Operation outcomes, row counts, durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger repository.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Repository.
// The contextual logger will receive log messages with context information
// including automatic trace/span correlation when the backend supports it.
func WithContextualLogger(logger repository.ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Repository.
// The metrics collector will receive performance and operational metrics
// including statement durations, row counts, and database errors.
func WithMetrics(collector repository.MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithConnectionVar sets the ambient slot a Repository created with
// NewWithAmbientConnection consults. Repositories with a bound connection
// ignore it.
func WithConnectionVar(connectionVar repository.ConnectionVar) Option {
	return func(s *settings) error {
		if connectionVar.IsZero() {
			return repository.ErrZeroConnectionVar
		}

		s.connectionVar = connectionVar

		return nil
	}
}

// applyOptions builds the settings from the given options. The default
// ambient slot is repository.DefaultConnectionVar.
func applyOptions(options []Option) (settings, error) {
	s := settings{connectionVar: repository.DefaultConnectionVar}

	for _, option := range options {
		if err := option(&s); err != nil {
			return settings{}, err
		}
	}

	return s, nil
}
