package helper

import (
	"context"
	"sync"
	"time"

	"github.com/kosyan62/repka/repository"
)

// ContextualMetricsCollectorSpy extends MetricsCollectorSpy with the context-aware
// collection methods, for testing that engines prefer the contextual interface
// when the collector provides it.
type ContextualMetricsCollectorSpy struct {
	*MetricsCollectorSpy

	contextCalls int
	mu           sync.Mutex
}

// NewContextualMetricsCollectorSpy creates a new ContextualMetricsCollectorSpy.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewContextualMetricsCollectorSpy(recordCalls bool) *ContextualMetricsCollectorSpy {
	return &ContextualMetricsCollectorSpy{
		MetricsCollectorSpy: NewMetricsCollectorSpy(recordCalls),
	}
}

// RecordDurationContext implements the ContextualMetricsCollector interface for testing.
func (s *ContextualMetricsCollectorSpy) RecordDurationContext(
	_ context.Context, metric string, duration time.Duration, labels map[string]string,
) {
	s.countContextCall()
	s.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext implements the ContextualMetricsCollector interface for testing.
func (s *ContextualMetricsCollectorSpy) IncrementCounterContext(
	_ context.Context, metric string, labels map[string]string,
) {
	s.countContextCall()
	s.IncrementCounter(metric, labels)
}

// RecordValueContext implements the ContextualMetricsCollector interface for testing.
func (s *ContextualMetricsCollectorSpy) RecordValueContext(
	_ context.Context, metric string, value float64, labels map[string]string,
) {
	s.countContextCall()
	s.RecordValue(metric, value, labels)
}

// GetContextCallCount returns how many collection calls arrived through the
// context-aware methods.
func (s *ContextualMetricsCollectorSpy) GetContextCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contextCalls
}

// SupportsContextual reports whether the spy satisfies the contextual collector
// interface. It shadows the embedded spy's method, which would otherwise probe
// the base type only.
func (s *ContextualMetricsCollectorSpy) SupportsContextual() bool {
	_, ok := any(s).(repository.ContextualMetricsCollector)

	return ok
}

func (s *ContextualMetricsCollectorSpy) countContextCall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextCalls++
}

// Compile-time check to ensure ContextualMetricsCollectorSpy implements ContextualMetricsCollector interface.
var _ repository.ContextualMetricsCollector = (*ContextualMetricsCollectorSpy)(nil)
