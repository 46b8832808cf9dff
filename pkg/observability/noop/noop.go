package noop

import (
	"context"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
)

// NewMetrics returns a metrics recorder whose instruments discard every value.
// It backs the provider when metric export was not requested.
func NewMetrics() observability.Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) Counter(name, description, unit string) observability.Counter {
	return noopCounter{}
}

type noopCounter struct{}

func (c noopCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {}

func (c noopCounter) Increment(ctx context.Context, fields ...observability.Field) {}
