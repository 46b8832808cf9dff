package otel

import (
	"context"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/noop"
	"go.opentelemetry.io/otel/metric"
)

// otelMetrics implements observability.Metrics using OpenTelemetry.
type otelMetrics struct {
	meter metric.Meter
}

// newOtelMetrics creates a new OpenTelemetry metrics recorder.
func newOtelMetrics(meter metric.Meter) *otelMetrics {
	return &otelMetrics{meter: meter}
}

// Counter creates or returns a counter metric.
// An instrument the SDK refuses is replaced by one that discards values.
func (m *otelMetrics) Counter(name, description, unit string) observability.Counter {
	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return noop.NewMetrics().Counter(name, description, unit)
	}

	return &otelCounter{counter: counter}
}

// otelCounter implements observability.Counter.
type otelCounter struct {
	counter metric.Int64Counter
}

// Add increments the counter.
func (c *otelCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	if len(fields) == 0 {
		c.counter.Add(ctx, value)
		return
	}

	c.counter.Add(ctx, value, metric.WithAttributes(convertFieldsToAttributes(fields)...))
}

// Increment increments the counter by 1.
func (c *otelCounter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}
