package observability

import "context"

// Metrics provides application metrics capabilities.
type Metrics interface {
	// Counter returns a counter metric instrument.
	Counter(name, description, unit string) Counter
}

// Counter is a monotonically increasing metric.
type Counter interface {
	// Add increments the counter by the given value with optional attributes.
	Add(ctx context.Context, value int64, fields ...Field)

	// Increment increments the counter by 1 with optional attributes.
	Increment(ctx context.Context, fields ...Field)
}
