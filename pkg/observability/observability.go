package observability

import "context"

// Observability is the main facade interface that provides access to all observability features.
// A single instance is built per process and passed explicitly to the code that needs it.
type Observability interface {
	Tracer(name string) Tracer
	Logger() Logger
	Metrics() Metrics
	Shutdown(ctx context.Context) error
}

// Field represents a key-value pair for structured logging and tracing attributes.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// SpanContext represents the identifiers of a span.
type SpanContext interface {
	TraceID() string
	SpanID() string
}

// Span represents an active trace span.
type Span interface {
	// End finishes the span. No further operations should be performed on the span after calling End.
	End()

	// RecordError records an error as an event on the span.
	RecordError(err error, fields ...Field)

	// Context returns the span context.
	Context() SpanContext
}

// SpanOption configures span creation.
type SpanOption interface {
	apply(*spanConfig)
}

type spanConfig struct {
	attributes []Field
}

type spanOptionFunc func(*spanConfig)

func (f spanOptionFunc) apply(c *spanConfig) {
	f(c)
}

// WithAttributes sets initial attributes on the span.
func WithAttributes(fields ...Field) SpanOption {
	return spanOptionFunc(func(c *spanConfig) {
		c.attributes = append(c.attributes, fields...)
	})
}

// NewSpanConfig creates a span configuration from options (exported for provider implementations).
func NewSpanConfig(opts []SpanOption) SpanConfig {
	cfg := &spanConfig{
		attributes: make([]Field, 0),
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return cfg
}

// SpanConfig provides access to span configuration (for provider implementations).
type SpanConfig interface {
	Attributes() []Field
}

func (c *spanConfig) Attributes() []Field {
	return c.attributes
}
