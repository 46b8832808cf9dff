package observability

import "context"

// Tracer provides distributed tracing capabilities.
type Tracer interface {
	// Start creates a new span and returns a context containing the span.
	// The span found in ctx, if any, becomes the parent of the new span.
	// The span should be ended by calling span.End() when the operation completes.
	Start(ctx context.Context, spanName string, opts ...SpanOption) (context.Context, Span)
}
