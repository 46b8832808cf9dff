package otel

import (
	"context"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// otelTracer implements observability.Tracer using OpenTelemetry.
type otelTracer struct {
	tracer oteltrace.Tracer
}

// newOtelTracer creates a new OpenTelemetry tracer.
func newOtelTracer(tracer oteltrace.Tracer) *otelTracer {
	return &otelTracer{tracer: tracer}
}

// Start creates a new span, parented to the span in ctx if there is one,
// and returns a context in which the new span is active.
func (t *otelTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.NewSpanConfig(opts)

	var otelOpts []oteltrace.SpanStartOption
	if attrs := convertFieldsToAttributes(cfg.Attributes()); attrs != nil {
		otelOpts = append(otelOpts, oteltrace.WithAttributes(attrs...))
	}

	ctx, otelSpan := t.tracer.Start(ctx, spanName, otelOpts...)
	return ctx, &otelSpanImpl{span: otelSpan}
}

// otelSpanImpl implements observability.Span using OpenTelemetry.
type otelSpanImpl struct {
	span oteltrace.Span
}

// End finishes the span. With a synchronous processor this is where the span is exported.
func (s *otelSpanImpl) End() {
	s.span.End()
}

// RecordError records an error as an event on the span.
func (s *otelSpanImpl) RecordError(err error, fields ...observability.Field) {
	attrs := convertFieldsToAttributes(fields)
	if attrs == nil {
		s.span.RecordError(err)
		return
	}

	s.span.RecordError(err, oteltrace.WithAttributes(attrs...))
}

// Context returns the span context.
func (s *otelSpanImpl) Context() observability.SpanContext {
	return &otelSpanContext{ctx: s.span.SpanContext()}
}

// otelSpanContext implements observability.SpanContext.
type otelSpanContext struct {
	ctx oteltrace.SpanContext
}

// TraceID returns the trace ID as a hex string.
func (c *otelSpanContext) TraceID() string {
	return c.ctx.TraceID().String()
}

// SpanID returns the span ID as a hex string.
func (c *otelSpanContext) SpanID() string {
	return c.ctx.SpanID().String()
}
