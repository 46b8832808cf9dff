package otel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
)

// otelLogger implements observability.Logger with slog console output and,
// when log export is enabled, an OTel logger mirroring every record.
type otelLogger struct {
	otelLog     otellog.Logger // nil unless log export is enabled
	slogLogger  *slog.Logger
	serviceName string
	fields      []observability.Field
}

// newOtelLogger creates a new logger with the specified level and format.
func newOtelLogger(
	level observability.LogLevel,
	format observability.LogFormat,
	serviceName string,
	output io.Writer,
	otelLog otellog.Logger,
) *otelLogger {
	return &otelLogger{
		otelLog:     otelLog,
		slogLogger:  createSlogLogger(level, format, output),
		serviceName: serviceName,
		fields:      make([]observability.Field, 0),
	}
}

// createSlogLogger creates a slog logger with the specified configuration.
func createSlogLogger(level observability.LogLevel, format observability.LogFormat, output io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: convertLogLevel(level),
	}

	if format == observability.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(output, opts))
	}

	return slog.New(slog.NewTextHandler(output, opts))
}

// convertLogLevel converts observability.LogLevel to slog.Level.
func convertLogLevel(level observability.LogLevel) slog.Level {
	switch level {
	case observability.LogLevelDebug:
		return slog.LevelDebug
	case observability.LogLevelWarn:
		return slog.LevelWarn
	case observability.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug-level message.
func (l *otelLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelDebug, msg, fields...)
}

// Info logs an info-level message.
func (l *otelLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelInfo, msg, fields...)
}

// Warn logs a warning-level message.
func (l *otelLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelWarn, msg, fields...)
}

// Error logs an error-level message.
func (l *otelLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.log(ctx, slog.LevelError, msg, fields...)
}

// log adds trace context and the service name, writes to the console and mirrors to OTLP.
func (l *otelLogger) log(ctx context.Context, level slog.Level, msg string, fields ...observability.Field) {
	allFields := make([]observability.Field, 0, len(l.fields)+len(fields)+3)
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if spanContext.IsValid() {
		allFields = append(allFields,
			observability.String("trace_id", spanContext.TraceID().String()),
			observability.String("span_id", spanContext.SpanID().String()),
		)
	}

	allFields = append(allFields, observability.String("service", l.serviceName))

	if l.slogLogger.Enabled(ctx, level) {
		attrs := make([]slog.Attr, 0, len(allFields))
		for _, field := range allFields {
			attrs = append(attrs, convertFieldToSlogAttr(field))
		}
		l.slogLogger.LogAttrs(ctx, level, msg, attrs...)
	}

	if l.otelLog != nil {
		l.emitOTLPLog(ctx, level, msg, allFields)
	}
}

// emitOTLPLog emits a log record to the OTLP backend.
// The SDK picks the trace context up from ctx.
func (l *otelLogger) emitOTLPLog(ctx context.Context, level slog.Level, msg string, fields []observability.Field) {
	attrs := make([]otellog.KeyValue, 0, len(fields))
	for _, field := range fields {
		attrs = append(attrs, convertFieldToOTelAttr(field))
	}

	record := otellog.Record{}
	record.SetTimestamp(time.Now())
	record.SetBody(otellog.StringValue(msg))
	record.SetSeverity(convertSlogLevelToOTel(level))
	record.SetSeverityText(level.String())
	record.AddAttributes(attrs...)

	l.otelLog.Emit(ctx, record)
}

// convertSlogLevelToOTel converts slog.Level to OTel Severity.
func convertSlogLevelToOTel(level slog.Level) otellog.Severity {
	switch level {
	case slog.LevelDebug:
		return otellog.SeverityDebug
	case slog.LevelWarn:
		return otellog.SeverityWarn
	case slog.LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityInfo
	}
}

// convertFieldToOTelAttr converts an observability.Field to an OTel log KeyValue.
func convertFieldToOTelAttr(field observability.Field) otellog.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return otellog.String(field.Key, v)
	case int:
		return otellog.Int(field.Key, v)
	case int64:
		return otellog.Int64(field.Key, v)
	case float64:
		return otellog.Float64(field.Key, v)
	case bool:
		return otellog.Bool(field.Key, v)
	case error:
		return otellog.String(field.Key, v.Error())
	default:
		return otellog.String(field.Key, fmt.Sprint(field.Value))
	}
}

// convertFieldToSlogAttr converts an observability.Field to a slog.Attr.
func convertFieldToSlogAttr(field observability.Field) slog.Attr {
	if err, ok := field.Value.(error); ok {
		return slog.String(field.Key, err.Error())
	}
	return slog.Any(field.Key, field.Value)
}

// With creates a child logger with additional fields.
func (l *otelLogger) With(fields ...observability.Field) observability.Logger {
	merged := make([]observability.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &otelLogger{
		otelLog:     l.otelLog,
		slogLogger:  l.slogLogger,
		serviceName: l.serviceName,
		fields:      merged,
	}
}
