package observability

import (
	"context"
	"fmt"
	"strings"
)

// LogLevel represents the severity level of a log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ParseLogLevel returns the LogLevel named by s, case-insensitively.
func ParseLogLevel(s string) (LogLevel, error) {
	switch level := LogLevel(strings.ToLower(s)); level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return level, nil
	default:
		return "", fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}

// ParseLogFormat returns the LogFormat named by s, case-insensitively.
func ParseLogFormat(s string) (LogFormat, error) {
	switch format := LogFormat(strings.ToLower(s)); format {
	case LogFormatText, LogFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text or json)", s)
	}
}

// Logger provides structured logging capabilities with trace context propagation.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(ctx context.Context, msg string, fields ...Field)

	// Info logs an info-level message with optional structured fields.
	Info(ctx context.Context, msg string, fields ...Field)

	// Warn logs a warning-level message with optional structured fields.
	Warn(ctx context.Context, msg string, fields ...Field)

	// Error logs an error-level message with optional structured fields.
	Error(ctx context.Context, msg string, fields ...Field)

	// With creates a child logger with additional fields that will be included in all log entries.
	With(fields ...Field) Logger
}
