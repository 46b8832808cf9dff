package otel

import (
	"fmt"
	"math"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
)

// convertFieldToAttribute converts an observability.Field to an OpenTelemetry attribute.
// Span and metric attributes both go through here.
func convertFieldToAttribute(field observability.Field) attribute.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return attribute.String(field.Key, v)
	case int:
		return attribute.Int(field.Key, v)
	case int64:
		return attribute.Int64(field.Key, v)
	case uint16:
		return attribute.Int(field.Key, int(v))
	case uint:
		if uint64(v) > math.MaxInt64 {
			return attribute.String(field.Key, fmt.Sprintf("%d", v))
		}
		return attribute.Int64(field.Key, int64(v))
	case float64:
		return attribute.Float64(field.Key, v)
	case bool:
		return attribute.Bool(field.Key, v)
	case error:
		return attribute.String(field.Key, v.Error())
	case fmt.Stringer:
		return attribute.String(field.Key, v.String())
	default:
		return attribute.String(field.Key, fmt.Sprintf("%v", v))
	}
}

// convertFieldsToAttributes converts multiple observability.Field to OpenTelemetry attributes.
// Returns nil for empty slices.
func convertFieldsToAttributes(fields []observability.Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	attrs := make([]attribute.KeyValue, len(fields))
	for i, field := range fields {
		attrs[i] = convertFieldToAttribute(field)
	}
	return attrs
}
