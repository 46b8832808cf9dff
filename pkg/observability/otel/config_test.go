package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExporter(t *testing.T) {
	tests := []struct {
		input   string
		want    Exporter
		wantErr bool
	}{
		{"stdout", ExporterStdout, false},
		{"jaeger", ExporterJaeger, false},
		{"otlp", ExporterOTLP, false},
		{"OTLP", ExporterOTLP, false},
		{"zipkin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExporter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown exporter")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		input   string
		want    Protocol
		wantErr bool
	}{
		{"grpc", ProtocolGRPC, false},
		{"GRPC", ProtocolGRPC, false},
		{"http", ProtocolHTTP, false},
		{"http/protobuf", ProtocolHTTP, false},
		{"thrift", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeProtocol(t *testing.T) {
	tests := []struct {
		input    string
		expected Protocol
	}{
		{"grpc", ProtocolGRPC},
		{"GRPC", ProtocolGRPC},
		{"http", ProtocolHTTP},
		{"HTTP", ProtocolHTTP},
		{"http/protobuf", ProtocolHTTP},
		{"", ProtocolGRPC},
		{"invalid", ProtocolGRPC},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeProtocol(tt.input))
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{
			name:   "stdout without endpoint is ok",
			config: &Config{ServiceName: "svc", Exporter: ExporterStdout},
		},
		{
			name:   "otlp with metrics and logs is ok",
			config: &Config{ServiceName: "svc", Exporter: ExporterOTLP, Endpoint: "127.0.0.1:4317", Metrics: true, Logs: true},
		},
		{
			name:   "empty service name",
			config: &Config{Exporter: ExporterStdout},
			errMsg: "service name cannot be empty",
		},
		{
			name:   "unknown exporter",
			config: &Config{ServiceName: "svc", Exporter: "zipkin"},
			errMsg: "unknown exporter",
		},
		{
			name:   "jaeger without endpoint",
			config: &Config{ServiceName: "svc", Exporter: ExporterJaeger},
			errMsg: "endpoint cannot be empty for jaeger exporter",
		},
		{
			name:   "metrics with jaeger",
			config: &Config{ServiceName: "svc", Exporter: ExporterJaeger, Endpoint: "127.0.0.1:6831", Metrics: true},
			errMsg: "require the otlp exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBackendInitError(t *testing.T) {
	cause := assert.AnError
	err := &BackendInitError{Exporter: ExporterJaeger, Err: cause}

	assert.Equal(t, "failed to create jaeger exporter: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
}
