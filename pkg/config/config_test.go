package config

import (
	"errors"
	"testing"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/otel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portPtr(p uint16) *uint16 {
	return &p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, otel.ExporterStdout, cfg.Exporter)
	assert.Equal(t, "http", cfg.Scheme)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Nil(t, cfg.Port)
	assert.Equal(t, "trace-debug", cfg.ServiceName)
	assert.Equal(t, "trace-debug", cfg.TracerName)
	assert.Equal(t, "debug-span", cfg.SpanName)
	assert.Equal(t, uint(0), cfg.Number)
	assert.Equal(t, otel.ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPort(t *testing.T) {
	tests := []struct {
		name     string
		exporter otel.Exporter
		protocol otel.Protocol
		want     uint16
		ok       bool
	}{
		{name: "jaeger", exporter: otel.ExporterJaeger, protocol: otel.ProtocolGRPC, want: 6831, ok: true},
		{name: "otlp grpc", exporter: otel.ExporterOTLP, protocol: otel.ProtocolGRPC, want: 4317, ok: true},
		{name: "otlp http", exporter: otel.ExporterOTLP, protocol: otel.ProtocolHTTP, want: 4318, ok: true},
		{name: "stdout", exporter: otel.ExporterStdout, protocol: otel.ProtocolGRPC, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultPort(tt.exporter, tt.protocol)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("applies exporter default", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Exporter = otel.ExporterJaeger
		cfg.Resolve()

		require.NotNil(t, cfg.Port)
		assert.Equal(t, uint16(6831), *cfg.Port)
	})

	t.Run("keeps explicit port", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Exporter = otel.ExporterOTLP
		cfg.Port = portPtr(5555)
		cfg.Resolve()

		assert.Equal(t, uint16(5555), *cfg.Port)
	})

	t.Run("stdout stays absent", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Resolve()

		assert.Nil(t, cfg.Port)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		flag   string
	}{
		{name: "unknown exporter", mutate: func(c *Config) { c.Exporter = "zipkin" }, flag: "exporter"},
		{name: "unknown protocol", mutate: func(c *Config) { c.Protocol = "thrift" }, flag: "protocol"},
		{name: "bad scheme for otlp", mutate: func(c *Config) {
			c.Exporter = otel.ExporterOTLP
			c.Port = portPtr(4317)
			c.Scheme = "ftp"
		}, flag: "scheme"},
		{name: "empty host", mutate: func(c *Config) { c.Host = " " }, flag: "host"},
		{name: "zero port", mutate: func(c *Config) { c.Port = portPtr(0) }, flag: "port"},
		{name: "jaeger without port", mutate: func(c *Config) { c.Exporter = otel.ExporterJaeger }, flag: "port"},
		{name: "empty service name", mutate: func(c *Config) { c.ServiceName = "" }, flag: "service-name"},
		{name: "empty tracer name", mutate: func(c *Config) { c.TracerName = "" }, flag: "tracer-name"},
		{name: "empty span name", mutate: func(c *Config) { c.SpanName = "" }, flag: "span-name"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, flag: "log-level"},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, flag: "log-format"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, flag: "timeout"},
		{name: "metrics without otlp", mutate: func(c *Config) { c.Metrics = true }, flag: "metrics"},
		{name: "logs without otlp", mutate: func(c *Config) { c.Logs = true }, flag: "logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr)
			assert.Equal(t, tt.flag, usageErr.Flag)
			assert.Contains(t, err.Error(), "invalid --"+tt.flag)
		})
	}
}

func TestValidate_SchemeIgnoredOutsideOTLP(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scheme = "ftp"

	assert.NoError(t, cfg.Validate())
}

func TestEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1", cfg.Endpoint())

	cfg.Port = portPtr(4317)
	assert.Equal(t, "127.0.0.1:4317", cfg.Endpoint())
	assert.Equal(t, "http://127.0.0.1:4317", cfg.EndpointURL())

	cfg.Host = "::1"
	cfg.Scheme = "https"
	assert.Equal(t, "https://[::1]:4317", cfg.EndpointURL())
}

func TestString(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t,
		`Config{Exporter: stdout, Scheme: "http", Host: "127.0.0.1", Port: <none>, ServiceName: "trace-debug", TracerName: "trace-debug", SpanName: "debug-span", Number: 0, Protocol: grpc, Metrics: false, Logs: false, Timeout: 10s, LogLevel: info, LogFormat: text}`,
		cfg.String(),
	)

	cfg.Exporter = otel.ExporterJaeger
	cfg.Number = 3
	cfg.Resolve()
	assert.Contains(t, cfg.String(), "Exporter: jaeger")
	assert.Contains(t, cfg.String(), "Port: 6831")
	assert.Contains(t, cfg.String(), "Number: 3")
}

func TestProviderConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exporter = otel.ExporterOTLP
	cfg.Scheme = "https"
	cfg.Host = "collector"
	cfg.Metrics = true
	cfg.LogLevel = observability.LogLevelDebug
	cfg.Resolve()

	pc := cfg.ProviderConfig()
	assert.Equal(t, "trace-debug", pc.ServiceName)
	assert.Equal(t, otel.ExporterOTLP, pc.Exporter)
	assert.Equal(t, otel.ProtocolGRPC, pc.Protocol)
	assert.Equal(t, "collector:4317", pc.Endpoint)
	assert.False(t, pc.Insecure)
	assert.True(t, pc.Metrics)
	assert.False(t, pc.Logs)
	assert.Equal(t, observability.LogLevelDebug, pc.LogLevel)
	assert.Equal(t, cfg.Timeout, pc.Timeout)
	assert.Positive(t, pc.Timeout)

	cfg.Scheme = "http"
	assert.True(t, cfg.ProviderConfig().Insecure)
}

func TestUsageError(t *testing.T) {
	cause := errors.New("boom")

	withFlag := &UsageError{Flag: "port", Err: cause}
	assert.Equal(t, "invalid --port: boom", withFlag.Error())
	assert.ErrorIs(t, withFlag, cause)

	withoutFlag := &UsageError{Err: cause}
	assert.Equal(t, "boom", withoutFlag.Error())
}
