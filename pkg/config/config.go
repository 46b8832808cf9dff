package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/otel"
)

// Default ports applied when --port is not given.
const (
	DefaultJaegerAgentPort uint16 = 6831
	DefaultOTLPGRPCPort    uint16 = 4317
	DefaultOTLPHTTPPort    uint16 = 4318
)

// Config is the fully-resolved configuration of one run.
type Config struct {
	// Exporter selects the backend spans are sent to.
	// Default: stdout
	Exporter otel.Exporter `yaml:"exporter"`

	// Scheme of the OTLP endpoint, "http" (plaintext) or "https" (TLS).
	// Default: http
	Scheme string `yaml:"scheme"`

	// Host of the Jaeger agent or OTLP collector.
	// Default: 127.0.0.1
	Host string `yaml:"host"`

	// Port of the backend. Nil means absent, which is only possible for stdout.
	Port *uint16 `yaml:"port"`

	// ServiceName is attached to every span as the service.name resource attribute.
	// Default: trace-debug
	ServiceName string `yaml:"service_name"`

	// TracerName is the instrumentation scope name.
	// Default: trace-debug
	TracerName string `yaml:"tracer_name"`

	// SpanName is the name given to every span.
	// Default: debug-span
	SpanName string `yaml:"span_name"`

	// Number of child spans created under the root span.
	// Default: 0
	Number uint `yaml:"number"`

	// Protocol is the OTLP transport.
	// Default: grpc
	Protocol otel.Protocol `yaml:"protocol"`

	// Metrics enables a span counter exported over OTLP.
	Metrics bool `yaml:"metrics"`

	// Logs enables log records exported over OTLP.
	Logs bool `yaml:"logs"`

	// Timeout bounds backend construction, each OTLP export and shutdown.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel and LogFormat configure diagnostics written to stderr.
	// Default: info, text
	LogLevel  observability.LogLevel  `yaml:"log_level"`
	LogFormat observability.LogFormat `yaml:"log_format"`
}

// DefaultConfig returns a Config populated with the flag defaults.
// Port is left absent; Resolve fills it in.
func DefaultConfig() Config {
	return Config{
		Exporter:    otel.ExporterStdout,
		Scheme:      "http",
		Host:        "127.0.0.1",
		ServiceName: "trace-debug",
		TracerName:  "trace-debug",
		SpanName:    "debug-span",
		Protocol:    otel.ProtocolGRPC,
		Timeout:     10 * time.Second,
		LogLevel:    observability.LogLevelInfo,
		LogFormat:   observability.LogFormatText,
	}
}

// DefaultPort returns the port used by exporter when none is given.
// The second result is false when the exporter has no default.
func DefaultPort(exporter otel.Exporter, protocol otel.Protocol) (uint16, bool) {
	switch exporter {
	case otel.ExporterJaeger:
		return DefaultJaegerAgentPort, true
	case otel.ExporterOTLP:
		if protocol == otel.ProtocolHTTP {
			return DefaultOTLPHTTPPort, true
		}
		return DefaultOTLPGRPCPort, true
	default:
		return 0, false
	}
}

// Resolve applies the default-port policy. An explicit port is always kept.
func (c *Config) Resolve() {
	if c.Port != nil {
		return
	}
	if port, ok := DefaultPort(c.Exporter, c.Protocol); ok {
		c.Port = &port
	}
}

// Validate checks the configuration and returns a *UsageError naming the offending flag.
func (c Config) Validate() error {
	if err := c.Exporter.Validate(); err != nil {
		return &UsageError{Flag: "exporter", Err: err}
	}
	if err := c.Protocol.Validate(); err != nil {
		return &UsageError{Flag: "protocol", Err: err}
	}
	if c.Exporter == otel.ExporterOTLP {
		if c.Scheme != "http" && c.Scheme != "https" {
			return &UsageError{Flag: "scheme", Err: fmt.Errorf("unsupported scheme %q (want http or https)", c.Scheme)}
		}
	}
	if strings.TrimSpace(c.Host) == "" {
		return &UsageError{Flag: "host", Err: errors.New("host cannot be empty")}
	}
	if c.Port != nil && *c.Port == 0 {
		return &UsageError{Flag: "port", Err: errors.New("port must be between 1 and 65535")}
	}
	if c.Port == nil && c.Exporter != otel.ExporterStdout {
		return &UsageError{Flag: "port", Err: fmt.Errorf("no port for exporter %s", c.Exporter)}
	}
	if c.ServiceName == "" {
		return &UsageError{Flag: "service-name", Err: errors.New("service name cannot be empty")}
	}
	if c.TracerName == "" {
		return &UsageError{Flag: "tracer-name", Err: errors.New("tracer name cannot be empty")}
	}
	if c.SpanName == "" {
		return &UsageError{Flag: "span-name", Err: errors.New("span name cannot be empty")}
	}
	if _, err := observability.ParseLogLevel(string(c.LogLevel)); err != nil {
		return &UsageError{Flag: "log-level", Err: err}
	}
	if _, err := observability.ParseLogFormat(string(c.LogFormat)); err != nil {
		return &UsageError{Flag: "log-format", Err: err}
	}
	if c.Timeout <= 0 {
		return &UsageError{Flag: "timeout", Err: errors.New("timeout must be greater than 0")}
	}
	if c.Metrics && c.Exporter != otel.ExporterOTLP {
		return &UsageError{Flag: "metrics", Err: errors.New("metric export requires --exporter otlp")}
	}
	if c.Logs && c.Exporter != otel.ExporterOTLP {
		return &UsageError{Flag: "logs", Err: errors.New("log export requires --exporter otlp")}
	}
	return nil
}

// Endpoint returns host:port, or the bare host when the port is absent.
func (c Config) Endpoint() string {
	if c.Port == nil {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(int(*c.Port)))
}

// EndpointURL returns scheme://host:port.
func (c Config) EndpointURL() string {
	return c.Scheme + "://" + c.Endpoint()
}

// String renders the configuration for the "Using ..." line.
// It stays on one line so the banner can be grepped; no multi-line debug dump is printed.
func (c Config) String() string {
	port := "<none>"
	if c.Port != nil {
		port = strconv.Itoa(int(*c.Port))
	}

	return fmt.Sprintf(
		"Config{Exporter: %s, Scheme: %q, Host: %q, Port: %s, ServiceName: %q, TracerName: %q, SpanName: %q, Number: %d, Protocol: %s, Metrics: %t, Logs: %t, Timeout: %s, LogLevel: %s, LogFormat: %s}",
		c.Exporter, c.Scheme, c.Host, port, c.ServiceName, c.TracerName, c.SpanName, c.Number,
		c.Protocol, c.Metrics, c.Logs, c.Timeout, c.LogLevel, c.LogFormat,
	)
}

// ProviderConfig maps the run configuration onto the backend configuration.
func (c Config) ProviderConfig() *otel.Config {
	return &otel.Config{
		ServiceName: c.ServiceName,
		Exporter:    c.Exporter,
		Protocol:    c.Protocol,
		Endpoint:    c.Endpoint(),
		Insecure:    c.Scheme != "https",
		Metrics:     c.Metrics,
		Logs:        c.Logs,
		Timeout:     c.Timeout,
		LogLevel:    c.LogLevel,
		LogFormat:   c.LogFormat,
	}
}
