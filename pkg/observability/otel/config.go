package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/noop"
	"go.opentelemetry.io/otel"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Exporter selects the backend spans are sent to.
type Exporter string

const (
	// ExporterStdout prints every finished span to the console.
	ExporterStdout Exporter = "stdout"
	// ExporterJaeger ships spans to a Jaeger agent over UDP (default: port 6831).
	ExporterJaeger Exporter = "jaeger"
	// ExporterOTLP ships spans to an OTLP collector (default: port 4317).
	ExporterOTLP Exporter = "otlp"
)

// ParseExporter returns the Exporter named by s, case-insensitively.
func ParseExporter(s string) (Exporter, error) {
	exporter := Exporter(strings.ToLower(s))
	if err := exporter.Validate(); err != nil {
		return "", err
	}
	return exporter, nil
}

// Validate reports whether e is a known exporter.
func (e Exporter) Validate() error {
	switch e {
	case ExporterStdout, ExporterJaeger, ExporterOTLP:
		return nil
	default:
		return fmt.Errorf("unknown exporter %q (want stdout, jaeger or otlp)", string(e))
	}
}

// Protocol defines the protocol to use for OTLP export.
type Protocol string

const (
	// ProtocolGRPC uses gRPC protocol for OTLP export (default: port 4317).
	ProtocolGRPC Protocol = "grpc"
	// ProtocolHTTP uses HTTP/protobuf protocol for OTLP export (default: port 4318).
	ProtocolHTTP Protocol = "http"
)

// ParseProtocol returns the Protocol named by s. Unlike normalizeProtocol it rejects unknown values.
func ParseProtocol(s string) (Protocol, error) {
	protocol := Protocol(strings.ToLower(s))
	if protocol == "http/protobuf" {
		protocol = ProtocolHTTP
	}
	if err := protocol.Validate(); err != nil {
		return "", err
	}
	return protocol, nil
}

// Validate reports whether p is a known protocol.
func (p Protocol) Validate() error {
	switch p {
	case ProtocolGRPC, ProtocolHTTP:
		return nil
	default:
		return fmt.Errorf("unknown protocol %q (want grpc or http)", string(p))
	}
}

// normalizeProtocol normalizes the protocol string to a valid Protocol.
func normalizeProtocol(protocol string) Protocol {
	switch strings.ToLower(protocol) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

// Config holds the configuration for the OpenTelemetry provider.
type Config struct {
	ServiceName string
	Exporter    Exporter
	Protocol    Protocol // "grpc" or "http", defaults to "grpc"; OTLP only

	// Endpoint is host:port of the Jaeger agent or OTLP collector. Ignored by stdout.
	Endpoint string

	// Insecure selects plaintext OTLP transport; otherwise system root TLS is used.
	Insecure bool

	// Metrics and Logs enable the OTLP metric and log pipelines.
	Metrics bool
	Logs    bool

	// Timeout bounds each OTLP export request. Zero keeps the exporter default.
	Timeout time.Duration

	// Output receives console-exported spans. Defaults to os.Stdout.
	Output io.Writer

	// Log configuration; diagnostics go to LogOutput (defaults to os.Stderr).
	LogLevel  observability.LogLevel
	LogFormat observability.LogFormat
	LogOutput io.Writer
}

// Provider implements the observability.Observability interface using OpenTelemetry.
// It owns the installed backend; Shutdown releases it exactly once.
type Provider struct {
	config         *Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	logger         *otelLogger
	metrics        observability.Metrics
	shutdownFuncs  []func(context.Context) error

	shutdownOnce sync.Once
	shutdownErr  error
}

// validateConfig checks the fields NewProvider relies on.
func validateConfig(config *Config) error {
	if config.ServiceName == "" {
		return errors.New("service name cannot be empty")
	}
	if err := config.Exporter.Validate(); err != nil {
		return err
	}
	if config.Exporter != ExporterStdout && config.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty for %s exporter", config.Exporter)
	}
	if (config.Metrics || config.Logs) && config.Exporter != ExporterOTLP {
		return errors.New("metric and log export require the otlp exporter")
	}
	return nil
}

// NewProvider creates and initializes a new OpenTelemetry provider.
// Exporter construction failures are returned as *BackendInitError.
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	config.Protocol = normalizeProtocol(string(config.Protocol))
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.LogOutput == nil {
		config.LogOutput = os.Stderr
	}

	provider := &Provider{
		config:        config,
		metrics:       noop.NewMetrics(),
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	// The console logger exists before any exporter so construction errors surfaced
	// through the SDK error handler are not lost.
	provider.logger = newOtelLogger(config.LogLevel, config.LogFormat, config.ServiceName, config.LogOutput, nil)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(provider.handleError))

	res, err := provider.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := provider.initTracerProvider(ctx, res); err != nil {
		return nil, err
	}

	if config.Metrics {
		if err := provider.initMeterProvider(ctx, res); err != nil {
			provider.abort(ctx)
			return nil, err
		}
	}

	if config.Logs {
		if err := provider.initLoggerProvider(ctx, res); err != nil {
			provider.abort(ctx)
			return nil, err
		}
	}

	return provider, nil
}

// createResource creates a resource carrying service.name and nothing else.
func (p *Provider) createResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(p.config.ServiceName),
		),
	)
}

// initTracerProvider initializes the tracer provider with a synchronous span processor.
func (p *Provider) initTracerProvider(ctx context.Context, res *resource.Resource) error {
	exporter, err := p.createTraceExporter(ctx)
	if err != nil {
		return &BackendInitError{Exporter: p.config.Exporter, Err: err}
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exporter),
	)

	p.shutdownFuncs = append(p.shutdownFuncs, p.tracerProvider.Shutdown)
	return nil
}

// initMeterProvider initializes the OpenTelemetry meter provider.
func (p *Provider) initMeterProvider(ctx context.Context, res *resource.Resource) error {
	exporter, err := p.createMetricExporter(ctx)
	if err != nil {
		return &BackendInitError{Exporter: p.config.Exporter, Err: fmt.Errorf("metrics: %w", err)}
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)

	p.metrics = newOtelMetrics(p.meterProvider.Meter(p.config.ServiceName))
	p.shutdownFuncs = append(p.shutdownFuncs, p.meterProvider.Shutdown)
	return nil
}

// initLoggerProvider initializes the OpenTelemetry logger provider.
func (p *Provider) initLoggerProvider(ctx context.Context, res *resource.Resource) error {
	exporter, err := p.createLogExporter(ctx)
	if err != nil {
		return &BackendInitError{Exporter: p.config.Exporter, Err: fmt.Errorf("logs: %w", err)}
	}

	p.loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)),
	)

	p.logger = newOtelLogger(
		p.config.LogLevel,
		p.config.LogFormat,
		p.config.ServiceName,
		p.config.LogOutput,
		p.loggerProvider.Logger(p.config.ServiceName),
	)
	p.shutdownFuncs = append(p.shutdownFuncs, p.loggerProvider.Shutdown)
	return nil
}

// abort releases whatever was built before a failed initialization step.
func (p *Provider) abort(ctx context.Context) {
	if err := p.Shutdown(ctx); err != nil {
		p.logger.Warn(ctx, "failed to release partially initialized provider", observability.Error(err))
	}
}

// handleError receives errors the SDK cannot return to a caller, such as failed exports.
// NewProvider installs it as the process-wide OTel error handler.
func (p *Provider) handleError(err error) {
	p.logger.Warn(context.Background(), "telemetry export error",
		observability.String("exporter", string(p.config.Exporter)),
		observability.Error(err),
	)
}

// Tracer returns a tracer for the given instrumentation name.
func (p *Provider) Tracer(name string) observability.Tracer {
	return newOtelTracer(p.tracerProvider.Tracer(name))
}

// Logger returns the provider's logger.
func (p *Provider) Logger() observability.Logger {
	return p.logger
}

// Metrics returns the metrics recorder; it discards values unless metric export is enabled.
func (p *Provider) Metrics() observability.Metrics {
	return p.metrics
}

// Shutdown flushes and closes every pipeline. Only the first call does any work;
// later calls return the first result.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		var errs []error
		for _, shutdown := range p.shutdownFuncs {
			if err := shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			p.shutdownErr = fmt.Errorf("errors during shutdown: %w", errors.Join(errs...))
		}
	})
	return p.shutdownErr
}
