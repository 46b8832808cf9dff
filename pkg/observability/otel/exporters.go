package otel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// createTraceExporter creates the span exporter selected by the configuration.
func (p *Provider) createTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	switch p.config.Exporter {
	case ExporterJaeger:
		return p.createJaegerExporter()
	case ExporterOTLP:
		if err := validateOTLPEndpoint(p.config.Endpoint, p.config.Insecure); err != nil {
			return nil, err
		}
		return p.createOTLPTraceExporter(ctx)
	default:
		return stdouttrace.New(
			stdouttrace.WithWriter(p.config.Output),
			stdouttrace.WithPrettyPrint(),
		)
	}
}

// createJaegerExporter creates a Thrift-over-UDP agent exporter.
// Reconnection is disabled so an unresolvable agent address fails here instead of at export time.
func (p *Provider) createJaegerExporter() (sdktrace.SpanExporter, error) {
	host, port, err := net.SplitHostPort(p.config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid agent endpoint %q: %w", p.config.Endpoint, err)
	}

	return jaeger.New(jaeger.WithAgentEndpoint(
		jaeger.WithAgentHost(host),
		jaeger.WithAgentPort(port),
		jaeger.WithDisableAttemptReconnecting(),
	))
}

// validateOTLPEndpoint rejects endpoints the OTLP exporters would only fail on at export time.
// Both exporters connect lazily, so this is the last point where a bad address can stop the run.
func validateOTLPEndpoint(endpoint string, insecure bool) error {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return fmt.Errorf("invalid collector endpoint %q: %w", endpoint, err)
	}
	if err := validateHost(host); err != nil {
		return fmt.Errorf("invalid collector endpoint %q: %w", endpoint, err)
	}
	if n, err := strconv.ParseUint(port, 10, 16); err != nil || n == 0 {
		return fmt.Errorf("invalid collector endpoint %q: port must be between 1 and 65535", endpoint)
	}

	scheme := "https"
	if insecure {
		scheme = "http"
	}
	if _, err := url.Parse(scheme + "://" + endpoint); err != nil {
		return fmt.Errorf("invalid collector endpoint: %w", err)
	}
	return nil
}

// validateHost accepts IP literals and DNS names made of letters, digits, '-', '_' and '.'.
func validateHost(host string) error {
	if host == "" {
		return errors.New("host cannot be empty")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return errors.New("host name too long")
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("invalid host name %q", host)
		}
		for _, r := range label {
			isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !isAlnum && r != '-' && r != '_' {
				return fmt.Errorf("invalid character %q in host name %q", r, host)
			}
		}
	}
	return nil
}

// createOTLPTraceExporter creates the OTLP span exporter for the configured protocol.
func (p *Provider) createOTLPTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if p.config.Protocol == ProtocolHTTP {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Timeout > 0 {
			opts = append(opts, otlptracehttp.WithTimeout(p.config.Timeout))
		}
		if p.config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		// Otherwise system default TLS is used

		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(p.config.Endpoint),
	}
	if p.config.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(p.config.Timeout))
	}
	if p.config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	return otlptracegrpc.New(ctx, opts...)
}

// createMetricExporter creates the appropriate metric exporter based on protocol.
func (p *Provider) createMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	if p.config.Protocol == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Timeout > 0 {
			opts = append(opts, otlpmetrichttp.WithTimeout(p.config.Timeout))
		}
		if p.config.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(p.config.Endpoint),
	}
	if p.config.Timeout > 0 {
		opts = append(opts, otlpmetricgrpc.WithTimeout(p.config.Timeout))
	}
	if p.config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	return otlpmetricgrpc.New(ctx, opts...)
}

// createLogExporter creates the appropriate log exporter based on protocol.
func (p *Provider) createLogExporter(ctx context.Context) (sdklog.Exporter, error) {
	if p.config.Protocol == ProtocolHTTP {
		opts := []otlploghttp.Option{
			otlploghttp.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Timeout > 0 {
			opts = append(opts, otlploghttp.WithTimeout(p.config.Timeout))
		}
		if p.config.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}

		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(p.config.Endpoint),
	}
	if p.config.Timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(p.config.Timeout))
	}
	if p.config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else {
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	return otlploggrpc.New(ctx, opts...)
}
