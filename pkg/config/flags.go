package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/otel"
	"github.com/spf13/pflag"
)

// Name is the command name used in usage output.
const Name = "trace-debug"

// Flags holds the values bound to a command's flag set until they are resolved.
type Flags struct {
	fs         *pflag.FlagSet
	cfg        Config
	configPath string
}

// BindFlags registers every trace-debug flag on fs, with DefaultConfig values as defaults.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs, cfg: DefaultConfig()}
	bindFlags(fs, &f.cfg, &f.configPath)
	return f
}

func bindFlags(fs *pflag.FlagSet, cfg *Config, configPath *string) {
	fs.StringVar(configPath, "config", *configPath, "YAML file with default values for the other flags")
	fs.VarP(&exporterValue{target: &cfg.Exporter}, "exporter", "e", "exporter type: stdout, jaeger or otlp")
	fs.StringVar(&cfg.Scheme, "scheme", cfg.Scheme, "scheme of the OTLP endpoint")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host to export to")
	fs.Var(&portValue{target: &cfg.Port}, "port", "port to export to (default: depends on exporter)")
	fs.StringVar(&cfg.ServiceName, "service-name", cfg.ServiceName, "service name")
	fs.StringVarP(&cfg.TracerName, "tracer-name", "t", cfg.TracerName, "tracer name")
	fs.StringVarP(&cfg.SpanName, "span-name", "s", cfg.SpanName, "span name")
	fs.UintVarP(&cfg.Number, "number", "n", cfg.Number, "number of generated child spans")
	fs.Var(&protocolValue{target: &cfg.Protocol}, "protocol", "OTLP transport: grpc or http")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "also export a span counter over OTLP")
	fs.BoolVar(&cfg.Logs, "logs", cfg.Logs, "also export log records over OTLP")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "bound for backend setup, each export and shutdown")
	fs.Var(&logLevelValue{target: &cfg.LogLevel}, "log-level", "diagnostic log level: debug, info, warn or error")
	fs.Var(&logFormatValue{target: &cfg.LogFormat}, "log-format", "diagnostic log format: text or json")
}

// Config returns the resolved, validated configuration once the flag set has been parsed.
// When --config names a YAML file, its values replace the defaults and flags given
// on the command line take precedence over both.
func (f *Flags) Config() (Config, error) {
	cfg := f.cfg

	if f.configPath != "" {
		fileCfg, err := LoadFile(f.configPath)
		if err != nil {
			return Config{}, &UsageError{Flag: "config", Err: err}
		}

		overlay := pflag.NewFlagSet(Name, pflag.ContinueOnError)
		var ignored string
		bindFlags(overlay, &fileCfg, &ignored)

		var overlayErr error
		f.fs.Visit(func(flag *pflag.Flag) {
			if overlayErr != nil || flag.Name == "config" {
				return
			}
			if err := overlay.Set(flag.Name, flag.Value.String()); err != nil {
				overlayErr = &UsageError{Flag: flag.Name, Err: err}
			}
		})
		if overlayErr != nil {
			return Config{}, overlayErr
		}
		cfg = fileCfg
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type exporterValue struct {
	target *otel.Exporter
}

func (v *exporterValue) String() string {
	if v.target == nil {
		return string(otel.ExporterStdout)
	}
	return string(*v.target)
}

func (v *exporterValue) Type() string {
	return "exporter"
}

func (v *exporterValue) Set(s string) error {
	exporter, err := otel.ParseExporter(s)
	if err != nil {
		return err
	}
	*v.target = exporter
	return nil
}

type protocolValue struct {
	target *otel.Protocol
}

func (v *protocolValue) String() string {
	if v.target == nil {
		return string(otel.ProtocolGRPC)
	}
	return string(*v.target)
}

func (v *protocolValue) Type() string {
	return "protocol"
}

func (v *protocolValue) Set(s string) error {
	protocol, err := otel.ParseProtocol(s)
	if err != nil {
		return err
	}
	*v.target = protocol
	return nil
}

type portValue struct {
	target **uint16
}

func (v *portValue) String() string {
	if v.target == nil || *v.target == nil {
		return ""
	}
	return strconv.Itoa(int(**v.target))
}

func (v *portValue) Type() string {
	return "port"
}

func (v *portValue) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return errors.New("port out of range (1-65535)")
		}
		return fmt.Errorf("port must be a number")
	}
	port := uint16(n)
	*v.target = &port
	return nil
}

type logLevelValue struct {
	target *observability.LogLevel
}

func (v *logLevelValue) String() string {
	if v.target == nil {
		return string(observability.LogLevelInfo)
	}
	return string(*v.target)
}

func (v *logLevelValue) Type() string {
	return "level"
}

func (v *logLevelValue) Set(s string) error {
	level, err := observability.ParseLogLevel(s)
	if err != nil {
		return err
	}
	*v.target = level
	return nil
}

type logFormatValue struct {
	target *observability.LogFormat
}

func (v *logFormatValue) String() string {
	if v.target == nil {
		return string(observability.LogFormatText)
	}
	return string(*v.target)
}

func (v *logFormatValue) Type() string {
	return "format"
}

func (v *logFormatValue) Set(s string) error {
	format, err := observability.ParseLogFormat(s)
	if err != nil {
		return err
	}
	*v.target = format
	return nil
}
