package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JailtonJunior94/trace-debug/pkg/config"
	"github.com/JailtonJunior94/trace-debug/pkg/debugtrace"
	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/otel"

	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the trace-debug command with args and maps its outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "%s: %v\n", config.Name, err)
	var usageErr *config.UsageError
	if errors.As(err, &usageErr) {
		return exitUsage
	}
	return exitFailure
}

// newRootCommand builds the command. Help goes to stdout; every parse error becomes a *config.UsageError.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           config.Name,
		Short:         "Emit a debug trace to a tracing backend",
		Long:          "Emits a root span and N child spans to a stdout, Jaeger or OTLP exporter and prints their identifiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &config.UsageError{Err: fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.UsageError{Err: err}
	})

	flags := config.BindFlags(root.Flags())
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := flags.Config()
		if err != nil {
			return err
		}
		return session(cmd.Context(), cfg, stdout, stderr)
	}

	return root
}

// session runs one trace-debug session: backend, spans, shutdown.
// The provider is handed to the generator explicitly and never installed as the global tracer provider.
func session(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	fmt.Fprintln(stdout, "Starting trace-debug")
	fmt.Fprintf(stdout, "Using %s\n", cfg)

	providerConfig := cfg.ProviderConfig()
	providerConfig.Output = stdout
	providerConfig.LogOutput = stderr

	initCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	provider, err := otel.NewProvider(initCtx, providerConfig)
	cancel()
	if err != nil {
		return err
	}

	logger := provider.Logger()
	logger.Info(ctx, "backend ready",
		observability.String("exporter", string(cfg.Exporter)),
		observability.String("endpoint", cfg.EndpointURL()),
	)

	generator := debugtrace.NewGenerator(provider, cfg.TracerName, stdout)
	_, runErr := generator.Run(ctx, cfg.SpanName, cfg.Number)

	// Drain even when interrupted so spans already created still reach the backend.
	_ = debugtrace.Shutdown(context.WithoutCancel(ctx), provider, cfg.Timeout, logger)

	if runErr != nil {
		logger.Error(ctx, "span generation failed", observability.Error(runErr))
		return fmt.Errorf("span generation failed: %w", runErr)
	}

	fmt.Fprintln(stdout, "Exiting")
	return nil
}
