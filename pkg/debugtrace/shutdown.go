package debugtrace

import (
	"context"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
)

// Shutdowner releases a tracing backend.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Shutdown drains s within timeout. A failure is logged at warn level and
// returned as *ShutdownWarning; callers should not treat it as fatal.
func Shutdown(ctx context.Context, s Shutdowner, timeout time.Duration, logger observability.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "failed to shut down tracer provider",
			observability.Error(err),
			observability.String("timeout", timeout.String()),
		)
		return &ShutdownWarning{Err: err}
	}
	return nil
}
