package fake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/fake"
)

var _ observability.Observability = (*fake.Provider)(nil)

func TestFakeProvider(t *testing.T) {
	provider := fake.NewProvider()

	if provider.Tracer("test") == nil {
		t.Error("Tracer() should not return nil")
	}

	if provider.Logger() == nil {
		t.Error("Logger() should not return nil")
	}

	if provider.Metrics() == nil {
		t.Error("Metrics() should not return nil")
	}
}

func TestFakeTracer(t *testing.T) {
	provider := fake.NewProvider()
	tracer := provider.Tracer("fake-tracer").(*fake.FakeTracer)

	t.Run("captures spans", func(t *testing.T) {
		tracer.Reset()
		ctx := context.Background()

		_, span := tracer.Start(ctx, "test-span",
			observability.WithAttributes(
				observability.String("key", "value"),
				observability.Int("count", 42),
			),
		)

		span.End()

		spans := tracer.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}

		capturedSpan := spans[0]
		if capturedSpan.Name != "test-span" {
			t.Errorf("expected span name 'test-span', got %s", capturedSpan.Name)
		}

		if capturedSpan.TracerName != "fake-tracer" {
			t.Errorf("expected tracer name 'fake-tracer', got %s", capturedSpan.TracerName)
		}

		if !capturedSpan.Ended() {
			t.Error("span should be ended")
		}

		if len(capturedSpan.Attributes) != 2 {
			t.Errorf("expected 2 attributes, got %d", len(capturedSpan.Attributes))
		}
	})

	t.Run("parents spans through the context", func(t *testing.T) {
		tracer.Reset()

		ctx, root := tracer.Start(context.Background(), "root")
		_, child := tracer.Start(ctx, "child")

		if child.Context().TraceID() != root.Context().TraceID() {
			t.Errorf("child trace id %s differs from root %s", child.Context().TraceID(), root.Context().TraceID())
		}
		if child.Context().SpanID() == root.Context().SpanID() {
			t.Error("child and root share a span id")
		}

		spans := tracer.GetSpans()
		if spans[1].Parent != spans[0] {
			t.Error("child span is not parented to root")
		}
	})

	t.Run("new roots start new traces", func(t *testing.T) {
		_, first := tracer.Start(context.Background(), "a")
		_, second := tracer.Start(context.Background(), "b")

		if first.Context().TraceID() == second.Context().TraceID() {
			t.Error("independent roots should not share a trace id")
		}
		if len(first.Context().TraceID()) != 32 || len(first.Context().SpanID()) != 16 {
			t.Errorf("unexpected id widths: %q %q", first.Context().TraceID(), first.Context().SpanID())
		}
	})

	t.Run("captures errors", func(t *testing.T) {
		tracer.Reset()

		_, span := tracer.Start(context.Background(), "error-span")
		testErr := errors.New("test error")
		span.RecordError(testErr, observability.String("error_code", "TEST_ERROR"))
		span.End()

		spans := tracer.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}

		if !errors.Is(spans[0].RecordedErr, testErr) {
			t.Errorf("expected error %v, got %v", testErr, spans[0].RecordedErr)
		}
	})
}

func TestFakeLogger(t *testing.T) {
	provider := fake.NewProvider()
	logger := provider.Logger().(*fake.FakeLogger)

	t.Run("captures all log levels", func(t *testing.T) {
		logger.Reset()
		ctx := context.Background()

		logger.Debug(ctx, "debug message", observability.String("level", "debug"))
		logger.Info(ctx, "info message", observability.String("level", "info"))
		logger.Warn(ctx, "warn message", observability.String("level", "warn"))
		logger.Error(ctx, "error message", observability.String("level", "error"))

		entries := logger.GetEntries()
		if len(entries) != 4 {
			t.Fatalf("expected 4 log entries, got %d", len(entries))
		}

		expectedLevels := []observability.LogLevel{
			observability.LogLevelDebug,
			observability.LogLevelInfo,
			observability.LogLevelWarn,
			observability.LogLevelError,
		}

		for i, entry := range entries {
			if entry.Level != expectedLevels[i] {
				t.Errorf("entry %d: expected level %s, got %s", i, expectedLevels[i], entry.Level)
			}
		}
	})

	t.Run("child logger includes parent fields", func(t *testing.T) {
		logger.Reset()
		ctx := context.Background()

		childLogger := logger.With(observability.String("service", "test"))
		childLogger.Info(ctx, "test message", observability.String("request_id", "123"))

		entries := logger.GetEntries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 log entry, got %d", len(entries))
		}

		if v, ok := entries[0].Field("service"); !ok || v != "test" {
			t.Errorf("expected service field from parent, got %v", v)
		}
		if v, ok := entries[0].Field("request_id"); !ok || v != "123" {
			t.Errorf("expected request_id field, got %v", v)
		}
	})
}

func TestFakeMetrics(t *testing.T) {
	provider := fake.NewProvider()
	metrics := provider.Metrics().(*fake.FakeMetrics)
	ctx := context.Background()

	counter := metrics.Counter("test.counter", "A test counter", "1")
	counter.Add(ctx, 1, observability.String("method", "GET"))
	counter.Increment(ctx)
	counter.Add(ctx, 5)

	fakeCounter := metrics.GetCounter("test.counter")
	if fakeCounter == nil {
		t.Fatal("counter should exist")
	}

	if got := len(fakeCounter.GetValues()); got != 3 {
		t.Fatalf("expected 3 values, got %d", got)
	}

	if fakeCounter.Total() != 7 {
		t.Errorf("expected total 7, got %d", fakeCounter.Total())
	}

	if metrics.Counter("test.counter", "", "") != fakeCounter {
		t.Error("Counter should return the existing instrument")
	}
}

func TestFakeProviderShutdown(t *testing.T) {
	t.Run("counts calls and returns configured error", func(t *testing.T) {
		provider := fake.NewProvider()
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantErr := errors.New("flush failed")
		provider.FailShutdown(wantErr)
		if err := provider.Shutdown(context.Background()); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}

		if provider.ShutdownCalls() != 2 {
			t.Errorf("expected 2 calls, got %d", provider.ShutdownCalls())
		}
	})

	t.Run("delayed shutdown honours context", func(t *testing.T) {
		provider := fake.NewProvider()
		provider.DelayShutdown(time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if err := provider.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}
