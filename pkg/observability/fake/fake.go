package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
)

// Provider implements a fake observability provider for testing purposes.
// It captures all operations so they can be inspected in tests.
type Provider struct {
	tracer  *FakeTracer
	logger  *FakeLogger
	metrics *FakeMetrics

	mu            sync.Mutex
	shutdownErr   error
	shutdownDelay time.Duration
	shutdownCalls int
}

// NewProvider creates a new fake observability provider for testing.
func NewProvider() *Provider {
	return &Provider{
		tracer:  NewFakeTracer(),
		logger:  NewFakeLogger(),
		metrics: NewFakeMetrics(),
	}
}

// Tracer returns the fake tracer. The instrumentation name is recorded on every span it starts.
func (p *Provider) Tracer(name string) observability.Tracer {
	return p.tracer.named(name)
}

// Logger returns the fake logger.
func (p *Provider) Logger() observability.Logger {
	return p.logger
}

// Metrics returns the fake metrics recorder.
func (p *Provider) Metrics() observability.Metrics {
	return p.metrics
}

// FailShutdown makes every subsequent Shutdown call return err.
func (p *Provider) FailShutdown(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownErr = err
}

// DelayShutdown makes Shutdown block for d or until its context is done.
func (p *Provider) DelayShutdown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdownDelay = d
}

// Shutdown counts the call and returns the configured error.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.shutdownCalls++
	delay, err := p.shutdownDelay, p.shutdownErr
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// ShutdownCalls returns how many times Shutdown was called.
func (p *Provider) ShutdownCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdownCalls
}

// FakeTracer captures all tracing operations for test assertions.
// Identifiers are deterministic: trace ids and span ids are sequential hex strings.
type FakeTracer struct {
	state *tracerState
	name  string
}

type tracerState struct {
	mu        sync.RWMutex
	spans     []*FakeSpan
	nextTrace uint64
	nextSpan  uint64
}

type spanKey struct{}

// NewFakeTracer creates a new fake tracer.
func NewFakeTracer() *FakeTracer {
	return &FakeTracer{state: &tracerState{spans: make([]*FakeSpan, 0)}}
}

func (t *FakeTracer) named(name string) *FakeTracer {
	return &FakeTracer{state: t.state, name: name}
}

// Start creates a fake span, parented to the span stored in ctx, and captures it.
func (t *FakeTracer) Start(ctx context.Context, spanName string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	config := observability.NewSpanConfig(opts)
	parent, _ := ctx.Value(spanKey{}).(*FakeSpan)

	t.state.mu.Lock()
	t.state.nextSpan++
	span := &FakeSpan{
		Name:       spanName,
		TracerName: t.name,
		StartTime:  time.Now(),
		Attributes: config.Attributes(),
		Parent:     parent,
		spanID:     fmt.Sprintf("%016x", t.state.nextSpan),
	}
	if parent != nil {
		span.traceID = parent.traceID
	} else {
		t.state.nextTrace++
		span.traceID = fmt.Sprintf("%032x", t.state.nextTrace)
	}
	t.state.spans = append(t.state.spans, span)
	t.state.mu.Unlock()

	return context.WithValue(ctx, spanKey{}, span), span
}

// GetSpans returns all captured spans (for test assertions).
func (t *FakeTracer) GetSpans() []*FakeSpan {
	t.state.mu.RLock()
	defer t.state.mu.RUnlock()
	result := make([]*FakeSpan, len(t.state.spans))
	copy(result, t.state.spans)
	return result
}

// Reset clears all captured spans.
func (t *FakeTracer) Reset() {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	t.state.spans = make([]*FakeSpan, 0)
}

// FakeSpan captures span operations for test assertions.
type FakeSpan struct {
	mu          sync.RWMutex
	Name        string
	TracerName  string
	StartTime   time.Time
	EndTime     *time.Time
	Attributes  []observability.Field
	RecordedErr error
	Parent      *FakeSpan

	traceID string
	spanID  string
}

// End marks the span as ended.
func (s *FakeSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
}

// Ended reports whether End was called.
func (s *FakeSpan) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.EndTime != nil
}

// RecordError records an error on the span.
func (s *FakeSpan) RecordError(err error, fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RecordedErr = err
	s.Attributes = append(s.Attributes, fields...)
}

// Context returns the span's identifiers.
func (s *FakeSpan) Context() observability.SpanContext {
	return &FakeSpanContext{
		traceID: s.traceID,
		spanID:  s.spanID,
	}
}

// FakeSpanContext implements a fake span context.
type FakeSpanContext struct {
	traceID string
	spanID  string
}

// TraceID returns the fake trace ID.
func (c *FakeSpanContext) TraceID() string {
	return c.traceID
}

// SpanID returns the fake span ID.
func (c *FakeSpanContext) SpanID() string {
	return c.spanID
}

// FakeLogger captures all log operations for test assertions.
type FakeLogger struct {
	mu      *sync.RWMutex
	entries *[]LogEntry
	fields  []observability.Field
}

// NewFakeLogger creates a new fake logger.
func NewFakeLogger() *FakeLogger {
	entries := make([]LogEntry, 0)
	return &FakeLogger{
		mu:      &sync.RWMutex{},
		entries: &entries,
		fields:  make([]observability.Field, 0),
	}
}

// Debug captures a debug log entry.
func (l *FakeLogger) Debug(ctx context.Context, msg string, fields ...observability.Field) {
	l.record(observability.LogLevelDebug, msg, fields)
}

// Info captures an info log entry.
func (l *FakeLogger) Info(ctx context.Context, msg string, fields ...observability.Field) {
	l.record(observability.LogLevelInfo, msg, fields)
}

// Warn captures a warn log entry.
func (l *FakeLogger) Warn(ctx context.Context, msg string, fields ...observability.Field) {
	l.record(observability.LogLevelWarn, msg, fields)
}

// Error captures an error log entry.
func (l *FakeLogger) Error(ctx context.Context, msg string, fields ...observability.Field) {
	l.record(observability.LogLevelError, msg, fields)
}

func (l *FakeLogger) record(level observability.LogLevel, msg string, fields []observability.Field) {
	all := make([]observability.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{
		Level:     level,
		Message:   msg,
		Fields:    all,
		Timestamp: time.Now(),
	})
}

// With creates a child logger with additional fields.
func (l *FakeLogger) With(fields ...observability.Field) observability.Logger {
	merged := make([]observability.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &FakeLogger{
		mu:      l.mu,
		entries: l.entries,
		fields:  merged,
	}
}

// GetEntries returns all captured log entries (for test assertions).
func (l *FakeLogger) GetEntries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]LogEntry, len(*l.entries))
	copy(result, *l.entries)
	return result
}

// Reset clears all captured log entries.
func (l *FakeLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = make([]LogEntry, 0)
}

// LogEntry represents a captured log entry.
type LogEntry struct {
	Level     observability.LogLevel
	Message   string
	Fields    []observability.Field
	Timestamp time.Time
}

// Field returns the value of the first field named key.
func (e LogEntry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// FakeMetrics captures all metrics operations for test assertions.
type FakeMetrics struct {
	mu       sync.RWMutex
	counters map[string]*FakeCounter
}

// NewFakeMetrics creates a new fake metrics recorder.
func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		counters: make(map[string]*FakeCounter),
	}
}

// Counter returns or creates a fake counter.
func (m *FakeMetrics) Counter(name, description, unit string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, exists := m.counters[name]; exists {
		return c
	}

	c := &FakeCounter{
		Name:        name,
		Description: description,
		Unit:        unit,
		values:      make([]CounterValue, 0),
	}
	m.counters[name] = c
	return c
}

// GetCounter returns a counter by name for test assertions.
func (m *FakeMetrics) GetCounter(name string) *FakeCounter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

// FakeCounter captures counter operations.
type FakeCounter struct {
	mu          sync.RWMutex
	Name        string
	Description string
	Unit        string
	values      []CounterValue
}

// Add captures a counter increment.
func (c *FakeCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, CounterValue{
		Value:     value,
		Fields:    fields,
		Timestamp: time.Now(),
	})
}

// Increment increments the counter by 1.
func (c *FakeCounter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

// GetValues returns all captured values.
func (c *FakeCounter) GetValues() []CounterValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CounterValue, len(c.values))
	copy(result, c.values)
	return result
}

// Total returns the sum of all captured values.
func (c *FakeCounter) Total() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, v := range c.values {
		total += v.Value
	}
	return total
}

// CounterValue represents a captured counter value.
type CounterValue struct {
	Value     int64
	Fields    []observability.Field
	Timestamp time.Time
}
