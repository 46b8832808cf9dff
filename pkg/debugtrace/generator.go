package debugtrace

import (
	"context"
	"fmt"
	"io"

	"github.com/JailtonJunior94/trace-debug/pkg/observability"
)

const (
	// ChildIndexAttribute carries the position of a child span under the root.
	ChildIndexAttribute = "trace_debug.child.index"
	// SpansCreatedMetric counts every span the generator starts.
	SpansCreatedMetric = "trace_debug.spans.created"
)

// RootIndex is the SpanReport.Index of the root span.
const RootIndex = -1

// maxPreallocatedReports caps the report slice capacity reserved up front; --number is user input.
const maxPreallocatedReports uint = 1024

// SpanReport holds the identifiers of one generated span.
type SpanReport struct {
	TraceID      string
	SpanID       string
	ParentSpanID string // empty for the root span
	Name         string
	Index        int // RootIndex for the root, 0..n-1 for children
}

// Generator starts one root span and a number of sibling child spans,
// printing the identifiers of each one as it is created.
type Generator struct {
	tracer  observability.Tracer
	logger  observability.Logger
	created observability.Counter
	out     io.Writer
}

// NewGenerator creates a Generator that traces with the tracer named tracerName
// and writes one line per span to out.
func NewGenerator(o11y observability.Observability, tracerName string, out io.Writer) *Generator {
	return &Generator{
		tracer:  o11y.Tracer(tracerName),
		logger:  o11y.Logger().With(observability.String("tracer", tracerName)),
		created: o11y.Metrics().Counter(SpansCreatedMetric, "Number of spans created by trace-debug", "{span}"),
		out:     out,
	}
}

// Run creates the root span, then number children parented to the root (never to each other),
// and ends the root last. Reports are returned in creation order.
func (g *Generator) Run(ctx context.Context, spanName string, number uint) ([]SpanReport, error) {
	reports := make([]SpanReport, 0, min(number, maxPreallocatedReports)+1)

	rootCtx, root := g.tracer.Start(ctx, spanName)
	defer root.End()

	rootReport, err := g.report(rootCtx, root, spanName, RootIndex, "")
	if err != nil {
		return reports, err
	}
	reports = append(reports, rootReport)

	for i := uint(0); i < number; i++ {
		if err := ctx.Err(); err != nil {
			return reports, fmt.Errorf("span generation interrupted after %d children: %w", i, err)
		}

		index := int(i)
		childCtx, child := g.tracer.Start(rootCtx, spanName,
			observability.WithAttributes(observability.Int(ChildIndexAttribute, index)),
		)
		report, err := g.report(childCtx, child, spanName, index, rootReport.SpanID)
		child.End()
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (g *Generator) report(ctx context.Context, span observability.Span, name string, index int, parentSpanID string) (SpanReport, error) {
	sc := span.Context()
	report := SpanReport{
		TraceID:      sc.TraceID(),
		SpanID:       sc.SpanID(),
		ParentSpanID: parentSpanID,
		Name:         name,
		Index:        index,
	}

	if _, err := fmt.Fprintf(g.out, "Created span with traceid %s and spanid %s\n", report.TraceID, report.SpanID); err != nil {
		span.RecordError(err)
		return report, fmt.Errorf("failed to report span %s: %w", report.SpanID, err)
	}

	g.created.Increment(ctx, observability.Bool("root", index == RootIndex))
	g.logger.Debug(ctx, "span created",
		observability.String("span_name", name),
		observability.Int("index", index),
	)

	return report, nil
}
