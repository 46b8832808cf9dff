package debugtrace_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/JailtonJunior94/trace-debug/pkg/debugtrace"
	"github.com/JailtonJunior94/trace-debug/pkg/observability/fake"
)

func ExampleGenerator_Run() {
	ctx := context.Background()
	provider := fake.NewProvider()

	reports, err := debugtrace.NewGenerator(provider, "example", os.Stdout).Run(ctx, "debug-span", 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = debugtrace.Shutdown(ctx, provider, time.Second, provider.Logger())

	fmt.Println(len(reports), "spans, children parented to", reports[1].ParentSpanID)
	// Output:
	// Created span with traceid 00000000000000000000000000000001 and spanid 0000000000000001
	// Created span with traceid 00000000000000000000000000000001 and spanid 0000000000000002
	// Created span with traceid 00000000000000000000000000000001 and spanid 0000000000000003
	// 3 spans, children parented to 0000000000000001
}
