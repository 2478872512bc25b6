package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/matchday/internal/platform/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("github.com/riskibarqy/matchday/internal/interfaces/httpapi")

// startSpan records handler spans only. Middleware steps and helpers share
// the otelhttp server span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !isHandlerSpan(name) {
		return ctx, tracing.Noop()
	}
	return tracing.StartChild(ctx, apiTracer, name, attrs...)
}

func isHandlerSpan(name string) bool {
	rest, ok := strings.CutPrefix(name, "httpapi.Handler.")
	return ok && rest != "" && !strings.HasPrefix(rest, "validate")
}
