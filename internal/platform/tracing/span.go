package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var noop = trace.SpanFromContext(context.Background())

// StartChild opens a span under the span already in ctx. Without a sampled
// parent it returns ctx unchanged and a no-op span, so health checks and the
// live socket never produce orphan roots.
func StartChild(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noop
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Noop is the span handed out when nothing is recorded.
func Noop() trace.Span {
	return noop
}
