package tracing

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartChild_NoParentRecordsNothing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	ctx, span := StartChild(t.Context(), tracer, "usecase.MatchService.Start")
	span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a parent")
	}
	if ctx != t.Context() {
		t.Fatalf("context must be returned unchanged")
	}
	if got := len(recorder.Ended()); got != 0 {
		t.Fatalf("expected no recorded spans, got %d", got)
	}
}

func TestStartChild_UnderParent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	ctx, parent := tracer.Start(t.Context(), "http.request")
	_, child := StartChild(ctx, tracer, "usecase.MatchService.Start", attribute.String("match.id", "m1"))
	child.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected parent and child spans, got %d", len(ended))
	}
	got := ended[0]
	if got.Name() != "usecase.MatchService.Start" || got.Parent().SpanID() != parent.SpanContext().SpanID() {
		t.Fatalf("unexpected child span: name=%s parent=%s", got.Name(), got.Parent().SpanID())
	}
	if attrs := got.Attributes(); len(attrs) != 1 || attrs[0].Value.AsString() != "m1" {
		t.Fatalf("unexpected attributes: %v", attrs)
	}
}

func TestStartChild_EmptyName(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	ctx, parent := tracer.Start(t.Context(), "http.request")
	defer parent.End()

	if _, span := StartChild(ctx, tracer, ""); span != Noop() {
		t.Fatalf("empty name must yield the no-op span")
	}
}
