package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the agenttrace tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("agenttrace")

// SpanManager handles span lifecycle for traced calls.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTraceSpan starts a span covering the whole agent trace.
	// Returns the context with span and the span itself.
	StartTraceSpan(ctx context.Context, agentName, traceID string) (context.Context, trace.Span)

	// StartCallSpan starts a span for a single call record (llm, tool,
	// stt, tts). The call span should be a child of the trace span.
	StartCallSpan(ctx context.Context, kind, name string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartTraceSpan starts a span covering the whole agent trace.
func (m *otelSpanManager) StartTraceSpan(ctx context.Context, agentName, traceID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "agenttrace.trace",
		trace.WithAttributes(
			attribute.String("agent.name", agentName),
			attribute.String("trace.id", traceID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCallSpan starts a span for a single call record.
func (m *otelSpanManager) StartCallSpan(ctx context.Context, kind, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "agenttrace.call."+kind,
		trace.WithAttributes(
			attribute.String("call.kind", kind),
			attribute.String("call.name", name),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
