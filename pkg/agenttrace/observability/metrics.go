package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records agenttrace capture metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCall records a completed call record with its kind, duration,
	// and error status.
	RecordCall(ctx context.Context, kind string, duration time.Duration, err error)

	// RecordTraceRun records a completed agent trace.
	RecordTraceRun(ctx context.Context, success bool, duration time.Duration, callCount int)

	// RecordStoreSave records a trace save operation.
	RecordStoreSave(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	callCount    metric.Int64Counter
	callLatency  metric.Float64Histogram
	callErrors   metric.Int64Counter
	traceRuns    metric.Int64Counter
	traceLatency metric.Float64Histogram
	traceCalls   metric.Int64Histogram
	saveSize     metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("agenttrace")

	callCount, err := meter.Int64Counter("agenttrace.call.count",
		metric.WithDescription("Number of recorded calls"),
	)
	if err != nil {
		return nil, err
	}

	callLatency, err := meter.Float64Histogram("agenttrace.call.latency_ms",
		metric.WithDescription("Call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	callErrors, err := meter.Int64Counter("agenttrace.call.errors",
		metric.WithDescription("Number of calls that ended in error"),
	)
	if err != nil {
		return nil, err
	}

	traceRuns, err := meter.Int64Counter("agenttrace.trace.runs",
		metric.WithDescription("Number of completed agent traces"),
	)
	if err != nil {
		return nil, err
	}

	traceLatency, err := meter.Float64Histogram("agenttrace.trace.latency_ms",
		metric.WithDescription("Agent trace latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	traceCalls, err := meter.Int64Histogram("agenttrace.trace.calls",
		metric.WithDescription("Number of call records per trace"),
	)
	if err != nil {
		return nil, err
	}

	saveSize, err := meter.Int64Histogram("agenttrace.store.save_bytes",
		metric.WithDescription("Serialized trace size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		callCount:    callCount,
		callLatency:  callLatency,
		callErrors:   callErrors,
		traceRuns:    traceRuns,
		traceLatency: traceLatency,
		traceCalls:   traceCalls,
		saveSize:     saveSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCall records a completed call record.
func (m *otelMetrics) RecordCall(ctx context.Context, kind string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
	}

	m.callCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.callLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.callErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordTraceRun records a completed agent trace.
func (m *otelMetrics) RecordTraceRun(ctx context.Context, success bool, duration time.Duration, callCount int) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.traceRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.traceLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.traceCalls.Record(ctx, int64(callCount), metric.WithAttributes(attrs...))
}

// RecordStoreSave records a trace save.
func (m *otelMetrics) RecordStoreSave(ctx context.Context, sizeBytes int64) {
	m.saveSize.Record(ctx, sizeBytes)
}
