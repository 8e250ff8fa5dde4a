// Package observability provides structured logging, metrics, and
// distributed tracing for agenttrace capture.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Spans via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// The reconstruction pipeline (tree, graph) is pure computation and emits
// nothing; observability hangs off the capture SDK and the stores.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds trace context to a logger.
// Returns a new logger with trace_id and agent fields.
func EnrichLogger(logger *slog.Logger, traceID, agentName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("trace_id", traceID),
		slog.String("agent", agentName),
	)
}

// LogTraceStart logs the start of an agent trace.
func LogTraceStart(logger *slog.Logger, traceID, agentName string) {
	if logger == nil {
		return
	}
	logger.Info("trace starting",
		slog.String("trace_id", traceID),
		slog.String("agent", agentName),
	)
}

// LogTraceComplete logs successful trace completion.
func LogTraceComplete(logger *slog.Logger, traceID string, durationMs float64, llmCalls, toolExecutions int) {
	if logger == nil {
		return
	}
	logger.Info("trace completed",
		slog.String("trace_id", traceID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("llm_calls", llmCalls),
		slog.Int("tool_executions", toolExecutions),
	)
}

// LogTraceError logs trace failure.
func LogTraceError(logger *slog.Logger, traceID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("trace failed",
		slog.String("trace_id", traceID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCallRecorded logs a completed call record (llm, tool, stt, tts).
func LogCallRecorded(logger *slog.Logger, kind, name string, durationMs float64, status string) {
	if logger == nil {
		return
	}
	logger.Debug("call recorded",
		slog.String("kind", kind),
		slog.String("name", name),
		slog.Float64("duration_ms", durationMs),
		slog.String("status", status),
	)
}

// LogStoreSave logs a successful trace save.
func LogStoreSave(logger *slog.Logger, traceID string) {
	if logger == nil {
		return
	}
	logger.Debug("trace saved",
		slog.String("trace_id", traceID),
	)
}

// LogStoreError logs a trace save failure (non-fatal).
func LogStoreError(logger *slog.Logger, traceID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("trace save failed",
		slog.String("trace_id", traceID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
