package agenttrace

import (
	"context"
)

// ctxKey is the private type for context values set by this package.
type ctxKey int

const (
	traceKey ctxKey = iota
	llmCallKey
)

// ContextWithTrace returns a context carrying the trace.
// All Record* functions append to the trace found on the context.
func ContextWithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey, t)
}

// TraceFromContext returns the ambient trace, if any.
func TraceFromContext(ctx context.Context) (*Trace, bool) {
	t, ok := ctx.Value(traceKey).(*Trace)
	return t, ok
}

// ContextWithLLMCall returns a context carrying the in-flight LLM call.
// Tool executions recorded under this context are linked to the call.
func ContextWithLLMCall(ctx context.Context, call *LLMCall) context.Context {
	return context.WithValue(ctx, llmCallKey, call)
}

// LLMCallFromContext returns the in-flight LLM call, if any.
func LLMCallFromContext(ctx context.Context) (*LLMCall, bool) {
	c, ok := ctx.Value(llmCallKey).(*LLMCall)
	return c, ok
}

// RecordLLMCall appends the call to the ambient trace.
// It is a no-op when no trace is on the context.
func RecordLLMCall(ctx context.Context, call *LLMCall) {
	if t, ok := TraceFromContext(ctx); ok {
		t.AddLLMCall(call)
	}
}

// RecordToolExecution appends the execution to the ambient trace,
// stamping the owner key from the in-flight LLM call when one exists.
// It is a no-op when no trace is on the context.
func RecordToolExecution(ctx context.Context, exec *ToolExecution) {
	t, ok := TraceFromContext(ctx)
	if !ok {
		return
	}
	if call, ok := LLMCallFromContext(ctx); ok {
		exec.LLMCallID = call.CallID
	}
	t.AddToolExecution(exec)
}

// RecordSTTCall appends the call to the ambient trace.
// It is a no-op when no trace is on the context.
func RecordSTTCall(ctx context.Context, call *STTCall) {
	if t, ok := TraceFromContext(ctx); ok {
		t.AddSTTCall(call)
	}
}

// RecordTTSCall appends the call to the ambient trace.
// It is a no-op when no trace is on the context.
func RecordTTSCall(ctx context.Context, call *TTSCall) {
	if t, ok := TraceFromContext(ctx); ok {
		t.AddTTSCall(call)
	}
}
