package agenttrace

import (
	"context"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace/observability"
)

// Agent wraps an agent entry point so every invocation produces a Trace.
//
// The wrapper creates the trace, installs it on the context passed to fn,
// and on return completes it and saves it to the tracer's store. The
// wrapped function's result and error are returned unchanged.
//
// Panics if name is empty or fn is nil.
func Agent[I, O any](t *Tracer, name string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	if name == "" {
		panic("agenttrace: agent name cannot be empty")
	}
	if fn == nil {
		panic("agenttrace: agent function cannot be nil")
	}

	return func(ctx context.Context, input I) (O, error) {
		ctx, tr := t.StartTrace(ctx, name)
		tr.Input = input

		ctx, span := t.spans.StartTraceSpan(ctx, name, tr.TraceID)
		out, err := fn(ctx, input)
		t.spans.EndSpanWithError(span, err)

		t.EndTrace(ctx, tr, out, err)
		return out, err
	}
}

// Tool wraps a tool function so every invocation records a ToolExecution
// on the ambient trace. When the call happens inside an LLM wrapper, the
// execution is linked to that LLM call (the owner key).
//
// Without a trace on the context the function runs untraced.
//
// Panics if name is empty or fn is nil.
func Tool[I, O any](t *Tracer, name string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	if name == "" {
		panic("agenttrace: tool name cannot be empty")
	}
	if fn == nil {
		panic("agenttrace: tool function cannot be nil")
	}

	return func(ctx context.Context, input I) (O, error) {
		exec := &ToolExecution{
			ExecutionID: t.newID(),
			ToolName:    name,
			Arguments:   toArguments(input),
			StartedAt:   t.now(),
			Status:      StatusPending,
		}

		ctx, span := t.spans.StartCallSpan(ctx, string(KindTool), name)
		out, err := fn(ctx, input)
		t.spans.EndSpanWithError(span, err)

		end := t.now()
		exec.EndedAt = &end
		if err != nil {
			exec.Error = err.Error()
			exec.Status = StatusError
		} else {
			exec.Result = out
			exec.Status = StatusSuccess
		}

		t.finishCall(ctx, exec)
		RecordToolExecution(ctx, exec)
		return out, err
	}
}

// LLM wraps a model-calling function so every invocation records an
// LLMCall. The in-flight call is placed on the context passed to fn:
// tool wrappers invoked from inside fn pick it up as their owner key,
// and fn itself may enrich the record via LLMCallFromContext (usage,
// response content, tool calls).
//
// Panics if fn is nil.
func LLM[I, O any](t *Tracer, provider, model string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	if fn == nil {
		panic("agenttrace: llm function cannot be nil")
	}

	return func(ctx context.Context, input I) (O, error) {
		call := &LLMCall{
			CallID:    t.newID(),
			Provider:  provider,
			Model:     model,
			StartedAt: t.now(),
			Status:    StatusPending,
		}
		ctx = ContextWithLLMCall(ctx, call)

		ctx, span := t.spans.StartCallSpan(ctx, string(KindLLM), model)
		out, err := fn(ctx, input)
		t.spans.EndSpanWithError(span, err)

		end := t.now()
		call.EndedAt = &end
		if err != nil {
			call.Error = err.Error()
			call.Status = StatusError
		} else {
			call.Status = StatusSuccess
		}

		t.finishCall(ctx, call)
		RecordLLMCall(ctx, call)
		return out, err
	}
}

// STT wraps a speech-to-text function. The returned transcript is stored
// on the recorded STTCall.
//
// Panics if fn is nil.
func STT[I any](t *Tracer, provider, model string, fn func(context.Context, I) (string, error)) func(context.Context, I) (string, error) {
	if fn == nil {
		panic("agenttrace: stt function cannot be nil")
	}

	return func(ctx context.Context, input I) (string, error) {
		call := &STTCall{
			CallID:    t.newID(),
			Provider:  provider,
			Model:     model,
			StartedAt: t.now(),
			Status:    StatusPending,
		}

		ctx, span := t.spans.StartCallSpan(ctx, string(KindSTT), model)
		transcript, err := fn(ctx, input)
		t.spans.EndSpanWithError(span, err)

		end := t.now()
		call.EndedAt = &end
		if err != nil {
			call.Error = err.Error()
			call.Status = StatusError
		} else {
			call.Transcript = transcript
			call.Status = StatusSuccess
		}

		t.finishCall(ctx, call)
		RecordSTTCall(ctx, call)
		return transcript, err
	}
}

// TTS wraps a text-to-speech function. When the input is a string it is
// stored as the synthesized text on the recorded TTSCall.
//
// Panics if fn is nil.
func TTS[I, O any](t *Tracer, provider, model, voice string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	if fn == nil {
		panic("agenttrace: tts function cannot be nil")
	}

	return func(ctx context.Context, input I) (O, error) {
		call := &TTSCall{
			CallID:    t.newID(),
			Provider:  provider,
			Model:     model,
			Voice:     voice,
			StartedAt: t.now(),
			Status:    StatusPending,
		}
		if text, ok := any(input).(string); ok {
			call.InputText = text
			call.InputChars = len(text)
		}

		ctx, span := t.spans.StartCallSpan(ctx, string(KindTTS), model)
		out, err := fn(ctx, input)
		t.spans.EndSpanWithError(span, err)

		end := t.now()
		call.EndedAt = &end
		if err != nil {
			call.Error = err.Error()
			call.Status = StatusError
		} else {
			call.Status = StatusSuccess
		}

		t.finishCall(ctx, call)
		RecordTTSCall(ctx, call)
		return out, err
	}
}

// finishCall emits the log line and metrics for a completed call record.
func (t *Tracer) finishCall(ctx context.Context, rec Record) {
	d, _ := rec.Duration()
	var callErr error
	if rec.RecordStatus() == StatusError {
		callErr = errString(rec.ErrMessage())
	}
	observability.LogCallRecorded(t.logger, string(rec.RecordKind()), rec.Label(),
		float64(d.Milliseconds()), string(rec.RecordStatus()))
	t.metrics.RecordCall(ctx, string(rec.RecordKind()), d, callErr)
}

// toArguments normalizes a wrapper input into an arguments map.
func toArguments(input any) map[string]any {
	if m, ok := input.(map[string]any); ok {
		return m
	}
	return map[string]any{"input": input}
}

// errString adapts a stored error message back into an error value.
type errString string

func (e errString) Error() string { return string(e) }
