package agenttrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithTrace(t *testing.T) {
	tr := NewTrace("agent")
	ctx := ContextWithTrace(context.Background(), tr)

	got, ok := TraceFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, tr, got)
}

func TestTraceFromContext_Absent(t *testing.T) {
	_, ok := TraceFromContext(context.Background())
	assert.False(t, ok)
}

func TestContextWithLLMCall(t *testing.T) {
	call := NewLLMCall("anthropic", "claude-sonnet-4")
	ctx := ContextWithLLMCall(context.Background(), call)

	got, ok := LLMCallFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, call, got)

	_, ok = LLMCallFromContext(context.Background())
	assert.False(t, ok)
}

func TestRecordLLMCall(t *testing.T) {
	tr := NewTrace("agent")
	ctx := ContextWithTrace(context.Background(), tr)

	call := NewLLMCall("anthropic", "claude-sonnet-4")
	RecordLLMCall(ctx, call)

	require.Len(t, tr.LLMCalls, 1)
	assert.Same(t, call, tr.LLMCalls[0])
}

// TestRecordToolExecution_OwnerKey: a tool recorded while an LLM call is
// in flight gets that call's ID stamped as its owner key.
func TestRecordToolExecution_OwnerKey(t *testing.T) {
	tr := NewTrace("agent")
	call := NewLLMCall("anthropic", "claude-sonnet-4")
	ctx := ContextWithTrace(context.Background(), tr)
	ctx = ContextWithLLMCall(ctx, call)

	exec := NewToolExecution("search")
	RecordToolExecution(ctx, exec)

	require.Len(t, tr.ToolExecutions, 1)
	assert.Equal(t, call.CallID, exec.LLMCallID)
}

// TestRecordToolExecution_Orphan: no in-flight LLM call leaves the owner
// key empty; the tree builder attaches such tools under the root.
func TestRecordToolExecution_Orphan(t *testing.T) {
	tr := NewTrace("agent")
	ctx := ContextWithTrace(context.Background(), tr)

	exec := NewToolExecution("search")
	RecordToolExecution(ctx, exec)

	require.Len(t, tr.ToolExecutions, 1)
	assert.Empty(t, exec.LLMCallID)
}

// TestRecord_NoTrace: recording without an ambient trace is a silent
// no-op in every variant. Untraced code paths must not panic.
func TestRecord_NoTrace(t *testing.T) {
	ctx := context.Background()

	RecordLLMCall(ctx, NewLLMCall("anthropic", "claude-sonnet-4"))
	RecordToolExecution(ctx, NewToolExecution("search"))
	RecordSTTCall(ctx, NewSTTCall("deepgram", "nova-2"))
	RecordTTSCall(ctx, NewTTSCall("elevenlabs", "turbo-v2", "rachel"))
}

func TestRecordSpeechCalls(t *testing.T) {
	tr := NewTrace("agent")
	ctx := ContextWithTrace(context.Background(), tr)

	RecordSTTCall(ctx, NewSTTCall("deepgram", "nova-2"))
	RecordTTSCall(ctx, NewTTSCall("elevenlabs", "turbo-v2", "rachel"))

	assert.Len(t, tr.STTCalls, 1)
	assert.Len(t, tr.TTSCalls, 1)
}
