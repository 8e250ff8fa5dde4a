package agenttrace

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrace(t *testing.T) {
	tr := NewTrace("research-agent")

	assert.NotEmpty(t, tr.TraceID)
	assert.Equal(t, "research-agent", tr.AgentName)
	assert.Equal(t, StatusActive, tr.Status)
	assert.False(t, tr.StartedAt.IsZero())
	assert.Nil(t, tr.EndedAt)

	_, ok := tr.Duration()
	assert.False(t, ok, "running trace has no duration")
}

func TestTrace_Complete(t *testing.T) {
	tr := NewTrace("agent")
	tr.Complete("the answer")

	assert.Equal(t, StatusCompleted, tr.Status)
	assert.Equal(t, "the answer", tr.Output)
	require.NotNil(t, tr.EndedAt)

	_, ok := tr.Duration()
	assert.True(t, ok)
}

func TestTrace_Fail(t *testing.T) {
	tr := NewTrace("agent")
	tr.Fail(errors.New("model unavailable"))

	assert.Equal(t, StatusError, tr.Status)
	assert.Equal(t, "model unavailable", tr.Error)
	assert.Equal(t, "model unavailable", tr.ErrMessage())
	require.NotNil(t, tr.EndedAt)
}

func TestTrace_FailNilError(t *testing.T) {
	tr := NewTrace("agent")
	tr.Fail(nil)

	assert.Equal(t, StatusError, tr.Status)
	assert.Empty(t, tr.Error)
}

func TestTrace_TotalTokens(t *testing.T) {
	tr := NewTrace("agent")
	assert.Equal(t, 0, tr.TotalTokens())

	c1 := NewLLMCall("anthropic", "claude-sonnet-4")
	c1.Usage = TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}
	c2 := NewLLMCall("openai", "gpt-4o")
	c2.Usage = TokenUsage{TotalTokens: 30}
	tr.AddLLMCall(c1)
	tr.AddLLMCall(c2)

	assert.Equal(t, 180, tr.TotalTokens())
	assert.Equal(t, 2, tr.TotalLLMCalls())
}

func TestTrace_ConcurrentAppend(t *testing.T) {
	tr := NewTrace("agent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.AddToolExecution(NewToolExecution("search"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tr.TotalToolExecutions())
}

func TestTrace_MarshalJSON(t *testing.T) {
	tr := NewTrace("agent")
	tr.AddLLMCall(NewLLMCall("anthropic", "claude-sonnet-4"))
	tr.Complete("done")

	data, err := json.Marshal(tr)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tr.TraceID, decoded["trace_id"])
	assert.Equal(t, "completed", decoded["status"])
	assert.Len(t, decoded["llm_calls"], 1)
}

func TestTrace_RecordInterface(t *testing.T) {
	tr := NewTrace("agent")

	assert.Equal(t, tr.TraceID, tr.RecordID())
	assert.Equal(t, KindAgent, tr.RecordKind())
	assert.Equal(t, "agent", tr.Label())
	assert.Equal(t, StatusActive, tr.RecordStatus())
	assert.Equal(t, tr.StartedAt, tr.StartTime())
}

func TestLLMCall_Lifecycle(t *testing.T) {
	call := NewLLMCall("anthropic", "claude-sonnet-4")

	assert.NotEmpty(t, call.CallID)
	assert.Equal(t, StatusPending, call.Status)
	assert.Equal(t, "claude-sonnet-4", call.Label())
	assert.Equal(t, KindLLM, call.RecordKind())
	assert.False(t, call.HasToolCalls())

	call.ResponseToolCalls = []ToolCallRequest{{ToolName: "search"}}
	assert.True(t, call.HasToolCalls())

	call.Complete()
	assert.Equal(t, StatusSuccess, call.Status)
	d, ok := call.Duration()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, d, time.Duration(0))
}

func TestLLMCall_Fail(t *testing.T) {
	call := NewLLMCall("anthropic", "claude-sonnet-4")
	call.Fail(errors.New("rate limited"))

	assert.Equal(t, StatusError, call.Status)
	assert.Equal(t, "rate limited", call.ErrMessage())
	require.NotNil(t, call.EndedAt)
}

func TestToolExecution_Lifecycle(t *testing.T) {
	exec := NewToolExecution("search")
	exec.Arguments = map[string]any{"query": "go generics"}

	assert.NotEmpty(t, exec.ExecutionID)
	assert.Equal(t, "search", exec.Label())
	assert.Equal(t, KindTool, exec.RecordKind())
	assert.Empty(t, exec.LLMCallID)

	exec.Complete([]string{"result"}, nil)
	assert.Equal(t, StatusSuccess, exec.Status)
	assert.Equal(t, []string{"result"}, exec.Result)

	failed := NewToolExecution("search")
	failed.Complete(nil, errors.New("timeout"))
	assert.Equal(t, StatusError, failed.Status)
	assert.Equal(t, "timeout", failed.ErrMessage())
}

func TestSTTCall_Complete(t *testing.T) {
	call := NewSTTCall("deepgram", "nova-2")
	call.Complete("hello world", nil)

	assert.Equal(t, StatusSuccess, call.Status)
	assert.Equal(t, "hello world", call.Transcript)
	assert.Equal(t, KindSTT, call.RecordKind())

	failed := NewSTTCall("deepgram", "nova-2")
	failed.Complete("", errors.New("bad audio"))
	assert.Equal(t, StatusError, failed.Status)
	assert.Empty(t, failed.Transcript)
}

func TestTTSCall_Complete(t *testing.T) {
	call := NewTTSCall("elevenlabs", "turbo-v2", "rachel")
	call.Complete(nil)

	assert.Equal(t, StatusSuccess, call.Status)
	assert.Equal(t, "rachel", call.Voice)
	assert.Equal(t, KindTTS, call.RecordKind())

	failed := NewTTSCall("elevenlabs", "turbo-v2", "rachel")
	failed.Complete(errors.New("voice not found"))
	assert.Equal(t, StatusError, failed.Status)
}

func TestDurationBetween(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, ok := durationBetween(start, nil)
	assert.False(t, ok)

	end := start.Add(250 * time.Millisecond)
	d, ok := durationBetween(start, &end)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	d, ok = durationBetween(start, &start)
	assert.True(t, ok)
	assert.Zero(t, d, "instantaneous calls have zero duration")
}

func TestSaveError(t *testing.T) {
	inner := errors.New("disk full")
	err := &SaveError{TraceID: "t-1", Err: inner}

	assert.Contains(t, err.Error(), "t-1")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, inner)
}
