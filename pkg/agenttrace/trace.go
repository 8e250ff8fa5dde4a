package agenttrace

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Trace is the root record of one end-to-end agent execution.
// It accumulates the flat lists of calls made while the agent ran.
//
// Append methods are safe for concurrent use; agents routinely run tools
// in parallel goroutines.
type Trace struct {
	TraceID   string     `json:"trace_id"`
	AgentName string     `json:"agent_name"`
	Input     any        `json:"input,omitempty"`
	Output    any        `json:"output,omitempty"`
	Error     string     `json:"error,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    Status     `json:"status"`

	LLMCalls       []*LLMCall       `json:"llm_calls,omitempty"`
	ToolExecutions []*ToolExecution `json:"tool_executions,omitempty"`
	STTCalls       []*STTCall       `json:"stt_calls,omitempty"`
	TTSCalls       []*TTSCall       `json:"tts_calls,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`

	mu sync.Mutex
}

// NewTrace creates an active trace for the named agent, started now.
func NewTrace(agentName string) *Trace {
	return &Trace{
		TraceID:   uuid.New().String(),
		AgentName: agentName,
		StartedAt: time.Now().UTC(),
		Status:    StatusActive,
	}
}

// AddLLMCall appends an LLM call record.
func (t *Trace) AddLLMCall(call *LLMCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.LLMCalls = append(t.LLMCalls, call)
}

// AddToolExecution appends a tool execution record.
func (t *Trace) AddToolExecution(exec *ToolExecution) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ToolExecutions = append(t.ToolExecutions, exec)
}

// AddSTTCall appends a speech-to-text call record.
func (t *Trace) AddSTTCall(call *STTCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.STTCalls = append(t.STTCalls, call)
}

// AddTTSCall appends a text-to-speech call record.
func (t *Trace) AddTTSCall(call *TTSCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TTSCalls = append(t.TTSCalls, call)
}

// Complete marks the trace finished with the given output.
func (t *Trace) Complete(output any) {
	now := time.Now().UTC()
	t.EndedAt = &now
	t.Output = output
	t.Status = StatusCompleted
}

// Fail marks the trace finished with an error.
func (t *Trace) Fail(err error) {
	now := time.Now().UTC()
	t.EndedAt = &now
	if err != nil {
		t.Error = err.Error()
	}
	t.Status = StatusError
}

// TotalTokens sums token usage across all LLM calls.
func (t *Trace) TotalTokens() int {
	total := 0
	for _, call := range t.LLMCalls {
		total += call.Usage.TotalTokens
	}
	return total
}

// TotalLLMCalls returns the number of recorded LLM calls.
func (t *Trace) TotalLLMCalls() int { return len(t.LLMCalls) }

// TotalToolExecutions returns the number of recorded tool executions.
func (t *Trace) TotalToolExecutions() int { return len(t.ToolExecutions) }

// MarshalJSON serializes the trace while holding the append lock, so a
// concurrent tool goroutine cannot race the encoder.
func (t *Trace) MarshalJSON() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	type plain Trace // shed methods to avoid recursion
	return json.Marshal((*plain)(t))
}

// RecordID implements Record.
func (t *Trace) RecordID() string { return t.TraceID }

// RecordKind implements Record.
func (t *Trace) RecordKind() Kind { return KindAgent }

// Label implements Record.
func (t *Trace) Label() string { return t.AgentName }

// RecordStatus implements Record.
func (t *Trace) RecordStatus() Status { return t.Status }

// StartTime implements Record.
func (t *Trace) StartTime() time.Time { return t.StartedAt }

// Duration implements Record.
func (t *Trace) Duration() (time.Duration, bool) {
	return durationBetween(t.StartedAt, t.EndedAt)
}

// ErrMessage implements Record.
func (t *Trace) ErrMessage() string { return t.Error }

// Compile-time interface check.
var _ Record = (*Trace)(nil)
