package agenttrace

import (
	"time"

	"github.com/google/uuid"
)

// ToolExecution records one tool invocation.
//
// LLMCallID is the owner key: when the tool ran while an LLM call was in
// flight it holds that call's ID, and the reconstructed tree nests the
// tool under it. An empty owner key makes the tool an orphan attached
// directly under the trace root.
type ToolExecution struct {
	ExecutionID string         `json:"execution_id"`
	ToolName    string         `json:"tool_name"`
	Arguments   map[string]any `json:"arguments,omitempty"`
	Result      any            `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at,omitempty"`
	Status      Status         `json:"status"`
	LLMCallID   string         `json:"llm_call_id,omitempty"`
}

// NewToolExecution creates a pending tool execution record, started now.
func NewToolExecution(toolName string) *ToolExecution {
	return &ToolExecution{
		ExecutionID: uuid.New().String(),
		ToolName:    toolName,
		StartedAt:   time.Now().UTC(),
		Status:      StatusPending,
	}
}

// Complete marks the execution finished. A non-nil err wins over result.
func (e *ToolExecution) Complete(result any, err error) {
	now := time.Now().UTC()
	e.EndedAt = &now
	if err != nil {
		e.Error = err.Error()
		e.Status = StatusError
		return
	}
	e.Result = result
	e.Status = StatusSuccess
}

// RecordID implements Record.
func (e *ToolExecution) RecordID() string { return e.ExecutionID }

// RecordKind implements Record.
func (e *ToolExecution) RecordKind() Kind { return KindTool }

// Label implements Record.
func (e *ToolExecution) Label() string { return e.ToolName }

// RecordStatus implements Record.
func (e *ToolExecution) RecordStatus() Status { return e.Status }

// StartTime implements Record.
func (e *ToolExecution) StartTime() time.Time { return e.StartedAt }

// Duration implements Record.
func (e *ToolExecution) Duration() (time.Duration, bool) {
	return durationBetween(e.StartedAt, e.EndedAt)
}

// ErrMessage implements Record.
func (e *ToolExecution) ErrMessage() string { return e.Error }

// Compile-time interface check.
var _ Record = (*ToolExecution)(nil)
