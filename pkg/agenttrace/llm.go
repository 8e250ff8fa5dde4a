package agenttrace

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat message in an LLM request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCallRequest is a tool invocation requested by the model.
type ToolCallRequest struct {
	ToolCallID   string         `json:"tool_call_id"`
	ToolName     string         `json:"tool_name"`
	ArgumentsRaw string         `json:"arguments_raw,omitempty"`
	Arguments    map[string]any `json:"arguments,omitempty"`
}

// TokenUsage is the token accounting reported by the provider.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LLMCall records one request/response round-trip with a model provider.
type LLMCall struct {
	CallID   string `json:"call_id"`
	Provider string `json:"provider"`
	Model    string `json:"model"`

	RequestMessages     []Message        `json:"request_messages,omitempty"`
	RequestTools        []map[string]any `json:"request_tools,omitempty"`
	RequestSystemPrompt string           `json:"request_system_prompt,omitempty"`
	RequestTemperature  *float64         `json:"request_temperature,omitempty"`
	RequestMaxTokens    *int             `json:"request_max_tokens,omitempty"`

	ResponseContent      string            `json:"response_content,omitempty"`
	ResponseToolCalls    []ToolCallRequest `json:"response_tool_calls,omitempty"`
	ResponseFinishReason string            `json:"response_finish_reason,omitempty"`
	Usage                TokenUsage        `json:"usage"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Streaming bool       `json:"streaming,omitempty"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// NewLLMCall creates a pending LLM call record, started now.
func NewLLMCall(provider, model string) *LLMCall {
	return &LLMCall{
		CallID:    uuid.New().String(),
		Provider:  provider,
		Model:     model,
		StartedAt: time.Now().UTC(),
		Status:    StatusPending,
	}
}

// Complete marks the call finished successfully.
func (c *LLMCall) Complete() {
	now := time.Now().UTC()
	c.EndedAt = &now
	c.Status = StatusSuccess
}

// Fail marks the call finished with an error.
func (c *LLMCall) Fail(err error) {
	now := time.Now().UTC()
	c.EndedAt = &now
	if err != nil {
		c.Error = err.Error()
	}
	c.Status = StatusError
}

// HasToolCalls reports whether the response requested any tool invocations.
func (c *LLMCall) HasToolCalls() bool { return len(c.ResponseToolCalls) > 0 }

// RecordID implements Record.
func (c *LLMCall) RecordID() string { return c.CallID }

// RecordKind implements Record.
func (c *LLMCall) RecordKind() Kind { return KindLLM }

// Label implements Record.
func (c *LLMCall) Label() string { return c.Model }

// RecordStatus implements Record.
func (c *LLMCall) RecordStatus() Status { return c.Status }

// StartTime implements Record.
func (c *LLMCall) StartTime() time.Time { return c.StartedAt }

// Duration implements Record.
func (c *LLMCall) Duration() (time.Duration, bool) {
	return durationBetween(c.StartedAt, c.EndedAt)
}

// ErrMessage implements Record.
func (c *LLMCall) ErrMessage() string { return c.Error }

// Compile-time interface check.
var _ Record = (*LLMCall)(nil)
