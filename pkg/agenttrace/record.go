package agenttrace

import (
	"time"
)

// Kind discriminates the concrete record types.
type Kind string

// Record kinds.
const (
	KindAgent Kind = "agent"
	KindLLM   Kind = "llm"
	KindTool  Kind = "tool"
	KindSTT   Kind = "stt"
	KindTTS   Kind = "tts"
)

// Status is the outcome of a record. It is free-form on the wire; only
// StatusError receives special treatment (error-trail computation).
type Status string

// Well-known statuses. Anything else is treated as non-error.
const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuccess   Status = "success"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Record is the capability set shared by all call records.
// The concrete types (Trace, LLMCall, ToolExecution, STTCall, TTSCall)
// form a tagged union keyed by RecordKind; consumers that need
// kind-specific payload type-switch on the concrete type.
type Record interface {
	// RecordID returns the unique identifier.
	RecordID() string

	// RecordKind returns the discriminant.
	RecordKind() Kind

	// Label returns the human-readable display name.
	Label() string

	// RecordStatus returns the outcome status.
	RecordStatus() Status

	// StartTime returns when the call began. The zero time means the
	// timestamp was never recorded.
	StartTime() time.Time

	// Duration returns the elapsed wall-clock time. ok is false when the
	// call never ended (unknown / still running).
	Duration() (d time.Duration, ok bool)

	// ErrMessage returns the kind-specific error message, or "" if none.
	ErrMessage() string
}

// durationBetween computes the duration from start to a nullable end.
func durationBetween(start time.Time, end *time.Time) (time.Duration, bool) {
	if end == nil {
		return 0, false
	}
	return end.Sub(start), true
}
