package agenttrace

import (
	"time"

	"github.com/google/uuid"
)

// STTCall records one speech-to-text transcription.
type STTCall struct {
	CallID   string `json:"call_id"`
	Provider string `json:"provider"`
	Model    string `json:"model"`

	AudioDurationMS int64  `json:"audio_duration_ms,omitempty"`
	AudioFormat     string `json:"audio_format,omitempty"`
	Language        string `json:"language,omitempty"`

	Transcript string  `json:"transcript,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// NewSTTCall creates a pending speech-to-text record, started now.
func NewSTTCall(provider, model string) *STTCall {
	return &STTCall{
		CallID:    uuid.New().String(),
		Provider:  provider,
		Model:     model,
		StartedAt: time.Now().UTC(),
		Status:    StatusPending,
	}
}

// Complete marks the call finished, storing the transcript on success.
func (c *STTCall) Complete(transcript string, err error) {
	now := time.Now().UTC()
	c.EndedAt = &now
	if err != nil {
		c.Error = err.Error()
		c.Status = StatusError
		return
	}
	c.Transcript = transcript
	c.Status = StatusSuccess
}

// RecordID implements Record.
func (c *STTCall) RecordID() string { return c.CallID }

// RecordKind implements Record.
func (c *STTCall) RecordKind() Kind { return KindSTT }

// Label implements Record.
func (c *STTCall) Label() string { return c.Model }

// RecordStatus implements Record.
func (c *STTCall) RecordStatus() Status { return c.Status }

// StartTime implements Record.
func (c *STTCall) StartTime() time.Time { return c.StartedAt }

// Duration implements Record.
func (c *STTCall) Duration() (time.Duration, bool) {
	return durationBetween(c.StartedAt, c.EndedAt)
}

// ErrMessage implements Record.
func (c *STTCall) ErrMessage() string { return c.Error }

// TTSCall records one text-to-speech synthesis.
type TTSCall struct {
	CallID   string `json:"call_id"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Voice    string `json:"voice,omitempty"`

	InputText  string `json:"input_text,omitempty"`
	InputChars int    `json:"input_chars,omitempty"`

	OutputAudioDurationMS int64          `json:"output_audio_duration_ms,omitempty"`
	OutputFormat          string         `json:"output_format,omitempty"`
	VoiceSettings         map[string]any `json:"voice_settings,omitempty"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// NewTTSCall creates a pending text-to-speech record, started now.
func NewTTSCall(provider, model, voice string) *TTSCall {
	return &TTSCall{
		CallID:    uuid.New().String(),
		Provider:  provider,
		Model:     model,
		Voice:     voice,
		StartedAt: time.Now().UTC(),
		Status:    StatusPending,
	}
}

// Complete marks the call finished.
func (c *TTSCall) Complete(err error) {
	now := time.Now().UTC()
	c.EndedAt = &now
	if err != nil {
		c.Error = err.Error()
		c.Status = StatusError
		return
	}
	c.Status = StatusSuccess
}

// RecordID implements Record.
func (c *TTSCall) RecordID() string { return c.CallID }

// RecordKind implements Record.
func (c *TTSCall) RecordKind() Kind { return KindTTS }

// Label implements Record.
func (c *TTSCall) Label() string { return c.Model }

// RecordStatus implements Record.
func (c *TTSCall) RecordStatus() Status { return c.Status }

// StartTime implements Record.
func (c *TTSCall) StartTime() time.Time { return c.StartedAt }

// Duration implements Record.
func (c *TTSCall) Duration() (time.Duration, bool) {
	return durationBetween(c.StartedAt, c.EndedAt)
}

// ErrMessage implements Record.
func (c *TTSCall) ErrMessage() string { return c.Error }

// Compile-time interface checks.
var (
	_ Record = (*STTCall)(nil)
	_ Record = (*TTSCall)(nil)
)
