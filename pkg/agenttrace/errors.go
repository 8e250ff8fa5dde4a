package agenttrace

import (
	"errors"
	"fmt"
)

// Sentinel errors for trace storage.
var (
	// ErrTraceNotFound indicates a trace ID does not exist in the store.
	ErrTraceNotFound = errors.New("trace not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("trace store closed")
)

// SaveError wraps a failed trace save with its context.
// Saves are best-effort during capture: the wrapper logs a SaveError and
// returns the agent's own result, it never fails the traced call.
type SaveError struct {
	// TraceID is the trace that could not be saved.
	TraceID string
	// Err is the underlying store error.
	Err error
}

// Error implements the error interface.
func (e *SaveError) Error() string {
	return fmt.Sprintf("save trace %s: %v", e.TraceID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SaveError) Unwrap() error {
	return e.Err
}
