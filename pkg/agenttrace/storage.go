package agenttrace

import (
	"context"
)

// Store persists completed traces.
// Implementations must be safe for concurrent use.
//
// The store subpackage provides memory, file, and SQLite implementations
// plus an asynchronous write-behind wrapper.
type Store interface {
	// Save stores a trace, overwriting any trace with the same ID.
	Save(ctx context.Context, t *Trace) error

	// Get retrieves a trace by ID.
	// Returns ErrTraceNotFound if it doesn't exist.
	Get(ctx context.Context, traceID string) (*Trace, error)

	// List returns up to limit traces ordered by start time descending.
	// Returns an empty slice (not an error) when the store is empty.
	List(ctx context.Context, limit int) ([]*Trace, error)

	// Delete removes a trace. Returns nil if it doesn't exist.
	Delete(ctx context.Context, traceID string) error

	// Close releases any resources (connections, files).
	Close() error
}
