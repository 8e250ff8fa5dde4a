// Package store provides trace persistence backends for agenttrace.
//
// All implementations satisfy agenttrace.Store and are safe for
// concurrent use. MemoryStore suits tests and short-lived processes,
// FileStore writes one JSON document per trace, SQLiteStore is the
// single-process production backend, and AsyncStore wraps any of them
// with a background writer so capture never blocks on I/O.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// encodeTrace serializes a trace to its canonical JSON form
// (timestamps RFC3339Nano, durations integer milliseconds).
func encodeTrace(t *agenttrace.Trace) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode trace %s: %w", t.TraceID, err)
	}
	return data, nil
}

// decodeTrace deserializes a trace from its JSON form.
func decodeTrace(data []byte) (*agenttrace.Trace, error) {
	var t agenttrace.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &t, nil
}
