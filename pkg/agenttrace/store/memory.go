package store

import (
	"context"
	"sort"
	"sync"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// MemoryStore is an in-memory trace store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	traces map[string]*agenttrace.Trace
	closed bool
}

// Compile-time interface check.
var _ agenttrace.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory trace store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		traces: make(map[string]*agenttrace.Trace),
	}
}

// Save implements agenttrace.Store.
func (m *MemoryStore) Save(_ context.Context, t *agenttrace.Trace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return agenttrace.ErrStoreClosed
	}

	m.traces[t.TraceID] = t
	return nil
}

// Get implements agenttrace.Store.
func (m *MemoryStore) Get(_ context.Context, traceID string) (*agenttrace.Trace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	t, ok := m.traces[traceID]
	if !ok {
		return nil, agenttrace.ErrTraceNotFound
	}
	return t, nil
}

// List implements agenttrace.Store.
func (m *MemoryStore) List(_ context.Context, limit int) ([]*agenttrace.Trace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	traces := make([]*agenttrace.Trace, 0, len(m.traces))
	for _, t := range m.traces {
		traces = append(traces, t)
	}

	// Most recent first; trace ID breaks ties for stable listings.
	sort.Slice(traces, func(i, j int) bool {
		if !traces[i].StartedAt.Equal(traces[j].StartedAt) {
			return traces[i].StartedAt.After(traces[j].StartedAt)
		}
		return traces[i].TraceID < traces[j].TraceID
	})

	if limit > 0 && len(traces) > limit {
		traces = traces[:limit]
	}
	return traces, nil
}

// Delete implements agenttrace.Store.
func (m *MemoryStore) Delete(_ context.Context, traceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return agenttrace.ErrStoreClosed
	}

	delete(m.traces, traceID)
	return nil
}

// Close implements agenttrace.Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.traces = nil
	return nil
}

// Len returns the number of stored traces. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.traces)
}
