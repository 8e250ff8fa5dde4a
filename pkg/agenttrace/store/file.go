package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// FileStore persists each trace as one JSON file under a base directory.
// File names are <trace_id>.json.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ agenttrace.Store = (*FileStore)(nil)

// NewFileStore creates a file-backed trace store rooted at dir,
// creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path returns the file path for a trace ID.
func (f *FileStore) path(traceID string) string {
	return filepath.Join(f.dir, traceID+".json")
}

// Save implements agenttrace.Store.
func (f *FileStore) Save(_ context.Context, t *agenttrace.Trace) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return agenttrace.ErrStoreClosed
	}

	data, err := encodeTrace(t)
	if err != nil {
		return err
	}

	// Write-then-rename keeps readers from seeing a partial document.
	tmp := f.path(t.TraceID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write trace file: %w", err)
	}
	if err := os.Rename(tmp, f.path(t.TraceID)); err != nil {
		return fmt.Errorf("rename trace file: %w", err)
	}
	return nil
}

// Get implements agenttrace.Store.
func (f *FileStore) Get(_ context.Context, traceID string) (*agenttrace.Trace, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	data, err := os.ReadFile(f.path(traceID))
	if os.IsNotExist(err) {
		return nil, agenttrace.ErrTraceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read trace file: %w", err)
	}
	return decodeTrace(data)
}

// List implements agenttrace.Store.
func (f *FileStore) List(_ context.Context, limit int) ([]*agenttrace.Trace, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read trace directory: %w", err)
	}

	traces := make([]*agenttrace.Trace, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read trace file: %w", err)
		}
		t, err := decodeTrace(data)
		if err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}

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
func (f *FileStore) Delete(_ context.Context, traceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return agenttrace.ErrStoreClosed
	}

	err := os.Remove(f.path(traceID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete trace file: %w", err)
	}
	return nil
}

// Close implements agenttrace.Store.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}
