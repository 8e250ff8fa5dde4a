package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// SQLiteStore persists traces to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ agenttrace.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite trace store.
// The path should be a file path (e.g., "./traces.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// The scalar columns exist so the dashboard's list view can filter
	// without decoding every document.
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS traces (
			trace_id TEXT PRIMARY KEY,
			agent_name TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_traces_started_at
		ON traces(started_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements agenttrace.Store.
func (s *SQLiteStore) Save(ctx context.Context, t *agenttrace.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return agenttrace.ErrStoreClosed
	}

	data, err := encodeTrace(t)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO traces (trace_id, agent_name, status, started_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(trace_id) DO UPDATE SET
			agent_name = excluded.agent_name,
			status = excluded.status,
			started_at = excluded.started_at,
			data = excluded.data
	`, t.TraceID, t.AgentName, string(t.Status),
		t.StartedAt.UTC().Format(time.RFC3339Nano), data)

	if err != nil {
		return fmt.Errorf("save trace: %w", err)
	}
	return nil
}

// Get implements agenttrace.Store.
func (s *SQLiteStore) Get(ctx context.Context, traceID string) (*agenttrace.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM traces WHERE trace_id = ?
	`, traceID).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, agenttrace.ErrTraceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load trace: %w", err)
	}
	return decodeTrace(data)
}

// List implements agenttrace.Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*agenttrace.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, agenttrace.ErrStoreClosed
	}

	query := `
		SELECT data FROM traces
		ORDER BY started_at DESC, trace_id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	traces := []*agenttrace.Trace{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		t, err := decodeTrace(data)
		if err != nil {
			return nil, err
		}
		traces = append(traces, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}

	return traces, nil
}

// Delete implements agenttrace.Store.
func (s *SQLiteStore) Delete(ctx context.Context, traceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return agenttrace.ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM traces WHERE trace_id = ?
	`, traceID)
	if err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	return nil
}

// Close implements agenttrace.Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
