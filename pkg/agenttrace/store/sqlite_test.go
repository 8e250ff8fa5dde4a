package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
	"github.com/randalmurphal/agenttrace/pkg/agenttrace/store"
)

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveGet(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	tr := traceStarted("t-1", "research-agent", time.Now().UTC())
	tr.AddToolExecution(&agenttrace.ToolExecution{
		ExecutionID: "e-1", ToolName: "search",
		StartedAt: tr.StartedAt, Status: agenttrace.StatusSuccess,
		LLMCallID: "c-1",
	})
	require.NoError(t, s.Save(ctx, tr))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "research-agent", got.AgentName)
	require.Len(t, got.ToolExecutions, 1)
	assert.Equal(t, "c-1", got.ToolExecutions[0].LLMCallID)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, traceStarted("t-1", "agent", time.Now().UTC())))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.TraceID)
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, agenttrace.ErrTraceNotFound)
}

func TestSQLiteStore_SaveUpserts(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	start := time.Now().UTC()
	require.NoError(t, s.Save(ctx, traceStarted("t-1", "first", start)))
	require.NoError(t, s.Save(ctx, traceStarted("t-1", "second", start)))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.AgentName)

	traces, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, traces, 1)
}

func TestSQLiteStore_ListOrder(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, traceStarted("old", "a", base)))
	require.NoError(t, s.Save(ctx, traceStarted("new", "a", base.Add(time.Hour))))
	require.NoError(t, s.Save(ctx, traceStarted("mid", "a", base.Add(time.Minute))))

	traces, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, "new", traces[0].TraceID)
	assert.Equal(t, "mid", traces[1].TraceID)
	assert.Equal(t, "old", traces[2].TraceID)

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].TraceID)
}

func TestSQLiteStore_ListEmpty(t *testing.T) {
	s := newSQLiteStore(t)

	traces, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, traces)
}

// Traces survive reopening the database file.
func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.db")
	ctx := context.Background()

	first, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, traceStarted("t-1", "agent", time.Now().UTC())))
	require.NoError(t, first.Close())

	second, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "agent", got.AgentName)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, traceStarted("t-1", "a", time.Now().UTC())))
	require.NoError(t, s.Delete(ctx, "t-1"))

	_, err := s.Get(ctx, "t-1")
	assert.ErrorIs(t, err, agenttrace.ErrTraceNotFound)

	assert.NoError(t, s.Delete(ctx, "t-1"), "deleting a missing trace is not an error")
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s := newSQLiteStore(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Save(context.Background(), traceStarted("t", "a", time.Now().UTC())), agenttrace.ErrStoreClosed)
}

func TestSQLiteStore_ConcurrentSaves(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, s.Save(ctx, traceStarted(id, "agent", base.Add(time.Duration(i)*time.Second))))
		}(i)
	}
	wg.Wait()

	traces, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, traces, 10)
}
