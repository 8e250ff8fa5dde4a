package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
	"github.com/randalmurphal/agenttrace/pkg/agenttrace/store"
)

// traceStarted builds a completed trace with a fixed start time.
func traceStarted(id, agentName string, start time.Time) *agenttrace.Trace {
	end := start.Add(time.Second)
	return &agenttrace.Trace{
		TraceID:   id,
		AgentName: agentName,
		StartedAt: start,
		EndedAt:   &end,
		Status:    agenttrace.StatusCompleted,
	}
}

func TestMemoryStore_SaveGet(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	tr := traceStarted("t-1", "agent", time.Now().UTC())
	require.NoError(t, s.Save(ctx, tr))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Same(t, tr, got)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, agenttrace.ErrTraceNotFound)
}

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	start := time.Now().UTC()
	require.NoError(t, s.Save(ctx, traceStarted("t-1", "first", start)))
	require.NoError(t, s.Save(ctx, traceStarted("t-1", "second", start)))

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.AgentName)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ListOrder(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, traceStarted("old", "a", base)))
	require.NoError(t, s.Save(ctx, traceStarted("mid", "a", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, traceStarted("new", "a", base.Add(2*time.Minute))))

	traces, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, traces, 3)
	assert.Equal(t, "new", traces[0].TraceID)
	assert.Equal(t, "mid", traces[1].TraceID)
	assert.Equal(t, "old", traces[2].TraceID)
}

func TestMemoryStore_ListLimit(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, traceStarted(id, "agent", base.Add(time.Duration(i)*time.Minute))))
	}

	traces, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, traces, 2)
	assert.Equal(t, "c", traces[0].TraceID)
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	traces, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, traces)
}

// Same start time falls back to trace ID ordering so listings do not
// shuffle between calls.
func TestMemoryStore_ListTieBreak(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, traceStarted("b", "agent", start)))
	require.NoError(t, s.Save(ctx, traceStarted("a", "agent", start)))

	traces, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "a", traces[0].TraceID)
	assert.Equal(t, "b", traces[1].TraceID)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, traceStarted("t-1", "agent", time.Now().UTC())))
	require.NoError(t, s.Delete(ctx, "t-1"))
	assert.Equal(t, 0, s.Len())

	assert.NoError(t, s.Delete(ctx, "t-1"), "deleting a missing trace is not an error")
}

func TestMemoryStore_Closed(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Save(ctx, traceStarted("t", "agent", time.Now().UTC())), agenttrace.ErrStoreClosed)
	_, err := s.Get(ctx, "t")
	assert.ErrorIs(t, err, agenttrace.ErrStoreClosed)
	_, err = s.List(ctx, 0)
	assert.ErrorIs(t, err, agenttrace.ErrStoreClosed)
	assert.ErrorIs(t, s.Delete(ctx, "t"), agenttrace.ErrStoreClosed)
}
