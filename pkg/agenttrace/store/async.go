package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// defaultAsyncBuffer is the queue capacity of an AsyncStore.
const defaultAsyncBuffer = 64

// saveJob is one unit of work for the AsyncStore worker.
// A nil trace with a non-nil flush channel is a drain barrier.
type saveJob struct {
	trace *agenttrace.Trace
	flush chan struct{}
}

// AsyncStore wraps another store with a background writer so Save never
// blocks the traced agent on storage I/O.
//
// Saves are enqueued and written by a single worker goroutine; when the
// queue is full the trace is dropped and counted (capture must not stall
// behind a slow backend). Reads delegate to the wrapped store, so a
// just-saved trace is only visible after Flush.
type AsyncStore struct {
	inner  agenttrace.Store
	logger *slog.Logger

	queue   chan saveJob
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Compile-time interface check.
var _ agenttrace.Store = (*AsyncStore)(nil)

// AsyncOption configures an AsyncStore.
type AsyncOption func(*AsyncStore)

// WithBuffer sets the save queue capacity. Default: 64.
func WithBuffer(n int) AsyncOption {
	return func(a *AsyncStore) {
		if n > 0 {
			a.queue = make(chan saveJob, n)
		}
	}
}

// WithAsyncLogger sets the logger for background write failures.
func WithAsyncLogger(logger *slog.Logger) AsyncOption {
	return func(a *AsyncStore) {
		a.logger = logger
	}
}

// NewAsyncStore creates a write-behind wrapper around inner and starts
// its worker goroutine.
func NewAsyncStore(inner agenttrace.Store, opts ...AsyncOption) *AsyncStore {
	a := &AsyncStore{
		inner:  inner,
		logger: slog.Default(),
		queue:  make(chan saveJob, defaultAsyncBuffer),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.wg.Add(1)
	go a.worker()
	return a
}

// worker drains the queue until the store is closed.
func (a *AsyncStore) worker() {
	defer a.wg.Done()
	for job := range a.queue {
		if job.flush != nil {
			close(job.flush)
			continue
		}
		if err := a.inner.Save(context.Background(), job.trace); err != nil {
			a.dropped.Add(1)
			a.logger.Warn("async trace save failed",
				slog.String("trace_id", job.trace.TraceID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Save implements agenttrace.Store. It enqueues and returns immediately;
// if the queue is full the trace is dropped and counted.
func (a *AsyncStore) Save(_ context.Context, t *agenttrace.Trace) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return agenttrace.ErrStoreClosed
	}

	select {
	case a.queue <- saveJob{trace: t}:
	default:
		a.dropped.Add(1)
		a.logger.Warn("async save queue full, trace dropped",
			slog.String("trace_id", t.TraceID),
		)
	}
	return nil
}

// Get implements agenttrace.Store.
func (a *AsyncStore) Get(ctx context.Context, traceID string) (*agenttrace.Trace, error) {
	return a.inner.Get(ctx, traceID)
}

// List implements agenttrace.Store.
func (a *AsyncStore) List(ctx context.Context, limit int) ([]*agenttrace.Trace, error) {
	return a.inner.List(ctx, limit)
}

// Delete implements agenttrace.Store.
func (a *AsyncStore) Delete(ctx context.Context, traceID string) error {
	return a.inner.Delete(ctx, traceID)
}

// Flush blocks until every save enqueued before the call has been handed
// to the wrapped store. It does not close the store.
func (a *AsyncStore) Flush() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	barrier := make(chan struct{})
	a.queue <- saveJob{flush: barrier}
	a.mu.Unlock()

	<-barrier
}

// Dropped returns the number of traces lost to a full queue or a failed
// background write.
func (a *AsyncStore) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops the worker after draining pending saves, then closes the
// wrapped store.
func (a *AsyncStore) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
	return a.inner.Close()
}
