package agenttrace

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace/observability"
)

// Tracer holds the capture configuration shared by the generic wrappers.
//
// Tracer is immutable after New and safe for concurrent use. A nil store
// disables persistence; spans and metrics default to no-ops.
type Tracer struct {
	store   Store
	logger  *slog.Logger
	spans   observability.SpanManager
	metrics observability.MetricsRecorder
	clock   func() time.Time
	newID   func() string
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithStore sets the store completed traces are saved to.
func WithStore(s Store) Option {
	return func(t *Tracer) {
		t.store = s
	}
}

// WithLogger sets the logger used for capture events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}

// WithSpanManager enables OpenTelemetry spans for traced calls.
func WithSpanManager(m observability.SpanManager) Option {
	return func(t *Tracer) {
		t.spans = m
	}
}

// WithMetrics enables metrics for traced calls.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *Tracer) {
		t.metrics = m
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracer) {
		t.clock = clock
	}
}

// WithIDGenerator overrides record ID generation. Intended for tests.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracer) {
		t.newID = newID
	}
}

// New creates a Tracer.
//
// Example:
//
//	tracer := agenttrace.New(
//	    agenttrace.WithStore(store.NewMemoryStore()),
//	    agenttrace.WithLogger(slog.Default()),
//	)
func New(opts ...Option) *Tracer {
	t := &Tracer{
		logger:  slog.Default(),
		spans:   observability.NoopSpanManager{},
		metrics: observability.NoopMetrics{},
		clock:   func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartTrace creates a trace for the named agent and installs it on the
// returned context. Use EndTrace to finish it; the generic Agent wrapper
// does both automatically.
func (t *Tracer) StartTrace(ctx context.Context, agentName string) (context.Context, *Trace) {
	tr := &Trace{
		TraceID:   t.newID(),
		AgentName: agentName,
		StartedAt: t.clock(),
		Status:    StatusActive,
	}
	observability.LogTraceStart(t.logger, tr.TraceID, agentName)
	return ContextWithTrace(ctx, tr), tr
}

// EndTrace completes the trace and saves it to the configured store.
// A nil err completes with output; otherwise the trace is failed.
// Save failures are logged, never returned: persistence must not break
// the traced agent.
func (t *Tracer) EndTrace(ctx context.Context, tr *Trace, output any, err error) {
	end := t.clock()
	tr.EndedAt = &end
	if err != nil {
		tr.Error = err.Error()
		tr.Status = StatusError
	} else {
		tr.Output = output
		tr.Status = StatusCompleted
	}

	d, _ := tr.Duration()
	if err != nil {
		observability.LogTraceError(t.logger, tr.TraceID, err, float64(d.Milliseconds()))
	} else {
		observability.LogTraceComplete(t.logger, tr.TraceID, float64(d.Milliseconds()),
			tr.TotalLLMCalls(), tr.TotalToolExecutions())
	}
	t.metrics.RecordTraceRun(ctx, err == nil, d, tr.TotalLLMCalls()+tr.TotalToolExecutions())

	t.save(ctx, tr)
}

// save persists the trace, best effort.
func (t *Tracer) save(ctx context.Context, tr *Trace) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(ctx, tr); err != nil {
		saveErr := &SaveError{TraceID: tr.TraceID, Err: err}
		observability.LogStoreError(t.logger, tr.TraceID, saveErr)
		return
	}
	observability.LogStoreSave(t.logger, tr.TraceID)
}

// Store returns the configured store, or nil if persistence is disabled.
func (t *Tracer) Store() Store { return t.store }

// Logger returns the configured logger. Never nil.
func (t *Tracer) Logger() *slog.Logger { return t.logger }

// now returns the current time from the configured clock.
func (t *Tracer) now() time.Time { return t.clock() }
