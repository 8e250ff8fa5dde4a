/*
Package agenttrace captures and reconstructs traces of LLM-agent executions.

# Overview

agenttrace is a Go library for recording what an AI agent actually did —
every LLM call, tool execution, and speech round-trip — into a single
persisted trace, and for turning that flat record back into structures a
dashboard can draw: a parent/child tree, error trails, and a positioned
execution graph.

The library has two halves:

  - Capture: wrap your agent, tool, and model functions with the generic
    wrappers in this package. Each invocation appends a timestamped record
    to the ambient Trace carried on the context.
  - Reconstruction: feed a stored Trace to the tree and graph subpackages
    to rebuild the call hierarchy, find error propagation paths, detect
    which calls ran in parallel, and lay the result out as a DAG.

# Capture

Wrap functions once, call them as usual:

	tracer := agenttrace.New(agenttrace.WithStore(store.NewMemoryStore()))

	search := agenttrace.Tool(tracer, "search", func(ctx context.Context, q string) ([]string, error) {
	    return db.Search(ctx, q)
	})

	askModel := agenttrace.LLM(tracer, "openai", "gpt-4o", callOpenAI)

	run := agenttrace.Agent(tracer, "support_agent", func(ctx context.Context, query string) (string, error) {
	    hits, err := search(ctx, query)
	    if err != nil {
	        return "", err
	    }
	    return askModel(ctx, buildPrompt(query, hits))
	})

	answer, err := run(context.Background(), "where is my order?")

Tool executions made while an LLM call is in flight are linked to that
call via its ID, so the reconstructed tree nests them correctly.

# Reconstruction

	root, stats := tree.Build(trace)
	trailIDs, errs := tree.ComputeErrorTrails(root)
	nodes, edges := graph.Convert(root, trailIDs, graph.ModeChronological)
	nodes = graph.Layout(nodes, edges, graph.DirectionTopDown, graph.DefaultTimelineLayout)

The pipeline is pure computation over in-memory records: no I/O, no
concurrency, deterministic for a fixed input.

# Persistence

The store subpackage provides in-memory, file, and SQLite trace stores,
plus an asynchronous write-behind wrapper for hot paths.

# Observability

Capture emits structured logs (slog), OpenTelemetry spans, and metrics via
the observability subpackage. Logging uses slog.Default unless overridden;
spans and metrics are opt-in with no-op defaults.
*/
package agenttrace
