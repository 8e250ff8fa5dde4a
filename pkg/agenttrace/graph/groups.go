// Package graph derives a drawable execution graph from a reconstructed
// call tree: it detects which calls ran in parallel, converts the tree
// into nodes and edges in one of two visual modes, and assigns 2D
// positions with a layered DAG layout.
//
// Everything here is pure computation over in-memory structures.
// "Parallel" refers to concurrency detected in the traced execution (a
// historical fact read off wall-clock timestamps), not to any
// concurrency in this code.
package graph

import (
	"time"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace/tree"
)

// DefaultCloseStartWindow is the "started closely together" threshold:
// two calls whose starts are within this window are considered parallel
// even without true temporal overlap. It compensates for coarse
// timestamp precision in recorded traces.
const DefaultCloseStartWindow = 500 * time.Millisecond

// span returns a node's start and end instants for overlap detection.
// A missing start timestamp is the zero time; a missing duration makes
// the call instantaneous (end == start).
func span(n *tree.Node) (start, end time.Time) {
	start = n.Start()
	end = start
	if n.HasDuration {
		end = start.Add(n.Dur)
	}
	return start, end
}

// ParallelGroups partitions nodes into maximal clusters of concurrent
// execution. Input must be pre-sorted ascending by start time; output
// groups preserve that order, both across groups and within each group.
//
// A node joins the current group when it truly overlaps it (starts
// before the group's latest end) or starts within window of the group's
// latest-seen start. Only the running group bounds are consulted, so
// this is a deliberate greedy approximation, not exact interval
// partitioning: membership depends on arrival order and the two
// thresholds, and adjacent groups are never merged retroactively.
func ParallelGroups(nodes []*tree.Node, window time.Duration) [][]*tree.Node {
	if len(nodes) == 0 {
		return nil
	}

	var groups [][]*tree.Node

	group := []*tree.Node{nodes[0]}
	groupLatestStart, groupEnd := span(nodes[0])

	for _, current := range nodes[1:] {
		start, end := span(current)

		overlaps := start.Before(groupEnd)
		closeStart := start.Sub(groupLatestStart) < window

		if overlaps || closeStart {
			group = append(group, current)
			if start.After(groupLatestStart) {
				groupLatestStart = start
			}
			if end.After(groupEnd) {
				groupEnd = end
			}
			continue
		}

		groups = append(groups, group)
		group = []*tree.Node{current}
		groupLatestStart, groupEnd = start, end
	}

	return append(groups, group)
}
