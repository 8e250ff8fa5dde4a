package graph

import (
	"sort"
	"time"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace/tree"
)

// Mode selects how the tree becomes a graph.
type Mode string

const (
	// ModeHierarchy mirrors the tree: one edge per parent/child pair.
	ModeHierarchy Mode = "hierarchy"

	// ModeChronological orders all calls by time, clusters parallel
	// ones, and connects consecutive clusters with fork/join edges.
	ModeChronological Mode = "chronological"
)

// Node is a drawable graph node derived from a tree node.
// X and Y are zero until Layout assigns positions.
type Node struct {
	// ID is the underlying record's unique identifier.
	ID string

	// Tree is the originating tree node.
	Tree *tree.Node

	// X, Y are the top-left corner assigned by Layout.
	X, Y float64

	// IsError is true when the node's own status is the error sentinel.
	IsError bool

	// OnErrorTrail is true when the node lies on some error trail but is
	// not itself the error. The two flags are mutually exclusive: error
	// nodes get the stronger visual treatment.
	OnErrorTrail bool

	// Start is the originating record's start timestamp (zero when
	// never recorded). Set in both modes; chronological ordering keys
	// off it.
	Start time.Time
}

// Edge connects two graph nodes by ID.
type Edge struct {
	// Source and Target are node IDs.
	Source, Target string

	// Elapsed is target start minus source start. HasElapsed is false
	// when either timestamp is missing.
	Elapsed    time.Duration
	HasElapsed bool

	// OnErrorTrail is true when both endpoints lie on the error trail
	// set.
	OnErrorTrail bool
}

// Converter turns a call tree into graph nodes and edges.
// The zero value uses DefaultCloseStartWindow for parallel detection.
type Converter struct {
	// CloseStartWindow overrides the parallel-start threshold when
	// positive.
	CloseStartWindow time.Duration
}

// Convert converts with the default Converter.
func Convert(root *tree.Node, trailIDs map[string]bool, mode Mode) ([]Node, []Edge) {
	return Converter{}.Convert(root, trailIDs, mode)
}

// Convert turns the tree into nodes and edges for the given mode.
// trailIDs is the error-trail set from tree.ComputeErrorTrails; nil
// means no errors. The tree is never mutated.
func (c Converter) Convert(root *tree.Node, trailIDs map[string]bool, mode Mode) ([]Node, []Edge) {
	if root == nil {
		return nil, nil
	}
	if mode == ModeChronological {
		return c.convertChronological(root, trailIDs)
	}
	return c.convertHierarchy(root, trailIDs)
}

// window returns the effective close-start threshold.
func (c Converter) window() time.Duration {
	if c.CloseStartWindow > 0 {
		return c.CloseStartWindow
	}
	return DefaultCloseStartWindow
}

// newGraphNode derives the drawable node and its error flags.
func newGraphNode(n *tree.Node, trailIDs map[string]bool) Node {
	isErr := n.IsError()
	return Node{
		ID:           n.ID,
		Tree:         n,
		IsError:      isErr,
		OnErrorTrail: trailIDs[n.ID] && !isErr,
		Start:        n.Start(),
	}
}

// newEdge builds an edge between two tree nodes, computing elapsed time
// when both start timestamps are known.
func newEdge(source, target *tree.Node, trailIDs map[string]bool) Edge {
	e := Edge{
		Source:       source.ID,
		Target:       target.ID,
		OnErrorTrail: trailIDs[source.ID] && trailIDs[target.ID],
	}
	if !source.Start().IsZero() && !target.Start().IsZero() {
		e.Elapsed = target.Start().Sub(source.Start())
		e.HasElapsed = true
	}
	return e
}

// convertHierarchy emits the tree as-is: pre-order nodes, one edge per
// parent/child relationship.
func (c Converter) convertHierarchy(root *tree.Node, trailIDs map[string]bool) ([]Node, []Edge) {
	var nodes []Node
	var edges []Edge

	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		nodes = append(nodes, newGraphNode(n, trailIDs))
		for _, child := range n.Children {
			edges = append(edges, newEdge(n, child, trailIDs))
			walk(child)
		}
	}
	walk(root)

	return nodes, edges
}

// convertChronological re-orders all calls by time, clusters parallel
// ones, and connects consecutive clusters.
//
// Connection rules between group[i] and group[i+1]:
//   - single -> single: one direct edge.
//   - single -> many: fork, the source connects to every member.
//   - many -> single: join, every member connects to the target.
//   - many -> many: only the latest-finishing member of the current
//     group connects to every member of the next. This avoids an
//     all-to-all edge explosion at the cost of not representing every
//     possible causal link.
func (c Converter) convertChronological(root *tree.Node, trailIDs map[string]bool) ([]Node, []Edge) {
	flat := tree.Flatten(root)
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Start().Before(flat[j].Start())
	})

	groups := ParallelGroups(flat, c.window())

	nodes := make([]Node, 0, len(flat))
	for _, n := range flat {
		nodes = append(nodes, newGraphNode(n, trailIDs))
	}

	var edges []Edge
	for i := 0; i+1 < len(groups); i++ {
		current, next := groups[i], groups[i+1]

		var sources []*tree.Node
		switch {
		case len(current) == 1 || len(next) == 1:
			sources = current
		default:
			sources = []*tree.Node{latestFinishing(current)}
		}

		for _, source := range sources {
			for _, target := range next {
				edges = append(edges, newEdge(source, target, trailIDs))
			}
		}
	}

	return nodes, edges
}

// latestFinishing returns the group member with the maximum end time.
// Ties keep the earliest member, which keeps output deterministic.
func latestFinishing(group []*tree.Node) *tree.Node {
	best := group[0]
	_, bestEnd := span(best)
	for _, n := range group[1:] {
		if _, end := span(n); end.After(bestEnd) {
			best = n
			bestEnd = end
		}
	}
	return best
}
