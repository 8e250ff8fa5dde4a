package tree

import (
	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// ErrorInfo describes one error-status node found in the tree.
type ErrorInfo struct {
	// NodeID is the failed node's ID.
	NodeID string

	// Name is the failed node's display label.
	Name string

	// Kind is the failed node's record kind.
	Kind agenttrace.Kind

	// Message is the kind-specific error message, if recorded.
	Message string

	// TrailIDs is the root-to-node path of IDs, root first, the failed
	// node's own ID last. Always at least one element.
	TrailIDs []string
}

// ComputeErrorTrails finds every node in error status and the paths
// leading to them.
//
// trailIDs is the union of all IDs lying on any error trail: error nodes,
// their ancestors, and the root when anything below it failed. Use it to
// highlight the fault path. errs lists one entry per error node in
// post-order discovery order (deepest first within a branch).
//
// The tree is never mutated; calling twice yields identical results.
func ComputeErrorTrails(root *Node) (trailIDs map[string]bool, errs []ErrorInfo) {
	trailIDs = make(map[string]bool)
	if root == nil {
		return trailIDs, nil
	}
	walkErrors(root, nil, trailIDs, &errs)
	return trailIDs, errs
}

// walkErrors visits post-order, reporting whether the subtree rooted at n
// contains an error. path holds ancestor IDs, root first, excluding n.
func walkErrors(n *Node, path []string, trailIDs map[string]bool, errs *[]ErrorInfo) bool {
	childPath := append(path, n.ID)

	subtreeErr := false
	for _, child := range n.Children {
		if walkErrors(child, childPath, trailIDs, errs) {
			subtreeErr = true
		}
	}

	if n.IsError() {
		trail := make([]string, len(childPath))
		copy(trail, childPath)
		for _, id := range trail {
			trailIDs[id] = true
		}
		*errs = append(*errs, ErrorInfo{
			NodeID:   n.ID,
			Name:     n.Name,
			Kind:     n.Kind,
			Message:  n.Record.ErrMessage(),
			TrailIDs: trail,
		})
		return true
	}

	if subtreeErr {
		trailIDs[n.ID] = true
		return true
	}
	return false
}

// ErrorTrail returns the root-to-node path of IDs for a specific node,
// or nil when the ID is not in the tree. IDs are unique, so the first
// match is the only match.
func ErrorTrail(root *Node, nodeID string) []string {
	if root == nil {
		return nil
	}
	return findTrail(root, nodeID, nil)
}

// findTrail is a single-target depth-first search.
func findTrail(n *Node, nodeID string, path []string) []string {
	current := append(path, n.ID)
	if n.ID == nodeID {
		trail := make([]string, len(current))
		copy(trail, current)
		return trail
	}
	for _, child := range n.Children {
		if trail := findTrail(child, nodeID, current); trail != nil {
			return trail
		}
	}
	return nil
}
