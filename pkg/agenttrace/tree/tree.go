// Package tree reconstructs the call hierarchy of a recorded trace.
//
// A trace stores its calls as flat lists. Build reassembles them into a
// rooted tree: LLM calls under the agent root, tool executions under the
// LLM call that invoked them (the owner key), and orphan tools directly
// under the root. ComputeErrorTrails then walks the tree to find every
// failed call and the root-to-node path leading to it.
//
// The tree is a read-only snapshot: downstream consumers (graph
// conversion, rendering) must copy nodes rather than mutate them.
package tree

import (
	"sort"
	"time"

	"github.com/randalmurphal/agenttrace/pkg/agenttrace"
)

// Node is one node of the reconstructed call tree.
type Node struct {
	// ID is the underlying record's unique identifier.
	ID string

	// Kind is the record discriminant (agent, llm, tool, stt, tts).
	Kind agenttrace.Kind

	// Name is the display label (agent name, model, tool name).
	Name string

	// Tokens is the total token usage, where the record kind has one.
	// Display weighting only; never drives reconstruction decisions.
	Tokens int

	// Status is the record's outcome status.
	Status agenttrace.Status

	// HasDuration reports whether Dur holds a known duration.
	// False means the call never ended (unknown / still running).
	HasDuration bool

	// Dur is the record's wall-clock duration when HasDuration is true.
	Dur time.Duration

	// Children are ordered by start time ascending, stable.
	Children []*Node

	// Record is the originating call record.
	Record agenttrace.Record
}

// Start returns the node's start timestamp.
// The zero time means the timestamp was never recorded; such nodes sort
// before all timestamped nodes.
func (n *Node) Start() time.Time {
	return n.Record.StartTime()
}

// IsError reports whether the node's own status is the error sentinel.
func (n *Node) IsError() bool {
	return n.Status == agenttrace.StatusError
}

// BuildStats reports what Build could not place in the tree.
// The build itself never fails; inconsistent records are dropped from
// the visible tree and surfaced here for diagnosability.
type BuildStats struct {
	// DroppedToolIDs are tool executions whose owner key matched no LLM
	// call in the input. They do not appear in the tree.
	DroppedToolIDs []string

	// OrphanToolIDs are tool executions with no owner key, attached
	// directly under the root.
	OrphanToolIDs []string
}

// Build reconstructs the call tree for a stored trace.
//
// LLM calls become children of the root in start-time order, each with
// its owned tools nested beneath it. Orphan tools follow the LLM nodes,
// then STT and TTS calls, all in their own start-time order.
func Build(trace *agenttrace.Trace) (*Node, *BuildStats) {
	root, stats := BuildLists(trace, trace.LLMCalls, trace.ToolExecutions)

	speech := make([]*Node, 0, len(trace.STTCalls)+len(trace.TTSCalls))
	for _, call := range trace.STTCalls {
		speech = append(speech, newNode(call))
	}
	for _, call := range trace.TTSCalls {
		speech = append(speech, newNode(call))
	}
	sortByStart(speech)
	root.Children = append(root.Children, speech...)

	return root, stats
}

// BuildLists reconstructs the call tree from explicit flat lists.
// All records must belong to the given session trace.
//
// Tool executions whose owner key references an LLM call that is not in
// llmCalls are dropped from the tree and reported in BuildStats.
func BuildLists(session *agenttrace.Trace, llmCalls []*agenttrace.LLMCall, toolExecs []*agenttrace.ToolExecution) (*Node, *BuildStats) {
	root := newNode(session)
	stats := &BuildStats{}

	calls := make([]*agenttrace.LLMCall, len(llmCalls))
	copy(calls, llmCalls)
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].StartedAt.Before(calls[j].StartedAt)
	})

	tools := make([]*agenttrace.ToolExecution, len(toolExecs))
	copy(tools, toolExecs)
	sort.SliceStable(tools, func(i, j int) bool {
		return tools[i].StartedAt.Before(tools[j].StartedAt)
	})

	// Group owned tools by owner key, keeping their sorted order.
	owned := make(map[string][]*agenttrace.ToolExecution)
	for _, exec := range tools {
		if exec.LLMCallID != "" {
			owned[exec.LLMCallID] = append(owned[exec.LLMCallID], exec)
		}
	}

	for _, call := range calls {
		node := newNode(call)
		for _, exec := range owned[call.CallID] {
			node.Children = append(node.Children, newNode(exec))
		}
		delete(owned, call.CallID)
		root.Children = append(root.Children, node)
	}

	// Orphans attach under the root; owner keys that matched nothing
	// are dropped from the visible tree but reported.
	for _, exec := range tools {
		switch {
		case exec.LLMCallID == "":
			root.Children = append(root.Children, newNode(exec))
			stats.OrphanToolIDs = append(stats.OrphanToolIDs, exec.ExecutionID)
		default:
			if _, unclaimed := owned[exec.LLMCallID]; unclaimed {
				stats.DroppedToolIDs = append(stats.DroppedToolIDs, exec.ExecutionID)
			}
		}
	}

	return root, stats
}

// newNode wraps a record, extracting the display fields.
// Token counts come from an exhaustive switch on the concrete type.
func newNode(rec agenttrace.Record) *Node {
	n := &Node{
		ID:     rec.RecordID(),
		Kind:   rec.RecordKind(),
		Name:   rec.Label(),
		Status: rec.RecordStatus(),
		Record: rec,
	}
	n.Dur, n.HasDuration = rec.Duration()

	switch r := rec.(type) {
	case *agenttrace.Trace:
		n.Tokens = r.TotalTokens()
	case *agenttrace.LLMCall:
		n.Tokens = r.Usage.TotalTokens
	case *agenttrace.ToolExecution, *agenttrace.STTCall, *agenttrace.TTSCall:
		// No token accounting for these kinds.
	}

	return n
}

// sortByStart stable-sorts nodes ascending by start time.
func sortByStart(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Start().Before(nodes[j].Start())
	})
}

// Flatten returns the tree's nodes in pre-order.
func Flatten(root *Node) []*Node {
	if root == nil {
		return nil
	}
	nodes := []*Node{root}
	for _, child := range root.Children {
		nodes = append(nodes, Flatten(child)...)
	}
	return nodes
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	return len(Flatten(root))
}
