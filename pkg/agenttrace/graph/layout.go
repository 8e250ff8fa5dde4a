package graph

import (
	"sort"
)

// Direction is the rank orientation of the layout.
type Direction string

const (
	// DirectionTopDown ranks flow down the page.
	DirectionTopDown Direction = "TB"

	// DirectionLeftRight ranks flow across the page.
	DirectionLeftRight Direction = "LR"
)

// LayoutConfig holds the box dimensions and spacing for a layout.
// Node boxes are fixed-size per view; spacing separates nodes within a
// rank (NodeSep) and consecutive ranks (RankSep).
type LayoutConfig struct {
	NodeWidth  float64
	NodeHeight float64
	RankSep    float64
	NodeSep    float64
}

// Default layout configurations for the two dashboard views.
var (
	// DefaultHierarchyLayout sizes boxes for the strict-hierarchy view.
	DefaultHierarchyLayout = LayoutConfig{
		NodeWidth:  220,
		NodeHeight: 72,
		RankSep:    80,
		NodeSep:    40,
	}

	// DefaultTimelineLayout sizes boxes for the chronological view,
	// which shows per-node timing detail and needs more room.
	DefaultTimelineLayout = LayoutConfig{
		NodeWidth:  240,
		NodeHeight: 84,
		RankSep:    100,
		NodeSep:    56,
	}
)

// orderingPasses is the number of barycenter sweeps used for crossing
// reduction. Two down/up rounds settle the small graphs traces produce.
const orderingPasses = 4

// Layout assigns a 2D position to every node using a layered
// (Sugiyama-style) algorithm: rank assignment by longest path, crossing
// reduction by barycenter ordering, then coordinate assignment with
// each rank centered on the widest rank.
//
// Node X/Y are top-left corners, ready for rendering. The edge list is
// treated as a DAG; edges referencing unknown node IDs are ignored.
// Layout is deterministic for a fixed node/edge order, and returns the
// input unchanged when it is empty.
func Layout(nodes []Node, edges []Edge, dir Direction, cfg LayoutConfig) []Node {
	if len(nodes) == 0 {
		return nodes
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	out := make([][]int, len(nodes))
	in := make([][]int, len(nodes))
	for _, e := range edges {
		src, okSrc := index[e.Source]
		dst, okDst := index[e.Target]
		if !okSrc || !okDst || src == dst {
			continue
		}
		out[src] = append(out[src], dst)
		in[dst] = append(in[dst], src)
	}

	ranks := assignRanks(len(nodes), out, in)
	layers := orderLayers(ranks, out, in)
	assignCoordinates(nodes, layers, dir, cfg)

	return nodes
}

// assignRanks computes each node's layer as its longest path from any
// source (in-degree zero) node, via Kahn's algorithm. Nodes left over by
// an unexpected cycle stay at rank 0 rather than failing the layout.
func assignRanks(n int, out, in [][]int) []int {
	ranks := make([]int, n)
	degree := make([]int, n)

	var queue []int
	for i := 0; i < n; i++ {
		degree[i] = len(in[i])
		if degree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range out[node] {
			if r := ranks[node] + 1; r > ranks[next] {
				ranks[next] = r
			}
			degree[next]--
			if degree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return ranks
}

// orderLayers groups node indices by rank and runs barycenter sweeps to
// reduce edge crossings. Initial order within a rank is input order,
// which keeps the whole layout deterministic.
func orderLayers(ranks []int, out, in [][]int) [][]int {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}

	layers := make([][]int, maxRank+1)
	for i, r := range ranks {
		layers[r] = append(layers[r], i)
	}

	// position[i] = current index of node i within its layer.
	position := make([]int, len(ranks))
	refresh := func(layer []int) {
		for idx, node := range layer {
			position[node] = idx
		}
	}
	for _, layer := range layers {
		refresh(layer)
	}

	// barycenter of a node given its neighbors in the fixed layer.
	barycenter := func(node int, neighbors []int) float64 {
		if len(neighbors) == 0 {
			return float64(position[node])
		}
		sum := 0.0
		for _, nb := range neighbors {
			sum += float64(position[nb])
		}
		return sum / float64(len(neighbors))
	}

	sweep := func(layer []int, neighborsOf [][]int) {
		weights := make(map[int]float64, len(layer))
		for _, node := range layer {
			weights[node] = barycenter(node, neighborsOf[node])
		}
		sort.SliceStable(layer, func(a, b int) bool {
			return weights[layer[a]] < weights[layer[b]]
		})
		refresh(layer)
	}

	for pass := 0; pass < orderingPasses; pass++ {
		if pass%2 == 0 {
			for r := 1; r <= maxRank; r++ {
				sweep(layers[r], in)
			}
		} else {
			for r := maxRank - 1; r >= 0; r-- {
				sweep(layers[r], out)
			}
		}
	}

	return layers
}

// assignCoordinates places node boxes. Ranks advance along the main
// axis; within a rank, nodes spread along the cross axis, centered on
// the widest rank. Centers are shifted by half the box so callers get
// top-left corners.
func assignCoordinates(nodes []Node, layers [][]int, dir Direction, cfg LayoutConfig) {
	crossSize := cfg.NodeWidth
	mainSize := cfg.NodeHeight
	if dir == DirectionLeftRight {
		crossSize = cfg.NodeHeight
		mainSize = cfg.NodeWidth
	}

	breadth := func(count int) float64 {
		if count == 0 {
			return 0
		}
		return float64(count)*crossSize + float64(count-1)*cfg.NodeSep
	}

	maxBreadth := 0.0
	for _, layer := range layers {
		if b := breadth(len(layer)); b > maxBreadth {
			maxBreadth = b
		}
	}

	for rank, layer := range layers {
		offset := (maxBreadth - breadth(len(layer))) / 2
		main := float64(rank)*(mainSize+cfg.RankSep) + mainSize/2

		for idx, node := range layer {
			cross := offset + float64(idx)*(crossSize+cfg.NodeSep) + crossSize/2

			var cx, cy float64
			if dir == DirectionLeftRight {
				cx, cy = main, cross
			} else {
				cx, cy = cross, main
			}

			nodes[node].X = cx - cfg.NodeWidth/2
			nodes[node].Y = cy - cfg.NodeHeight/2
		}
	}
}
