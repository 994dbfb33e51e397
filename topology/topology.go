// Package topology implements the reachdag topology analyzer: from an edge
// list, it computes per-node ancestor/descendant closures, a topological
// level partition ("iteration sets"), and classifies fork, join, and
// source nodes.
//
// Build runs a Kahn-style level BFS on in-degree zero to obtain the level
// partition and detect cycles, then derives the ancestor closure with a
// forward pass over the resulting topological order and the descendant
// closure with a reverse pass (so that, unlike a single forward sweep, every
// child's descendant set is already complete by the time its parent needs
// it — see DESIGN.md for why this departs from a literal single-pass
// reading of the algorithm sketch).
package topology

import (
	"fmt"
	"sort"

	"github.com/reachgraph/reachdag/core"
)

// Topology is the immutable result of analyzing a DAG's edge list: both
// adjacency indices, ancestor/descendant closures, the iteration-set level
// partition, and the fork/join/source classification.
type Topology struct {
	Nodes core.NodeSet
	Edges core.EdgeList

	// Outgoing[u] / Incoming[u] are u's direct children / parents.
	Outgoing map[core.NodeID]core.NodeSet
	Incoming map[core.NodeID]core.NodeSet

	// Ancestors[u] is reflexive (u ∈ Ancestors[u]); Descendants[u] is not.
	Ancestors   map[core.NodeID]core.NodeSet
	Descendants map[core.NodeID]core.NodeSet

	// Levels is the ordered list of iteration sets: Levels[k] may be
	// processed once every Levels[j], j<k, is complete.
	Levels  [][]core.NodeID
	LevelOf map[core.NodeID]int

	Forks   core.NodeSet
	Joins   core.NodeSet
	Sources core.NodeSet
}

// Build analyzes edges and returns its Topology. It fails with
// core.ErrInvalidGraph on a self-loop or a cycle; an empty edge list with
// no nodes to analyze yields an empty, valid Topology.
func Build(edges core.EdgeList) (*Topology, error) {
	nodes, err := edges.Validate()
	if err != nil {
		return nil, err
	}

	outgoing := make(map[core.NodeID]core.NodeSet, len(nodes))
	incoming := make(map[core.NodeID]core.NodeSet, len(nodes))
	for n := range nodes {
		outgoing[n] = core.NewNodeSet()
		incoming[n] = core.NewNodeSet()
	}
	for _, e := range edges {
		outgoing[e.From].Add(e.To)
		incoming[e.To].Add(e.From)
	}

	order, levels, levelOf, err := kahnLevels(nodes, outgoing, incoming)
	if err != nil {
		return nil, err
	}

	ancestors := forwardAncestors(order, outgoing)
	descendants := reverseDescendants(order, outgoing)

	forks := core.NewNodeSet()
	joins := core.NewNodeSet()
	sources := core.NewNodeSet()
	for n := range nodes {
		if outgoing[n].Len() > 1 {
			forks.Add(n)
		}
		if incoming[n].Len() > 1 {
			joins.Add(n)
		}
		if incoming[n].Len() == 0 {
			sources.Add(n)
		}
	}

	return &Topology{
		Nodes:       nodes,
		Edges:       edges,
		Outgoing:    outgoing,
		Incoming:    incoming,
		Ancestors:   ancestors,
		Descendants: descendants,
		Levels:      levels,
		LevelOf:     levelOf,
		Forks:       forks,
		Joins:       joins,
		Sources:     sources,
	}, nil
}

// kahnLevels runs Kahn's algorithm one antichain at a time: every node in
// the current frontier has all its parents already dequeued, so the whole
// frontier forms one iteration set. Frontiers are sorted by id so the
// resulting order, and hence every downstream closure, is deterministic.
func kahnLevels(
	nodes core.NodeSet,
	outgoing, incoming map[core.NodeID]core.NodeSet,
) (order []core.NodeID, levels [][]core.NodeID, levelOf map[core.NodeID]int, err error) {
	remaining := make(map[core.NodeID]int, len(nodes))
	for n := range nodes {
		remaining[n] = incoming[n].Len()
	}

	var frontier []core.NodeID
	for n := range nodes {
		if remaining[n] == 0 {
			frontier = append(frontier, n)
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })

	levelOf = make(map[core.NodeID]int, len(nodes))
	order = make([]core.NodeID, 0, len(nodes))
	for len(frontier) > 0 {
		level := make([]core.NodeID, len(frontier))
		copy(level, frontier)
		levelIdx := len(levels)
		levels = append(levels, level)

		var next []core.NodeID
		for _, u := range frontier {
			levelOf[u] = levelIdx
			order = append(order, u)
			for c := range outgoing[u] {
				remaining[c]--
				if remaining[c] == 0 {
					next = append(next, c)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		frontier = next
	}

	if len(order) != len(nodes) {
		return nil, nil, nil, fmt.Errorf("%w: graph must be a DAG (cycle detected)", core.ErrInvalidGraph)
	}

	return order, levels, levelOf, nil
}

// forwardAncestors walks the topological order forward. Every node starts
// as its own ancestor (reflexive); each time we dequeue u we have already
// folded in everything upstream of u, so pushing ancestors[u] onto every
// child c is enough to keep ancestors[c] correct once all of c's parents
// have been processed.
func forwardAncestors(order []core.NodeID, outgoing map[core.NodeID]core.NodeSet) map[core.NodeID]core.NodeSet {
	ancestors := make(map[core.NodeID]core.NodeSet, len(order))
	for _, u := range order {
		ancestors[u] = core.NewNodeSet(u)
	}
	for _, u := range order {
		for c := range outgoing[u] {
			ancestors[c] = ancestors[c].Union(ancestors[u])
		}
	}

	return ancestors
}

// reverseDescendants walks the topological order backward so that, for any
// edge u→c, c is always fully resolved before u needs descendants[c].
func reverseDescendants(order []core.NodeID, outgoing map[core.NodeID]core.NodeSet) map[core.NodeID]core.NodeSet {
	descendants := make(map[core.NodeID]core.NodeSet, len(order))
	for _, u := range order {
		descendants[u] = core.NewNodeSet()
	}
	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		for c := range outgoing[u] {
			descendants[u].Add(c)
			descendants[u] = descendants[u].Union(descendants[c])
		}
	}

	return descendants
}

// Parents returns n's direct parents as a sorted slice, a convenience used
// by the diamond decomposer and the belief propagator alike.
func (t *Topology) Parents(n core.NodeID) []core.NodeID {
	return t.Incoming[n].Sorted()
}

// IsFork reports whether n has more than one outgoing edge.
func (t *Topology) IsFork(n core.NodeID) bool { return t.Forks.Contains(n) }

// IsJoin reports whether n has more than one incoming edge.
func (t *Topology) IsJoin(n core.NodeID) bool { return t.Joins.Contains(n) }

// IsSource reports whether n has no incoming edges.
func (t *Topology) IsSource(n core.NodeID) bool { return t.Sources.Contains(n) }
