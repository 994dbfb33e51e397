package diamond

import (
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/topology"
)

// buildGroup runs per-fork subgraph extraction for a single conditioning
// root, iterating the common-ancestor promotion in promoteSharedAncestor to
// a fixpoint: each iteration either finds a strictly-earlier-level shared
// ancestor to promote to root, or it doesn't and we're done, so the loop
// terminates in at most len(topo.Nodes) iterations.
func buildGroup(topo *topology.Topology, root, join core.NodeID, influencedParents core.NodeSet) (*AncestorGroup, error) {
	for {
		roots := core.NewNodeSet(root)
		relevant, subSources, edges := extractOnce(topo, roots, join, influencedParents)

		promoted, changed := promoteSharedAncestor(topo, roots, subSources)
		if !changed {
			if relevant.Len() == 0 {
				return nil, errInvariant("extraction produced an empty subgraph for root %d at join %d", root, join)
			}

			return &AncestorGroup{
				Ancestors:         roots,
				InfluencedParents: influencedParents,
				HighestNodes:      roots,
				Subgraph: &Subgraph{
					RelevantNodes: relevant,
					Sources:       subSources,
					Edges:         edges,
				},
			}, nil
		}
		root = promoted
	}
}

// extractOnce builds the relevant-node set, sub-sources, and edge list for
// a fixed set of roots (ordinarily a single fork node; shared-subsource
// promotion in cleanup.go passes more than one once it has added a promoted
// ancestor to a group's roots). The base node set is roots ∪ influencedParents ∪ {join},
// extended by descendants(root) ∩ ancestors(p) for every root and every
// influenced parent p.
func extractOnce(
	topo *topology.Topology,
	roots core.NodeSet,
	join core.NodeID,
	influencedParents core.NodeSet,
) (core.NodeSet, core.NodeSet, core.EdgeList) {
	relevant := roots.Clone()
	relevant.Add(join)
	relevant = relevant.Union(influencedParents)
	for root := range roots {
		for p := range influencedParents {
			relevant = relevant.Union(topo.Descendants[root].Intersect(topo.Ancestors[p]))
		}
	}

	edges := edgesWithin(topo, relevant, roots)
	relevant, subSources, edges := closeIncoming(topo, roots, join, relevant, core.NewNodeSet(), edges)

	return relevant, subSources, edges
}

// edgesWithin collects every edge of the full topology whose endpoints both
// lie in relevant, excluding any edge that ends at a root — a root is
// treated as a source of its own subgraph, not a node with further
// incoming edges inside it.
func edgesWithin(topo *topology.Topology, relevant, roots core.NodeSet) core.EdgeList {
	var edges core.EdgeList
	for _, e := range topo.Edges {
		if relevant.Contains(e.From) && relevant.Contains(e.To) && !roots.Contains(e.To) {
			edges = append(edges, e)
		}
	}

	return edges
}

// closeIncoming is the incoming-edge closure shared by initial extraction
// and the final cleanup pass: for every relevant node other than a root or
// the join that is not
// already a designated sub-source, any incoming edge whose source lies
// outside relevant gets that source added as a fresh sub-source, with the
// edge added to the subgraph. It takes a single pass over a snapshot of
// relevant — a freshly-added sub-source is a leaf of the mini-topology and
// is deliberately not re-scanned for its own (full-graph) incoming edges.
func closeIncoming(
	topo *topology.Topology,
	roots core.NodeSet,
	join core.NodeID,
	relevant core.NodeSet,
	alreadySources core.NodeSet,
	edges core.EdgeList,
) (core.NodeSet, core.NodeSet, core.EdgeList) {
	relevant = relevant.Clone()
	subSources := alreadySources.Union(roots)
	snapshot := relevant.Sorted()
	for _, r := range snapshot {
		if roots.Contains(r) || r == join || alreadySources.Contains(r) {
			continue
		}
		for _, parent := range topo.Incoming[r].Sorted() {
			if relevant.Contains(parent) {
				continue
			}
			subSources.Add(parent)
			relevant.Add(parent)
			edges = append(edges, core.Edge{From: parent, To: r})
		}
	}

	return relevant, subSources, dedupeEdges(edges)
}

// buildGroupFromRootSet builds an AncestorGroup from an already-decided set
// of conditioning roots, performing a single extraction pass with no
// further internal promotion loop (used by shared-subsource promotion in
// cleanup.go, where the outer fixpoint loop already drives re-extraction;
// overlap-merge rebuilds through buildGroup instead).
func buildGroupFromRootSet(topo *topology.Topology, roots core.NodeSet, join core.NodeID, influencedParents core.NodeSet) (*AncestorGroup, error) {
	relevant, subSources, edges := extractOnce(topo, roots, join, influencedParents)
	if relevant.Len() == 0 {
		return nil, errInvariant("extraction produced an empty subgraph for roots %v at join %d", roots.Sorted(), join)
	}

	return &AncestorGroup{
		Ancestors:         roots,
		InfluencedParents: influencedParents,
		HighestNodes:      roots,
		Subgraph: &Subgraph{
			RelevantNodes: relevant,
			Sources:       subSources,
			Edges:         edges,
		},
	}, nil
}

// promoteSharedAncestor checks whether two distinct sub-sources (other than
// the roots themselves) share a non-global-source ancestor; if so, the
// earliest-level (lowest topological level, ties broken by smallest id)
// such shared ancestor replaces the current root set with itself as the
// sole new root.
func promoteSharedAncestor(topo *topology.Topology, roots, subSources core.NodeSet) (core.NodeID, bool) {
	candidates := subSources.Minus(roots).Sorted()
	var best core.NodeID
	bestLevel := -1
	found := false
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			shared := topo.Ancestors[candidates[i]].Intersect(topo.Ancestors[candidates[j]]).Minus(topo.Sources)
			for _, a := range shared.Sorted() {
				lvl := topo.LevelOf[a]
				if !found || lvl < bestLevel || (lvl == bestLevel && a < best) {
					best, bestLevel, found = a, lvl, true
				}
			}
		}
	}
	if !found {
		return 0, false
	}
	// Only promote if it actually changes the root set (avoids infinite
	// loops when the "shared ancestor" is already a root).
	if roots.Len() == 1 {
		for r := range roots {
			if r == best {
				return 0, false
			}
		}
	}

	return best, true
}
