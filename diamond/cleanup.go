package diamond

import (
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/topology"
)

// cleanup runs subsumption filtering, overlap merging, and shared-subsource
// promotion, each iterated to a fixpoint over the
// complete current group list, followed by the final closure pass that
// re-applies closeIncoming to every surviving group (needed because a
// merge or promotion can introduce relevant nodes whose incoming edges
// were never closed over).
func cleanup(topo *topology.Topology, join core.NodeID, groups []*AncestorGroup) ([]*AncestorGroup, error) {
	hadGroups := len(groups) > 0

	for {
		var changed bool

		groups, changed = subsumptionFilter(groups)
		if changed {
			continue
		}

		var merged bool
		var err error
		groups, merged, err = overlapMerge(topo, join, groups)
		if err != nil {
			return nil, err
		}
		if merged {
			continue
		}

		var promoted bool
		groups, promoted, err = sharedSubsourcePromotion(topo, join, groups)
		if err != nil {
			return nil, err
		}
		if promoted {
			continue
		}

		break
	}

	if hadGroups && len(groups) == 0 {
		return nil, errInvariant("cleanup emptied a non-empty diamond group list at join %d", join)
	}

	for _, g := range groups {
		relevant, subSources, edges := closeIncoming(topo, g.HighestNodes, join, g.Subgraph.RelevantNodes, g.Subgraph.Sources, g.Subgraph.Edges)
		g.Subgraph.RelevantNodes = relevant
		g.Subgraph.Sources = subSources
		g.Subgraph.Edges = edges
	}

	return groups, nil
}

// subsumptionFilter drops any group A whose non-empty edge set is a proper
// subset of another group B's edge set. Groups with identical edge sets are
// all kept here.
func subsumptionFilter(groups []*AncestorGroup) ([]*AncestorGroup, bool) {
	edgeSets := make([]map[core.Edge]struct{}, len(groups))
	for i, g := range groups {
		m := make(map[core.Edge]struct{}, len(g.Subgraph.Edges))
		for _, e := range g.Subgraph.Edges {
			m[e] = struct{}{}
		}
		edgeSets[i] = m
	}

	subsumed := make([]bool, len(groups))
	for i := range groups {
		for j := range groups {
			if i == j || subsumed[i] || len(edgeSets[i]) == 0 {
				continue
			}
			if isSubset(edgeSets[i], edgeSets[j]) && len(edgeSets[i]) < len(edgeSets[j]) {
				subsumed[i] = true
			}
		}
	}

	var changed bool
	out := make([]*AncestorGroup, 0, len(groups))
	for i, g := range groups {
		if subsumed[i] {
			changed = true
			continue
		}
		out = append(out, g)
	}

	return out, changed
}

func isSubset(a, b map[core.Edge]struct{}) bool {
	for e := range a {
		if _, ok := b[e]; !ok {
			return false
		}
	}

	return true
}

// overlapMerge merges the first pair of groups that share a relevant node
// other than the join into a single group, conditioning-rooted at the
// highest-level shared node (ties broken by smallest id).
func overlapMerge(topo *topology.Topology, join core.NodeID, groups []*AncestorGroup) ([]*AncestorGroup, bool, error) {
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			shared := groups[i].Subgraph.RelevantNodes.
				Intersect(groups[j].Subgraph.RelevantNodes).
				Minus(core.NewNodeSet(join))
			if shared.Len() == 0 {
				continue
			}

			newRoot := highestLevelNode(topo, shared)
			mergedParents := groups[i].InfluencedParents.Union(groups[j].InfluencedParents)
			merged, err := buildGroup(topo, newRoot, join, mergedParents)
			if err != nil {
				return nil, false, err
			}

			out := make([]*AncestorGroup, 0, len(groups)-1)
			for k, g := range groups {
				switch k {
				case i:
					out = append(out, merged)
				case j:
					// dropped, folded into merged
				default:
					out = append(out, g)
				}
			}

			return out, true, nil
		}
	}

	return groups, false, nil
}

// sharedSubsourcePromotion checks, within one group, whether two distinct
// sub-sources share a non-global-source ancestor; if so that ancestor is
// added to the group's highest_nodes (not substituted for the existing
// roots — unlike promoteSharedAncestor's single-root replacement) and the
// subgraph is rebuilt.
func sharedSubsourcePromotion(topo *topology.Topology, join core.NodeID, groups []*AncestorGroup) ([]*AncestorGroup, bool, error) {
	for idx, g := range groups {
		promoted, found := promoteSharedAncestor(topo, g.HighestNodes, g.Subgraph.Sources)
		if !found {
			continue
		}

		newRoots := g.HighestNodes.Clone()
		newRoots.Add(promoted)
		rebuilt, err := buildGroupFromRootSet(topo, newRoots, join, g.InfluencedParents)
		if err != nil {
			return nil, false, err
		}

		groups[idx] = rebuilt

		return groups, true, nil
	}

	return groups, false, nil
}

// highestLevelNode returns the member of s with the greatest topological
// level, breaking ties by smallest id.
func highestLevelNode(topo *topology.Topology, s core.NodeSet) core.NodeID {
	sorted := s.Sorted()
	best := sorted[0]
	bestLevel := topo.LevelOf[best]
	for _, n := range sorted[1:] {
		if lvl := topo.LevelOf[n]; lvl > bestLevel {
			best, bestLevel = n, lvl
		}
	}

	return best
}
