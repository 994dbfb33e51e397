// Package diamond implements the reachdag diamond decomposer: for every
// join node, it finds the groups of fork ancestors that produce
// path-sharing, extracts a self-contained subgraph per group, and then
// merges/dedupes overlapping diamonds and resolves shared upstream
// sources.
package diamond

import (
	"fmt"
	"sort"

	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/topology"
)

// Decompose produces the diamond Catalog for topo. irrelevantSources are
// the source nodes whose prior is deterministic (exactly 0 or exactly 1)
// — callers compute this once via their chosen algebra and pass the
// resulting core.NodeSet in, keeping this package algebra-free.
func Decompose(topo *topology.Topology, irrelevantSources core.NodeSet) (Catalog, error) {
	catalog := make(Catalog)
	for join := range topo.Joins {
		parents := topo.Parents(join)
		if len(parents) < 2 {
			continue
		}
		dj, err := decomposeJoin(topo, join, parents, irrelevantSources)
		if err != nil {
			return nil, err
		}
		if len(dj.Groups) > 0 {
			catalog[join] = dj
		}
	}

	return catalog, nil
}

// decomposeJoin runs candidate discovery, per-fork extraction, and cleanup
// for a single join.
func decomposeJoin(
	topo *topology.Topology,
	join core.NodeID,
	parents []core.NodeID,
	irrelevantSources core.NodeSet,
) (*DiamondsAtJoin, error) {
	candidates, err := discoverCandidates(topo, join, parents, irrelevantSources)
	if err != nil {
		return nil, err
	}

	var groups []*AncestorGroup
	for _, cand := range candidates {
		for _, forkNode := range cand.ancestorSet.Intersect(cand.highestNodes).Sorted() {
			g, err := buildGroup(topo, forkNode, join, cand.influencedParents)
			if err != nil {
				return nil, err
			}
			groups = append(groups, g)
		}
	}

	groups, err = cleanup(topo, join, groups)
	if err != nil {
		return nil, err
	}

	covered := core.NewNodeSet()
	for _, g := range groups {
		covered = covered.Union(g.InfluencedParents)
	}
	nonDiamond := core.NewNodeSet()
	for _, p := range parents {
		if !covered.Contains(p) {
			nonDiamond.Add(p)
		}
	}

	return &DiamondsAtJoin{Join: join, Groups: groups, NonDiamondParents: nonDiamond}, nil
}

// candidate is one intermediate fork grouping, before the per-fork subgraph
// split performed by buildGroup.
type candidate struct {
	influencedParents core.NodeSet
	ancestorSet       core.NodeSet
	highestNodes      core.NodeSet
}

// discoverCandidates finds, for every fork ancestor influencing two or more
// of join's parents, the set of parents it influences, then groups forks
// that influence an identical parent set into one candidate.
func discoverCandidates(
	topo *topology.Topology,
	join core.NodeID,
	parents []core.NodeID,
	irrelevantSources core.NodeSet,
) ([]*candidate, error) {
	// Step 2: FA(p) per relevant parent.
	fa := make(map[core.NodeID]core.NodeSet, len(parents))
	for _, p := range parents {
		if irrelevantSources.Contains(p) {
			continue
		}
		fa[p] = topo.Ancestors[p].Minus(irrelevantSources).Intersect(topo.Forks)
	}

	// Step 3: invert FA into inf(f).
	inf := make(map[core.NodeID]core.NodeSet)
	for p, forks := range fa {
		for f := range forks {
			if _, ok := inf[f]; !ok {
				inf[f] = core.NewNodeSet()
			}
			inf[f].Add(p)
		}
	}

	// Step 4: group forks with |inf(f)| >= 2 by identical influenced-parent set.
	groupsByParentSet := make(map[string]*candidate)
	for f, influenced := range inf {
		if influenced.Len() < 2 {
			continue
		}
		key := setKey(influenced)
		cand, ok := groupsByParentSet[key]
		if !ok {
			cand = &candidate{influencedParents: influenced, ancestorSet: core.NewNodeSet()}
			groupsByParentSet[key] = cand
		}
		cand.ancestorSet.Add(f)
	}

	out := make([]*candidate, 0, len(groupsByParentSet))
	for _, cand := range groupsByParentSet {
		maxLevel := -1
		for f := range cand.ancestorSet {
			if lvl := topo.LevelOf[f]; lvl > maxLevel {
				maxLevel = lvl
			}
		}
		cand.highestNodes = core.NewNodeSet()
		for f := range cand.ancestorSet {
			if topo.LevelOf[f] == maxLevel {
				cand.highestNodes.Add(f)
			}
		}
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return setKey(out[i].ancestorSet) < setKey(out[j].ancestorSet) })

	return out, nil
}

// setKey produces a deterministic, order-independent key for a NodeSet, for
// use as a map key / sort key.
func setKey(s core.NodeSet) string {
	sorted := s.Sorted()

	return fmt.Sprint(sorted)
}
