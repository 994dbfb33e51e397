package propagate

import (
	"fmt"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/diamond"
	"github.com/reachgraph/reachdag/topology"
)

// IrrelevantSources reports which members of sources are deterministic
// (exactly Zero or exactly One) under alg. Callers pass the result to
// diamond.Decompose; evaluateGroup also calls this internally to build a
// recursive subgraph's own catalog.
func IrrelevantSources[V any](sources core.NodeSet, alg algebra.Algebra[V], priors map[core.NodeID]V) core.NodeSet {
	out := core.NewNodeSet()
	for s := range sources {
		if alg.IsDeterministic(priors[s]) {
			out.Add(s)
		}
	}

	return out
}

// evaluateDiamondGroups combines all diamond groups at one join: each
// surviving group (already guaranteed disjoint from every other by
// diamond.Decompose's overlap-merge cleanup — see DESIGN.md for how
// structurally entangled groups are resolved before this point)
// contributes one value via evaluateGroup, and the per-group values are
// combined by inclusion-exclusion into a single bundle value.
func evaluateDiamondGroups[V any](
	topo *topology.Topology,
	alg algebra.Algebra[V],
	priors map[core.NodeID]V,
	edgeProbs map[core.Edge]V,
	belief map[core.NodeID]V,
	dj *diamond.DiamondsAtJoin,
	cfg *settings,
) (V, error) {
	groups := make([]*diamond.AncestorGroup, len(dj.Groups))
	copy(groups, dj.Groups)
	sortGroupsDeterministically(groups)

	contributions := make([]V, 0, len(groups))
	for _, g := range groups {
		v, err := evaluateGroup(topo, alg, priors, edgeProbs, belief, dj.Join, g, cfg)
		if err != nil {
			var zero V
			return zero, err
		}
		contributions = append(contributions, v)
	}

	if len(contributions) == 1 {
		return contributions[0], nil
	}

	return inclusionExclusion(alg, contributions), nil
}

// sortGroupsDeterministically orders groups by increasing smallest
// highest-node id, since diamond groups at a join may be processed in any
// deterministic order as long as every run picks the same one.
func sortGroupsDeterministically(groups []*diamond.AncestorGroup) {
	key := func(g *diamond.AncestorGroup) core.NodeID {
		s := g.HighestNodes.Sorted()
		if len(s) == 0 {
			return 0
		}

		return s[0]
	}
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && key(groups[j-1]) > key(groups[j]); j-- {
			groups[j-1], groups[j] = groups[j], groups[j-1]
		}
	}
}

// evaluateGroup is the diamond join evaluation kernel: build the
// conditioning set, enumerate all 2^|C| truth assignments, recursively run
// the full propagator on the group's own subgraph under each assignment,
// and accumulate the weighted result.
func evaluateGroup[V any](
	topo *topology.Topology,
	alg algebra.Algebra[V],
	priors map[core.NodeID]V,
	edgeProbs map[core.Edge]V,
	belief map[core.NodeID]V,
	join core.NodeID,
	g *diamond.AncestorGroup,
	cfg *settings,
) (V, error) {
	var zero V

	localTopo, err := topology.Build(g.Subgraph.Edges)
	if err != nil {
		return zero, err
	}

	conditioning := g.HighestNodes.Clone()
	for s := range g.Subgraph.Sources {
		if conditioning.Contains(s) || topo.Sources.Contains(s) {
			continue
		}
		if localTopo.IsFork(s) {
			conditioning.Add(s)
		}
	}
	bits := conditioning.Sorted()

	if cfg.maxConditioningSet > 0 && len(bits) > cfg.maxConditioningSet {
		if cfg.onConditioningCapped != nil {
			cfg.onConditioningCapped(join, len(bits))
		} else {
			return zero, fmt.Errorf("%w: join %d has |C|=%d (cap %d)",
				ErrConditioningSetTooLarge, join, len(bits), cfg.maxConditioningSet)
		}
	}

	// The subgraph's own internal diamond catalog is built fresh (it may
	// contain further nested diamonds), but its entry at this same join is
	// dropped: once C is pinned per run, join's remaining parents inside the
	// subgraph are conditionally independent, and re-running diamond
	// conditioning on the very diamond being evaluated would double-count
	// and recurse forever.
	subIrrelevant := IrrelevantSources(localTopo.Sources, alg, priors)
	subCatalog, err := diamond.Decompose(localTopo, subIrrelevant)
	if err != nil {
		return zero, err
	}
	delete(subCatalog, join)

	runOpts := []Option{WithContext(cfg.ctx)}
	if cfg.maxConditioningSet > 0 {
		runOpts = append(runOpts, WithMaxConditioningSet(cfg.maxConditioningSet))
	}
	if cfg.onConditioningCapped != nil {
		runOpts = append(runOpts, WithConditioningCapHook(cfg.onConditioningCapped))
	}

	acc := alg.Zero()
	for _, trueSubset := range powerset(len(bits)) {
		isTrue := make(map[int]bool, len(trueSubset))
		for _, idx := range trueSubset {
			isTrue[idx] = true
		}

		perRunPriors := make(map[core.NodeID]V, len(g.Subgraph.RelevantNodes))
		for m := range g.Subgraph.RelevantNodes {
			switch idx := indexOf(bits, m); {
			case idx >= 0:
				if isTrue[idx] {
					perRunPriors[m] = alg.One()
				} else {
					perRunPriors[m] = alg.Zero()
				}
			case g.Subgraph.Sources.Contains(m):
				b, ok := belief[m]
				if !ok {
					return zero, fmt.Errorf("%w: sub-source %d of join %d has no outer belief yet",
						core.ErrPropagationOrder, m, join)
				}
				perRunPriors[m] = b
			default:
				perRunPriors[m] = priors[m]
			}
		}

		subBelief, err := Run(localTopo, subCatalog, alg, perRunPriors, edgeProbs, runOpts...)
		if err != nil {
			return zero, err
		}

		w := alg.One()
		for i, c := range bits {
			cBelief, ok := belief[c]
			if !ok {
				return zero, fmt.Errorf("%w: conditioning node %d of join %d has no outer belief yet",
					core.ErrPropagationOrder, c, join)
			}
			if isTrue[i] {
				w = alg.And(w, cBelief)
			} else {
				w = alg.And(w, alg.Complement(cBelief))
			}
		}

		acc = alg.Sum(acc, alg.And(subBelief[join], w))
	}

	return acc, nil
}

func indexOf(s []core.NodeID, id core.NodeID) int {
	for i, v := range s {
		if v == id {
			return i
		}
	}

	return -1
}
