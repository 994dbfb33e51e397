package propagate

import (
	"fmt"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/diamond"
	"github.com/reachgraph/reachdag/topology"
)

// Run computes belief[n] for every node n of topo, given per-node priors
// and per-edge transmission probabilities under alg. catalog is the
// diamond decomposition of topo, produced once by diamond.Decompose and
// reused across however many times Run is called against the same
// topology.
func Run[V any](
	topo *topology.Topology,
	catalog diamond.Catalog,
	alg algebra.Algebra[V],
	priors map[core.NodeID]V,
	edgeProbs map[core.Edge]V,
	opts ...Option,
) (map[core.NodeID]V, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(topo, alg, priors, edgeProbs); err != nil {
		return nil, err
	}

	belief := make(map[core.NodeID]V, len(topo.Nodes))
	for _, level := range topo.Levels {
		select {
		case <-cfg.ctx.Done():
			return nil, cfg.ctx.Err()
		default:
		}

		for _, n := range level {
			if topo.IsSource(n) {
				belief[n] = alg.Clamp(priors[n])
				continue
			}

			combined, err := combineNode(topo, catalog, alg, priors, edgeProbs, belief, n, &cfg)
			if err != nil {
				return nil, err
			}
			belief[n] = alg.Clamp(alg.And(priors[n], combined))
		}
	}

	return belief, nil
}

// combineNode computes the combined parent contribution for a single
// non-source node: gather the diamond bundle (if any) and the
// non-diamond-parent bundle(s), then combine everything present via
// inclusion-exclusion.
func combineNode[V any](
	topo *topology.Topology,
	catalog diamond.Catalog,
	alg algebra.Algebra[V],
	priors map[core.NodeID]V,
	edgeProbs map[core.Edge]V,
	belief map[core.NodeID]V,
	n core.NodeID,
	cfg *settings,
) (V, error) {
	var zero V
	var bundles []V
	var plainParents []core.NodeID

	if dj, ok := catalog[n]; ok {
		diamondValue, err := evaluateDiamondGroups(topo, alg, priors, edgeProbs, belief, dj, cfg)
		if err != nil {
			return zero, err
		}
		bundles = append(bundles, diamondValue)
		plainParents = dj.NonDiamondParents.Sorted()
	} else {
		plainParents = topo.Parents(n)
	}

	if len(plainParents) > 0 {
		contribs := make([]V, 0, len(plainParents))
		for _, p := range plainParents {
			belP, ok := belief[p]
			if !ok {
				return zero, fmt.Errorf("%w: parent %d of node %d has no belief yet",
					core.ErrPropagationOrder, p, n)
			}
			ep, ok := edgeProbs[core.Edge{From: p, To: n}]
			if !ok {
				return zero, fmt.Errorf("%w: edge (%d,%d)", core.ErrMissingProbability, p, n)
			}
			contribs = append(contribs, alg.And(belP, ep))
		}

		if isConvergence(topo, n) {
			bundles = append(bundles, contribs...)
		} else {
			sum := contribs[0]
			for _, c := range contribs[1:] {
				sum = alg.Sum(sum, c)
			}
			bundles = append(bundles, sum)
		}
	}

	if len(bundles) == 0 {
		return zero, fmt.Errorf("%w: node %d has no incoming contribution", core.ErrInvariantViolation, n)
	}
	if len(bundles) == 1 {
		return bundles[0], nil
	}

	return inclusionExclusion(alg, bundles), nil
}

// isConvergence reports whether n has more than one path of influence
// reaching it, i.e. whether its parent contributions must be combined by
// inclusion-exclusion (convergence) rather than summed (simple fan-in on
// disjoint branches). Any node recorded as a topological join, or any node
// with more than one ancestor source, counts.
func isConvergence(topo *topology.Topology, n core.NodeID) bool {
	if topo.IsJoin(n) {
		return true
	}

	return topo.Ancestors[n].Intersect(topo.Sources).Len() > 1
}

// validate runs the fail-fast input checks: every node needs a prior,
// every edge needs a transmission probability, every value must pass
// alg.Validate, and the topology's adjacency indices must agree with
// each other.
func validate[V any](topo *topology.Topology, alg algebra.Algebra[V], priors map[core.NodeID]V, edgeProbs map[core.Edge]V) error {
	for n := range topo.Nodes {
		p, ok := priors[n]
		if !ok {
			return fmt.Errorf("%w: node %d has no prior", core.ErrMissingProbability, n)
		}
		if err := alg.Validate(p); err != nil {
			return fmt.Errorf("node %d prior: %w", n, err)
		}
	}

	for _, e := range topo.Edges {
		ep, ok := edgeProbs[e]
		if !ok {
			return fmt.Errorf("%w: edge (%d,%d) has no transmission probability", core.ErrMissingProbability, e.From, e.To)
		}
		if err := alg.Validate(ep); err != nil {
			return fmt.Errorf("edge (%d,%d): %w", e.From, e.To, err)
		}
	}

	for n := range topo.Nodes {
		for c := range topo.Outgoing[n] {
			if !topo.Incoming[c].Contains(n) {
				return fmt.Errorf("%w: node %d lists %d as a child but %d does not list %d as a parent",
					core.ErrInconsistentIndex, n, c, c, n)
			}
		}
		for p := range topo.Incoming[n] {
			if !topo.Outgoing[p].Contains(n) {
				return fmt.Errorf("%w: node %d lists %d as a parent but %d does not list %d as a child",
					core.ErrInconsistentIndex, n, p, p, n)
			}
		}
	}

	seen := core.NewNodeSet()
	for _, level := range topo.Levels {
		for _, n := range level {
			if seen.Contains(n) {
				return fmt.Errorf("%w: node %d appears in more than one iteration set", core.ErrInconsistentIndex, n)
			}
			seen.Add(n)
		}
	}
	if seen.Len() != topo.Nodes.Len() {
		return fmt.Errorf("%w: iteration sets cover %d nodes, topology has %d", core.ErrInconsistentIndex, seen.Len(), topo.Nodes.Len())
	}

	return nil
}
