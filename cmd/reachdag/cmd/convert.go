package cmd

import (
	"fmt"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/ingest"
)

// projectPSpecsToPoint collapses every PSpec to a single scalar: an
// interval spec becomes its midpoint, a slice spec becomes its weighted
// mean. This only matters when a caller requests --algebra point against
// parametric (JSON side-car) input rather than the single-algebra CSV.
func projectPSpecsToPoint(nodeSpecs map[core.NodeID]ingest.PSpec, edgeSpecs map[core.Edge]ingest.PSpec) (map[core.NodeID]algebra.Point, map[core.Edge]algebra.Point, error) {
	priors := make(map[core.NodeID]algebra.Point, len(nodeSpecs))
	for id, spec := range nodeSpecs {
		p, err := pspecToPoint(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", id, err)
		}
		priors[id] = p
	}

	edgeProbs := make(map[core.Edge]algebra.Point, len(edgeSpecs))
	for e, spec := range edgeSpecs {
		p, err := pspecToPoint(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("edge (%d,%d): %w", e.From, e.To, err)
		}
		edgeProbs[e] = p
	}

	return priors, edgeProbs, nil
}

func pspecToPoint(spec ingest.PSpec) (algebra.Point, error) {
	if spec.Lower != nil && spec.Upper != nil {
		return algebra.Point((*spec.Lower + *spec.Upper) / 2), nil
	}
	s, err := spec.ToSlice()
	if err != nil {
		return 0, err
	}

	return algebra.Point(s.Mean()), nil
}

func projectPSpecsToInterval(nodeSpecs map[core.NodeID]ingest.PSpec, edgeSpecs map[core.Edge]ingest.PSpec) (map[core.NodeID]algebra.Interval, map[core.Edge]algebra.Interval, error) {
	priors := make(map[core.NodeID]algebra.Interval, len(nodeSpecs))
	for id, spec := range nodeSpecs {
		iv, err := pspecToInterval(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", id, err)
		}
		priors[id] = iv
	}

	edgeProbs := make(map[core.Edge]algebra.Interval, len(edgeSpecs))
	for e, spec := range edgeSpecs {
		iv, err := pspecToInterval(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("edge (%d,%d): %w", e.From, e.To, err)
		}
		edgeProbs[e] = iv
	}

	return priors, edgeProbs, nil
}

func pspecToInterval(spec ingest.PSpec) (algebra.Interval, error) {
	if spec.Lower != nil && spec.Upper != nil {
		return spec.ToInterval()
	}

	s, err := spec.ToSlice()
	if err != nil {
		return algebra.Interval{}, err
	}

	return boundingInterval(s), nil
}

func projectPSpecsToSlice(nodeSpecs map[core.NodeID]ingest.PSpec, edgeSpecs map[core.Edge]ingest.PSpec) (map[core.NodeID]algebra.Slice, map[core.Edge]algebra.Slice, error) {
	priors := make(map[core.NodeID]algebra.Slice, len(nodeSpecs))
	for id, spec := range nodeSpecs {
		s, err := pspecToSlice(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", id, err)
		}
		priors[id] = s
	}

	edgeProbs := make(map[core.Edge]algebra.Slice, len(edgeSpecs))
	for e, spec := range edgeSpecs {
		s, err := pspecToSlice(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("edge (%d,%d): %w", e.From, e.To, err)
		}
		edgeProbs[e] = s
	}

	return priors, edgeProbs, nil
}

func pspecToSlice(spec ingest.PSpec) (algebra.Slice, error) {
	if len(spec.Values) > 0 {
		return spec.ToSlice()
	}

	iv, err := spec.ToInterval()
	if err != nil {
		return nil, err
	}
	if iv.Degenerate() {
		return algebra.Slice{{Value: iv.Lo, Weight: 1}}, nil
	}

	// An interval-specified node under the slice algebra has no natural
	// discrete mixture; split its mass evenly across the two bounds, the
	// widest two-atom mixture consistent with the stated interval.
	return algebra.Slice{{Value: iv.Lo, Weight: 0.5}, {Value: iv.Hi, Weight: 0.5}}, nil
}

// boundingInterval returns the tightest interval containing every atom
// value of s, used both to interpret a slice-shaped PSpec under the
// interval algebra and to project slice prior/edge-probability maps down to
// interval bounds for the p-box fallback.
func boundingInterval(s algebra.Slice) algebra.Interval {
	if len(s) == 0 {
		return algebra.Interval{}
	}

	lo, hi := s[0].Value, s[0].Value
	for _, atom := range s[1:] {
		if atom.Value < lo {
			lo = atom.Value
		}
		if atom.Value > hi {
			hi = atom.Value
		}
	}

	return algebra.NewInterval(lo, hi)
}

// projectSliceInputsToInterval converts already-typed Slice prior/edge maps
// into Interval maps by bounding each slice's support, used when the slice
// algebra's conditioning cap is exceeded and the CLI retries under the
// cheaper interval algebra on the same topology.
func projectSliceInputsToInterval(priors map[core.NodeID]algebra.Slice, edgeProbs map[core.Edge]algebra.Slice) (map[core.NodeID]algebra.Interval, map[core.Edge]algebra.Interval) {
	ivPriors := make(map[core.NodeID]algebra.Interval, len(priors))
	for id, s := range priors {
		ivPriors[id] = boundingInterval(s)
	}

	ivEdgeProbs := make(map[core.Edge]algebra.Interval, len(edgeProbs))
	for e, s := range edgeProbs {
		ivEdgeProbs[e] = boundingInterval(s)
	}

	return ivPriors, ivEdgeProbs
}
