package algebra

import (
	"fmt"
	"math"
	"sort"

	"github.com/reachgraph/reachdag/core"
)

// Atom is one (value, weight) pair of a discrete mixture: vᵢ ∈ [0,1],
// wᵢ ≥ 0. A Slice's weights must sum to 1 once consolidated.
type Atom struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Slice is the discrete mixture ("p-box slice") probability representation:
// a finite set of (value, weight) atoms.
type Slice []Atom

// SliceAlgebra implements Algebra[Slice]. Tolerance is the consolidation
// tolerance: two atoms whose values differ by less than Tolerance are
// merged, summing their weights. PruneBelow, if > 0, drops atoms whose
// |weight| falls below it after consolidation, bounding slice growth
// across repeated combination.
//
// Both fields are exposed as configured algebra parameters rather than
// constants, so callers can trade accuracy for bounded growth.
type SliceAlgebra struct {
	Tolerance  float64
	PruneBelow float64
}

var _ Algebra[Slice] = SliceAlgebra{}

// Zero returns the degenerate mixture {(0, 1)}.
func (SliceAlgebra) Zero() Slice { return Slice{{Value: 0, Weight: 1}} }

// One returns the degenerate mixture {(1, 1)}.
func (SliceAlgebra) One() Slice { return Slice{{Value: 1, Weight: 1}} }

// And returns the cross product of x and y with values multiplied and
// weights multiplied (independent AND), then consolidated.
func (a SliceAlgebra) And(x, y Slice) Slice {
	return a.consolidate(a.cross(x, y, func(vx, vy float64) float64 { return vx * vy }))
}

// Sum returns the cross product of x and y with values added and weights
// multiplied, then consolidated. Used for inclusion-exclusion's signed
// accumulation, so intermediate values may legitimately fall outside
// [0,1]; only the propagator's final per-node result is clamped.
func (a SliceAlgebra) Sum(x, y Slice) Slice {
	return a.consolidate(a.cross(x, y, func(vx, vy float64) float64 { return vx + vy }))
}

// Sub returns the cross product of x and y with values subtracted and
// weights multiplied, then consolidated.
func (a SliceAlgebra) Sub(x, y Slice) Slice {
	return a.consolidate(a.cross(x, y, func(vx, vy float64) float64 { return vx - vy }))
}

// Complement maps every atom's value to 1-value, preserving weights.
func (SliceAlgebra) Complement(x Slice) Slice {
	out := make(Slice, len(x))
	for i, atom := range x {
		out[i] = Atom{Value: 1 - atom.Value, Weight: atom.Weight}
	}

	return out
}

// Validate reports ErrOutOfRange if x is empty, any weight is negative, any
// value escapes [0,1], or the weights do not sum to 1 within 1e-9.
func (SliceAlgebra) Validate(x Slice) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: slice has no atoms", core.ErrOutOfRange)
	}
	var total float64
	for _, atom := range x {
		if atom.Weight < 0 {
			return fmt.Errorf("%w: slice atom has negative weight %v", core.ErrOutOfRange, atom.Weight)
		}
		if atom.Value < 0 || atom.Value > 1 {
			return fmt.Errorf("%w: slice atom value %v not in [0,1]", core.ErrOutOfRange, atom.Value)
		}
		total += atom.Weight
	}
	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("%w: slice weights sum to %v, not 1", core.ErrOutOfRange, total)
	}

	return nil
}

// IsDeterministic reports whether x is a single-atom mixture pinned at
// exactly 0 or exactly 1.
func (SliceAlgebra) IsDeterministic(x Slice) bool {
	if len(x) != 1 {
		return false
	}

	return x[0].Value == 0 || x[0].Value == 1
}

// Name returns "slice".
func (SliceAlgebra) Name() string { return "slice" }

// Clamp restricts every atom's value to [0,1] and re-consolidates, used by
// the propagator on the final combined per-node belief.
func (a SliceAlgebra) Clamp(x Slice) Slice {
	clamped := make(Slice, len(x))
	for i, atom := range x {
		clamped[i] = Atom{Value: clamp01(atom.Value), Weight: atom.Weight}
	}

	return a.consolidate(clamped)
}

// cross computes the Cartesian cross product of x and y's atoms, combining
// values with combine and weights by multiplication.
func (SliceAlgebra) cross(x, y Slice, combine func(vx, vy float64) float64) Slice {
	out := make(Slice, 0, len(x)*len(y))
	for _, ax := range x {
		for _, ay := range y {
			out = append(out, Atom{Value: combine(ax.Value, ay.Value), Weight: ax.Weight * ay.Weight})
		}
	}

	return out
}

// consolidate merges atoms whose values differ by less than a.Tolerance,
// summing their weights, then re-normalizes by the sum of absolute weights
// so inclusion-exclusion's negative interim weights are allowed to
// accumulate and are only folded back to a proper distribution here.
// Atoms whose weight magnitude falls below a.PruneBelow after merging are
// dropped, bounding slice growth.
func (a SliceAlgebra) consolidate(atoms Slice) Slice {
	if len(atoms) == 0 {
		return atoms
	}
	sorted := make(Slice, len(atoms))
	copy(sorted, atoms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	tol := a.Tolerance
	merged := make(Slice, 0, len(sorted))
	cur := sorted[0]
	for _, atom := range sorted[1:] {
		if math.Abs(atom.Value-cur.Value) < tol {
			// Weighted-average the merged value so repeated near-equal
			// merges drift toward the center of mass, not the first atom.
			totalW := cur.Weight + atom.Weight
			if totalW != 0 {
				cur.Value = (cur.Value*cur.Weight + atom.Value*atom.Weight) / totalW
			}
			cur.Weight = totalW
			continue
		}
		merged = append(merged, cur)
		cur = atom
	}
	merged = append(merged, cur)

	if a.PruneBelow > 0 {
		pruned := merged[:0:0]
		for _, atom := range merged {
			if math.Abs(atom.Weight) >= a.PruneBelow {
				pruned = append(pruned, atom)
			}
		}
		if len(pruned) > 0 {
			merged = pruned
		}
	}

	var totalAbs float64
	for _, atom := range merged {
		totalAbs += math.Abs(atom.Weight)
	}
	if totalAbs == 0 {
		return merged
	}
	for i := range merged {
		merged[i].Weight /= totalAbs
	}

	return merged
}

// Mean returns the weighted mean value of the slice, a convenience used by
// CLI rendering and by tests comparing against point-algebra expectations.
func (x Slice) Mean() float64 {
	var mean float64
	for _, atom := range x {
		mean += atom.Value * atom.Weight
	}

	return mean
}
