package algebra

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/reachgraph/reachdag/core"
)

// Interval is the bounded probability representation [Lo, Hi]. Zero value
// is the degenerate interval [0,0].
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// NewInterval constructs an Interval without checking its bounds: a pair
// with lo > hi is returned as given. Callers that read bounds from untrusted
// input should call IntervalAlgebra{}.Validate to reject a malformed pair.
func NewInterval(lo, hi float64) Interval { return Interval{Lo: lo, Hi: hi} }

// Degenerate reports whether iv represents an exact point value (Lo == Hi),
// used when an interval spec is projected onto the slice algebra.
func (iv Interval) Degenerate() bool { return iv.Lo == iv.Hi }

// IntervalAlgebra implements Algebra[Interval] with corner-product bounds
// for And, clamped component-wise addition for Sum, and reversed-bound
// subtraction for Sub.
type IntervalAlgebra struct{}

var _ Algebra[Interval] = IntervalAlgebra{}

// Zero returns [0,0].
func (IntervalAlgebra) Zero() Interval { return Interval{0, 0} }

// One returns [1,1].
func (IntervalAlgebra) One() Interval { return Interval{1, 1} }

// And returns the min/max of the four corner products of x and y.
func (IntervalAlgebra) And(x, y Interval) Interval {
	corners := []float64{x.Lo * y.Lo, x.Lo * y.Hi, x.Hi * y.Lo, x.Hi * y.Hi}

	return Interval{Lo: floats.Min(corners), Hi: floats.Max(corners)}
}

// Sum adds component-wise, clamped to [0,1].
func (IntervalAlgebra) Sum(x, y Interval) Interval {
	return Interval{Lo: clamp01(x.Lo + y.Lo), Hi: clamp01(x.Hi + y.Hi)}
}

// Sub reverses bounds (x.Lo - y.Hi, x.Hi - y.Lo) and is left unclamped so
// inclusion-exclusion's alternating sum can carry negative interim terms
// before the propagator's final per-node clamp.
func (IntervalAlgebra) Sub(x, y Interval) Interval {
	return Interval{Lo: x.Lo - y.Hi, Hi: x.Hi - y.Lo}
}

// Complement returns [1-Hi, 1-Lo].
func (IntervalAlgebra) Complement(x Interval) Interval {
	return Interval{Lo: 1 - x.Hi, Hi: 1 - x.Lo}
}

// Validate reports ErrOutOfRange if lo > hi or either bound escapes [0,1].
func (IntervalAlgebra) Validate(x Interval) error {
	if x.Lo > x.Hi {
		return fmt.Errorf("%w: interval [%v,%v] has lo > hi", core.ErrOutOfRange, x.Lo, x.Hi)
	}
	if x.Lo < 0 || x.Hi > 1 {
		return fmt.Errorf("%w: interval [%v,%v] escapes [0,1]", core.ErrOutOfRange, x.Lo, x.Hi)
	}

	return nil
}

// IsDeterministic reports whether x is the degenerate interval [0,0] or [1,1].
func (IntervalAlgebra) IsDeterministic(x Interval) bool {
	return (x.Lo == 0 && x.Hi == 0) || (x.Lo == 1 && x.Hi == 1)
}

// Name returns "interval".
func (IntervalAlgebra) Name() string { return "interval" }

// Clamp restricts both bounds of x to [0,1], used by the propagator on the
// final combined belief, mirroring PointAlgebra.Clamp.
func (IntervalAlgebra) Clamp(x Interval) Interval {
	return Interval{Lo: clamp01(x.Lo), Hi: clamp01(x.Hi)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
