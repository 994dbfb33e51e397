package algebra

import (
	"fmt"

	"github.com/reachgraph/reachdag/core"
)

// Point is the scalar probability representation: a single float64 in
// [0,1]. It is the fixed-point probability algebra: no bounds, no mixture,
// just a scalar.
type Point float64

// PointAlgebra implements Algebra[Point] with ordinary real arithmetic.
type PointAlgebra struct{}

var _ Algebra[Point] = PointAlgebra{}

// Zero returns 0.
func (PointAlgebra) Zero() Point { return 0 }

// One returns 1.
func (PointAlgebra) One() Point { return 1 }

// And multiplies the two scalars.
func (PointAlgebra) And(x, y Point) Point { return x * y }

// Sum adds the two scalars.
func (PointAlgebra) Sum(x, y Point) Point { return x + y }

// Sub subtracts y from x.
func (PointAlgebra) Sub(x, y Point) Point { return x - y }

// Complement returns 1 - x.
func (PointAlgebra) Complement(x Point) Point { return 1 - x }

// Validate reports ErrOutOfRange if x is not in [0,1].
func (PointAlgebra) Validate(x Point) error {
	if x < 0 || x > 1 {
		return fmt.Errorf("%w: point value %v not in [0,1]", core.ErrOutOfRange, float64(x))
	}

	return nil
}

// IsDeterministic reports whether x is exactly 0 or exactly 1.
func (PointAlgebra) IsDeterministic(x Point) bool { return x == 0 || x == 1 }

// Name returns "point".
func (PointAlgebra) Name() string { return "point" }

// Clamp restricts x to [0,1], used by the propagator only at the final
// per-node belief, never on intermediate inclusion-exclusion terms (which
// may legitimately go negative or out-of-range during accumulation).
func (PointAlgebra) Clamp(x Point) Point {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
