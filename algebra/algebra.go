// Package algebra defines the probability-algebra capability interface the
// engine is parametric over — a single generic interface rather than
// per-algebra dispatch — plus its three concrete instantiations: Point (a
// bare float64), Interval ([lo,hi] bounds), and Slice (a discrete weighted
// mixture).
//
// Every Algebra implementation must satisfy:
//
//	Zero() ⊕ x == x
//	One()  ⊗ x == x
//	And is commutative and associative
//	Sum is commutative and associative
//
// Sub(x, x) == Zero() holds for Point, and for a degenerate Interval or a
// single-atom Slice; Interval's Sub reverses bounds and Slice's Sub crosses
// every atom pair, so a non-degenerate x gives a non-zero Sub(x, x).
//
// The propagate and diamond packages are written once against Algebra[V]
// and instantiated per call with whichever concrete V the caller chooses.
package algebra

// Algebra is the set of operations the belief propagator needs from a
// probability representation V: AND (⊗), Sum (⊕), Sub (⊖) and Complement
// give each representation its own arithmetic, domain check, and clamp.
type Algebra[V any] interface {
	// Zero is the additive identity: Sum(Zero(), x) == x.
	Zero() V
	// One is the multiplicative identity: And(One(), x) == x.
	One() V
	// And combines two independent events (⊗): commutative, associative.
	And(x, y V) V
	// Sum combines two terms (⊕), as used by inclusion-exclusion and by
	// belief combination at non-convergence nodes: commutative, associative.
	Sum(x, y V) V
	// Sub computes the signed difference (⊖); see the package comment for
	// when Sub(x, x) == Zero() holds.
	Sub(x, y V) V
	// Complement returns the "did not happen" counterpart of x (1 - x in
	// the point algebra), used when conditioning on a fork being inactive.
	Complement(x V) V
	// Validate reports ErrOutOfRange if x is not a well-formed value for
	// this algebra's domain (e.g. a scalar outside [0,1], lo > hi, or
	// weights that do not sum to one).
	Validate(x V) error
	// IsDeterministic reports whether x is exactly Zero or exactly One —
	// i.e. carries no uncertainty. Deterministic sources contribute no
	// uncertainty and are excluded from fork-ancestor consideration during
	// diamond decomposition.
	IsDeterministic(x V) bool
	// Clamp restricts x to the algebra's valid domain (e.g. [0,1] for a
	// scalar). Inclusion-exclusion's alternating sum may legitimately carry
	// negative or out-of-range interim terms; the propagator calls Clamp
	// exactly once, on the final combined belief of each node, never on an
	// interim term.
	Clamp(x V) V
	// Name identifies the algebra for error messages and CLI --algebra
	// selection ("point", "interval", "slice").
	Name() string
}
