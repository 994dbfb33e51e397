package propagate

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/reachgraph/reachdag/algebra"
)

// powerset returns the index sets of every subset of {0,...,n-1}, including
// the empty set, grouped by increasing size via combin.Combinations. This
// is the shared enumeration both inclusionExclusion (walking the nonempty
// subsets of the alternating sum) and evaluateGroup (walking every truth
// assignment of a diamond's conditioning set, where "true" bits are exactly
// a subset of indices) are built on.
func powerset(n int) [][]int {
	sets := make([][]int, 0, 1<<uint(n))
	sets = append(sets, nil)
	for k := 1; k <= n; k++ {
		sets = append(sets, combin.Combinations(n, k)...)
	}

	return sets
}

// inclusionExclusion combines k independent contributions x1..xk by the
// alternating sum ⊕_{S⊆{1..k}, S≠∅} (-1)^(|S|+1) · ⊗_{i∈S} xi, the exact
// probability of at least one contribution holding when contributions are
// independent.
func inclusionExclusion[V any](alg algebra.Algebra[V], xs []V) V {
	if len(xs) == 1 {
		return xs[0]
	}

	acc := alg.Zero()
	for _, subset := range powerset(len(xs)) {
		if len(subset) == 0 {
			continue
		}

		term := alg.One()
		for _, i := range subset {
			term = alg.And(term, xs[i])
		}
		if len(subset)%2 == 1 {
			acc = alg.Sum(acc, term)
		} else {
			acc = alg.Sub(acc, term)
		}
	}

	return acc
}
