package propagate

import "errors"

// ErrConditioningSetTooLarge is returned when a diamond's conditioning set
// size exceeds a caller-configured WithMaxConditioningSet cap — most
// pressing for the slice (p-box) algebra, where every enumerated
// assignment multiplies the atom count of every downstream combination.
// The core engine itself does not perform a cross-algebra fallback — it
// surfaces this sentinel so a caller can retry under a cheaper algebra.
// Callers that register WithConditioningCapHook get the hook call instead
// of this error; cmd/reachdag does so and reruns the whole propagation
// under the interval algebra.
var ErrConditioningSetTooLarge = errors.New("propagate: diamond conditioning set exceeds configured cap")
