package diamond

import (
	"fmt"

	"github.com/reachgraph/reachdag/core"
)

// dedupeEdges removes duplicate (From,To) pairs, preserving first-seen
// order, so repeated closeIncoming passes don't accumulate parallel copies
// of the same edge.
func dedupeEdges(edges core.EdgeList) core.EdgeList {
	seen := make(map[core.Edge]struct{}, len(edges))
	out := make(core.EdgeList, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}

	return out
}

// errInvariant wraps core.ErrInvariantViolation with a formatted detail,
// for internal-bug conditions that should never occur if decomposition is
// correct and are asserted defensively rather than silently tolerated.
func errInvariant(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{core.ErrInvariantViolation}, args...)...)
}
