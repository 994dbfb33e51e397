package propagate

import (
	"context"

	"github.com/reachgraph/reachdag/core"
)

// Option configures a Run invocation via the functional-option pattern
// used throughout reachdag (topology.Build takes none, since it has
// nothing to configure).
type Option func(*settings)

type settings struct {
	ctx                  context.Context
	maxConditioningSet   int
	onConditioningCapped func(join core.NodeID, size int)
}

func defaultSettings() settings {
	return settings{ctx: context.Background()}
}

// WithContext sets a cancellation context checked at each iteration-set
// boundary of the main sweep. The engine has no internal deadline; this
// only lets a caller cooperatively cancel a long-running run.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithMaxConditioningSet caps the conditioning-set size |C| a diamond may
// enumerate, bounding the 2^|C| recursive propagations a join can trigger.
// A cap of 0 (the default) means unlimited. Exceeding the cap returns
// ErrConditioningSetTooLarge naming the offending join.
func WithMaxConditioningSet(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxConditioningSet = n
		}
	}
}

// WithConditioningCapHook registers a callback invoked (instead of
// returning ErrConditioningSetTooLarge) when a diamond's conditioning set
// would exceed the configured cap, receiving the join id and the set size.
// cmd/reachdag uses this to log a structured warning and retry the whole
// propagation under the interval algebra.
func WithConditioningCapHook(fn func(join core.NodeID, size int)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onConditioningCapped = fn
		}
	}
}
