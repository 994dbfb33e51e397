package core

import "errors"

// Sentinel errors, one per error kind in reachdag's vocabulary. Every
// package reuses these for the kinds they cover, so a caller can errors.Is
// against a single, stable set; ingest (ErrMalformedInput) and propagate
// (ErrConditioningSetTooLarge) each add one sentinel for a condition outside
// this vocabulary.
//
//   - Only these package-level sentinels are exposed.
//   - Callers use errors.Is(err, ErrX) to branch on semantics.
//   - Sentinels are never stringified with parameters at definition site;
//     call sites wrap them with fmt.Errorf("%w: ...") to attach detail.
var (
	// ErrInvalidGraph covers a cycle, a self-loop, or a reference to an
	// unknown node in the input edge list.
	ErrInvalidGraph = errors.New("reachdag: invalid graph")

	// ErrMissingProbability indicates a node has no prior, or an edge has
	// no transmission probability.
	ErrMissingProbability = errors.New("reachdag: missing probability")

	// ErrOutOfRange indicates a value outside the algebra's domain: a
	// scalar outside [0,1], an interval with lo > hi, or a slice whose
	// weights do not sum to one (or is empty).
	ErrOutOfRange = errors.New("reachdag: value out of range")

	// ErrInconsistentIndex indicates the outgoing and incoming adjacency
	// indices of a topology disagree about an edge's presence.
	ErrInconsistentIndex = errors.New("reachdag: inconsistent adjacency index")

	// ErrPropagationOrder indicates a parent's belief was read before it
	// was written; this always signals a bug in iteration-set construction,
	// never a malformed input.
	ErrPropagationOrder = errors.New("reachdag: propagation order violated")

	// ErrInvariantViolation indicates an internal invariant broke: the
	// decomposer's cleanup pass emptied a non-empty diamond group list, or
	// a subgraph could not be built from its own relevant-node set.
	ErrInvariantViolation = errors.New("reachdag: invariant violation")
)
