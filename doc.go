// Package reachdag computes exact reachability/belief values on
// probabilistic directed acyclic graphs: every node has a prior, every edge
// has a transmission probability, and the engine propagates belief from
// sources to every other node, resolving shared-ancestor "diamond"
// convergences exactly via conditioning rather than approximating them with
// a naive noisy-OR combination.
//
// The engine is organized as four composable stages:
//
//	topology/  — builds the ancestor/descendant closures and the
//	             topological level partition from a raw edge list.
//	diamond/   — finds every fork/join pair sharing more than one
//	             internally-disjoint path and extracts its subgraph.
//	algebra/   — the probability representation the engine is generic
//	             over: a bare scalar (Point), a bound ([lo,hi] Interval),
//	             or a discrete weighted mixture (Slice).
//	propagate/ — the topological sweep that combines parent
//	             contributions, conditioning on diamonds where needed.
//
// ingest/ and cmd/reachdag wrap the engine with file-based input formats and
// a command-line front end; they are not required to use the engine as a
// library.
package reachdag
