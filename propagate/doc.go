// Package propagate implements the reachdag belief propagator: given a
// topology, its diamond catalog, and per-node/per-edge probability inputs
// under a chosen algebra.Algebra, Run computes the exact belief value at
// every node.
//
// Diamond-free graphs are handled by a single topological sweep. Genuine
// diamonds are handled by recursive conditioning on the diamond's fork
// ancestors (diamond.go), so that the final combination at every join is
// always exact inclusion-exclusion over independent contributions.
package propagate
