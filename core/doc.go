// Package core is the shared data model of reachdag: dense-integer node
// identifiers, directed edges, node sets, and the sentinel error vocabulary
// every other package (topology, diamond, propagate, ingest) builds on.
//
// It deliberately owns no algorithm: topology.Build derives closures and
// levels from an EdgeList, diamond.Decompose derives a catalog from a
// Topology, and propagate.Run consumes both. core exists so those packages
// share one vocabulary instead of three incompatible ones.
package core
