// Package ingest implements the two file-based input formats the engine is
// tested end to end against: a single-algebra adjacency-CSV with an
// embedded prior column, and a 0/1 adjacency-CSV paired with a JSON
// side-car carrying interval or slice probability specs per node and edge.
//
// Both loaders are thin: they parse into core.EdgeList plus prior/edge
// maps (algebra.Point values for LoadSingleAlgebra, PSpec values for
// LoadParametric) and check only the file structure (column counts, numeric
// cells, zero diagonal), leaving range and consistency checks to
// propagate.Run's fail-fast validation.
package ingest
