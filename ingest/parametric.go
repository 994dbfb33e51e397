package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
)

// PSpec is the JSON probability-value spec of the parametric input format:
// either a lower/upper bound pair (interval algebra) or a values/weights
// discrete mixture (slice algebra). Exactly one shape must be populated.
type PSpec struct {
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`

	Values  []float64 `json:"values,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
}

// ToInterval converts a lower/upper PSpec into an algebra.Interval.
func (p PSpec) ToInterval() (algebra.Interval, error) {
	if p.Lower == nil || p.Upper == nil {
		return algebra.Interval{}, fmt.Errorf("%w: P-spec has no lower/upper bound", ErrMalformedInput)
	}

	return algebra.NewInterval(*p.Lower, *p.Upper), nil
}

// ToSlice converts a values/weights PSpec into an algebra.Slice.
func (p PSpec) ToSlice() (algebra.Slice, error) {
	if len(p.Values) == 0 || len(p.Values) != len(p.Weights) {
		return nil, fmt.Errorf("%w: P-spec values/weights missing or mismatched in length", ErrMalformedInput)
	}

	s := make(algebra.Slice, len(p.Values))
	for i := range p.Values {
		s[i] = algebra.Atom{Value: p.Values[i], Weight: p.Weights[i]}
	}

	return s, nil
}

// parametricDoc is the JSON side-car shape: { "nodes": {...}, "edges": {...} }.
type parametricDoc struct {
	Nodes map[string]PSpec `json:"nodes"`
	Edges map[string]PSpec `json:"edges"`
}

// LoadParametric parses the 0/1 adjacency-CSV + JSON side-car input format:
// the CSV gives edges only (row i, column j = 1 means edge i→j), and the
// JSON gives a PSpec per node id and
// per "(i,j)" edge key. Converting the returned PSpec maps into a concrete
// algebra.Interval or algebra.Slice map is the caller's job (cmd/reachdag
// does this once it knows which algebra was requested).
func LoadParametric(csvReader, jsonReader io.Reader) (core.EdgeList, map[core.NodeID]PSpec, map[core.Edge]PSpec, error) {
	rows, err := csv.NewReader(csvReader).ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	n := len(rows)
	var edges core.EdgeList
	for i, row := range rows {
		if len(row) != n {
			return nil, nil, nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrMalformedInput, i+1, len(row), n)
		}
		for j, cell := range row {
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedInput, i+1, j+1, err)
			}
			switch {
			case i == j:
				if v != 0 {
					return nil, nil, nil, fmt.Errorf("%w: row %d has a nonzero self-loop entry", ErrMalformedInput, i+1)
				}
			case v == 1:
				edges = append(edges, core.Edge{From: core.NodeID(i + 1), To: core.NodeID(j + 1)})
			case v != 0:
				return nil, nil, nil, fmt.Errorf("%w: row %d column %d has non-0/1 value %d", ErrMalformedInput, i+1, j+1, v)
			}
		}
	}

	var doc parametricDoc
	if err := json.NewDecoder(jsonReader).Decode(&doc); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	nodeSpecs := make(map[core.NodeID]PSpec, len(doc.Nodes))
	for key, spec := range doc.Nodes {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: node key %q: %v", ErrMalformedInput, key, err)
		}
		nodeSpecs[core.NodeID(id)] = spec
	}

	edgeSpecs := make(map[core.Edge]PSpec, len(doc.Edges))
	for key, spec := range doc.Edges {
		var i, j uint64
		if _, err := fmt.Sscanf(key, "(%d,%d)", &i, &j); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: edge key %q: %v", ErrMalformedInput, key, err)
		}
		edgeSpecs[core.Edge{From: core.NodeID(i), To: core.NodeID(j)}] = spec
	}

	return edges, nodeSpecs, edgeSpecs, nil
}
