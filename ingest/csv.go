package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
)

// LoadSingleAlgebra parses the adjacency-matrix CSV with an embedded prior
// column: row i (1-indexed) is prior_i, a_{i,1}, …, a_{i,n}. A zero cell
// means no edge; a nonzero cell in (0,1] means an edge i→j carrying that
// transmission probability. a_{i,i} must be 0.
func LoadSingleAlgebra(r io.Reader) (core.EdgeList, map[core.NodeID]algebra.Point, map[core.Edge]algebra.Point, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	n := len(rows)
	priors := make(map[core.NodeID]algebra.Point, n)
	edgeProbs := make(map[core.Edge]algebra.Point)
	var edges core.EdgeList

	for i, row := range rows {
		if len(row) != n+1 {
			return nil, nil, nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrMalformedInput, i+1, len(row), n+1)
		}

		prior, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: row %d prior: %v", ErrMalformedInput, i+1, err)
		}
		from := core.NodeID(i + 1)
		priors[from] = algebra.Point(prior)

		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedInput, i+1, j+1, err)
			}
			if i == j {
				if v != 0 {
					return nil, nil, nil, fmt.Errorf("%w: row %d has a nonzero self-loop entry", ErrMalformedInput, i+1)
				}
				continue
			}
			if v == 0 {
				continue
			}

			to := core.NodeID(j + 1)
			edge := core.Edge{From: from, To: to}
			edges = append(edges, edge)
			edgeProbs[edge] = algebra.Point(v)
		}
	}

	return edges, priors, edgeProbs, nil
}
