package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/ingest"
)

func TestLoadSingleAlgebra_SimpleDiamond(t *testing.T) {
	// 4 nodes, priors all 1, diamond 1->2,1->3,2->4,3->4 with p=0.9.
	csvData := strings.Join([]string{
		"1,0,0.9,0.9,0",
		"1,0,0,0,0.9",
		"1,0,0,0,0.9",
		"1,0,0,0,0",
	}, "\n")

	edges, priors, edgeProbs, err := ingest.LoadSingleAlgebra(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Len(t, edges, 4)
	assert.Len(t, priors, 4)
	for _, p := range priors {
		assert.EqualValues(t, 1, p)
	}
	assert.Contains(t, edgeProbs, core.Edge{From: 1, To: 2})
	assert.EqualValues(t, 0.9, edgeProbs[core.Edge{From: 1, To: 2}])
}

func TestLoadSingleAlgebra_RejectsSelfLoop(t *testing.T) {
	// Single node whose only adjacency cell is its own diagonal, nonzero.
	_, _, _, err := ingest.LoadSingleAlgebra(strings.NewReader("1,0.5\n"))
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
}

func TestLoadSingleAlgebra_WrongColumnCount(t *testing.T) {
	_, _, _, err := ingest.LoadSingleAlgebra(strings.NewReader("1,0,0\n1,0\n"))
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
}

func TestLoadParametric_IntervalSpecs(t *testing.T) {
	csvData := "0,1\n0,0\n"
	jsonData := `{
		"nodes": {"1": {"lower":1,"upper":1}, "2": {"lower":1,"upper":1}},
		"edges": {"(1,2)": {"lower":0.8,"upper":0.9}}
	}`

	edges, nodeSpecs, edgeSpecs, err := ingest.LoadParametric(strings.NewReader(csvData), strings.NewReader(jsonData))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, core.Edge{From: 1, To: 2}, edges[0])

	iv, err := nodeSpecs[1].ToInterval()
	require.NoError(t, err)
	assert.Equal(t, 1.0, iv.Lo)

	edgeIv, err := edgeSpecs[core.Edge{From: 1, To: 2}].ToInterval()
	require.NoError(t, err)
	assert.Equal(t, 0.8, edgeIv.Lo)
	assert.Equal(t, 0.9, edgeIv.Hi)
}

func TestLoadParametric_SliceSpecs(t *testing.T) {
	csvData := "0,1\n0,0\n"
	jsonData := `{
		"nodes": {
			"1": {"values":[1], "weights":[1]},
			"2": {"values":[1], "weights":[1]}
		},
		"edges": {"(1,2)": {"values":[0.8,0.9], "weights":[0.5,0.5]}}
	}`

	_, nodeSpecs, edgeSpecs, err := ingest.LoadParametric(strings.NewReader(csvData), strings.NewReader(jsonData))
	require.NoError(t, err)

	s, err := nodeSpecs[1].ToSlice()
	require.NoError(t, err)
	assert.Len(t, s, 1)

	es, err := edgeSpecs[core.Edge{From: 1, To: 2}].ToSlice()
	require.NoError(t, err)
	assert.Len(t, es, 2)
}

func TestLoadParametric_RejectsNonBinaryEntry(t *testing.T) {
	csvData := "0,2\n0,0\n"
	_, _, _, err := ingest.LoadParametric(strings.NewReader(csvData), strings.NewReader(`{"nodes":{},"edges":{}}`))
	assert.ErrorIs(t, err, ingest.ErrMalformedInput)
}
