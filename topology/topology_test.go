package topology_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/topology"
)

// diamondEdges is the canonical single fork/join shape: 1→2, 1→3, 2→4, 3→4.
func diamondEdges() core.EdgeList {
	return core.EdgeList{
		{From: 1, To: 2}, {From: 1, To: 3},
		{From: 2, To: 4}, {From: 3, To: 4},
	}
}

func TestBuild_Diamond_Classification(t *testing.T) {
	topo, err := topology.Build(diamondEdges())
	require.NoError(t, err)

	assert.True(t, topo.IsFork(1))
	assert.True(t, topo.IsJoin(4))
	assert.True(t, topo.IsSource(1))
	assert.False(t, topo.IsFork(2))
	assert.False(t, topo.IsJoin(2))
}

func TestBuild_Diamond_Levels(t *testing.T) {
	topo, err := topology.Build(diamondEdges())
	require.NoError(t, err)

	require.Len(t, topo.Levels, 3)
	assert.Equal(t, []core.NodeID{1}, topo.Levels[0])
	assert.ElementsMatch(t, []core.NodeID{2, 3}, topo.Levels[1])
	assert.Equal(t, []core.NodeID{4}, topo.Levels[2])
}

// TestBuild_TopologicalCorrectness verifies that for every edge (u,v),
// level(u) < level(v).
func TestBuild_TopologicalCorrectness(t *testing.T) {
	topo, err := topology.Build(diamondEdges())
	require.NoError(t, err)

	for _, e := range diamondEdges() {
		assert.Less(t, topo.LevelOf[e.From], topo.LevelOf[e.To])
	}
}

// TestBuild_AncestorDescendantDuality verifies u ∈ ancestors(v) ⇔
// v ∈ descendants(u).
func TestBuild_AncestorDescendantDuality(t *testing.T) {
	topo, err := topology.Build(diamondEdges())
	require.NoError(t, err)

	for u := range topo.Nodes {
		for v := range topo.Nodes {
			assert.Equal(t, topo.Ancestors[v].Contains(u), topo.Descendants[u].Contains(v),
				"u=%d v=%d", u, v)
		}
	}
	// Reflexivity and irreflexivity.
	for u := range topo.Nodes {
		assert.True(t, topo.Ancestors[u].Contains(u))
		assert.False(t, topo.Descendants[u].Contains(u))
	}
}

func TestBuild_Chain(t *testing.T) {
	edges := core.EdgeList{{From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 4}}
	topo, err := topology.Build(edges)
	require.NoError(t, err)

	require.Len(t, topo.Levels, 4)
	assert.True(t, topo.Ancestors[4].Contains(1))
	assert.True(t, topo.Descendants[1].Contains(4))
	assert.Empty(t, topo.Forks)
	assert.Empty(t, topo.Joins)
}

func TestBuild_RejectsSelfLoop(t *testing.T) {
	_, err := topology.Build(core.EdgeList{{From: 1, To: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidGraph))
}

func TestBuild_RejectsCycle(t *testing.T) {
	edges := core.EdgeList{{From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 1}}
	_, err := topology.Build(edges)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidGraph))
}

func TestBuild_NestedDiamonds(t *testing.T) {
	// 1→{2,3}→4→{5,6}→7
	edges := core.EdgeList{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 4}, {From: 3, To: 4},
		{From: 4, To: 5}, {From: 4, To: 6}, {From: 5, To: 7}, {From: 6, To: 7},
	}
	topo, err := topology.Build(edges)
	require.NoError(t, err)

	assert.True(t, topo.IsFork(1))
	assert.True(t, topo.IsJoin(4))
	assert.True(t, topo.IsFork(4))
	assert.True(t, topo.IsJoin(7))
	assert.True(t, topo.Ancestors[7].Contains(1))
}
