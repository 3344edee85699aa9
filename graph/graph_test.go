package graph

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumNodesDerivedFromMaxIndex(t *testing.T) {
	g, err := New([]NodeId{0, 1, 4}, []NodeId{1, 2, 0}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, g.NumNodes)
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, 1.0, g.EdgeWeight(2))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New([]NodeId{0, 3}, []NodeId{1, 2}, nil, 3)
	assert.True(t, errors.IsNotValid(err), "got %v", err)
	_, err = New([]NodeId{0}, []NodeId{1, 2}, nil, 0)
	assert.True(t, errors.IsNotValid(err))
	_, err = New(nil, nil, nil, 0)
	assert.True(t, errors.IsNotValid(err))
	_, err = New([]NodeId{0}, []NodeId{1}, []float64{1, 2}, 0)
	assert.True(t, errors.IsNotValid(err))
}

func TestFromDenseAdjacency(t *testing.T) {
	g, err := FromDenseAdjacency([][]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes)
	assert.Equal(t, []NodeId{0, 1, 1, 2}, g.Src)
	assert.Equal(t, []NodeId{1, 0, 2, 1}, g.Dst)
	assert.Nil(t, g.Weight)
	assert.True(t, g.IsSymmetric())

	w, err := FromDenseAdjacency([][]float64{{0, 2}, {0.5, 0}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0.5}, w.Weight)
	assert.False(t, w.IsSymmetric())
}

func TestFromEdgeIndexKeepsIsolatedTail(t *testing.T) {
	g, err := FromEdgeIndex([][]int64{{0, 1}, {1, 0}}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumNodes)
	assert.Equal(t, []float64{1, 1, 0, 0}, g.OutWeights())
}

func TestCSR(t *testing.T) {
	g, err := New([]NodeId{2, 0, 0, 2}, []NodeId{1, 2, 1, 0}, nil, 0)
	require.NoError(t, err)
	c := g.CSR()
	assert.Equal(t, []NodeId{1, 2}, c.Neighbors(0))
	assert.Empty(t, c.Neighbors(1))
	assert.Equal(t, []NodeId{0, 1}, c.Neighbors(2))
	assert.True(t, c.HasEdge(2, 1))
	assert.False(t, c.HasEdge(1, 2))
}
