package diffusion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
)

func randomGraph(t *testing.T, n, m int, seed int64) *graph.Graph {
	rnd := rand.New(rand.NewSource(seed))
	src := make([]int, m)
	dst := make([]int, m)
	weight := make([]float64, m)
	for i := range src {
		src[i] = rnd.Intn(n)
		dst[i] = rnd.Intn(n)
		weight[i] = 0.5 + rnd.Float64()
	}
	g, err := graph.New(src, dst, weight, n)
	require.NoError(t, err)
	return g
}

func TestFirstStepIsSelfLoopProbability(t *testing.T) {
	// Node 0 has a self-loop and two other edges, node 1 only a self-loop.
	g, err := graph.New([]int{0, 0, 0, 1, 2}, []int{0, 1, 2, 1, 0}, nil, 3)
	require.NoError(t, err)
	pe, err := (&Encoder{WalkLength: 3}).Encode(g)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, pe.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, pe.At(1, 0), 1e-12)
	assert.InDelta(t, 0.0, pe.At(2, 0), 1e-12)
	// 2 -> 0 -> 2 has probability 1 * 1/3.
	assert.InDelta(t, 1.0/3, pe.At(2, 1), 1e-12)
}

func TestIsolatedNodeIsZero(t *testing.T) {
	g, err := graph.New([]int{0, 1, 1, 2}, []int{1, 0, 2, 1}, nil, 4)
	require.NoError(t, err)
	pe, err := (&Encoder{WalkLength: 5}).Encode(g)
	require.NoError(t, err)
	for t2 := 0; t2 < 5; t2++ {
		assert.Equal(t, 0.0, pe.At(3, t2))
	}
	// The path 0-1-2 is bipartite, so odd steps never return.
	assert.Equal(t, 0.0, pe.At(0, 0))
	assert.InDelta(t, 0.5, pe.At(0, 1), 1e-12)
}

func TestParallelEdgesAddUp(t *testing.T) {
	// 0->1 twice, 0->2 once, 1->0, and a self-loop on 2.
	g, err := graph.New([]int{0, 0, 0, 1, 2}, []int{1, 1, 2, 0, 2}, nil, 3)
	require.NoError(t, err)
	for _, op := range []Operator{NewDenseOperator(g), NewSparseOperator(g)} {
		pe := EncodeWith(op, 2)
		assert.InDelta(t, 2.0/3, pe.At(0, 1), 1e-12)
		assert.InDelta(t, 1.0, pe.At(2, 0), 1e-12)
	}
}

func TestDenseAndSparseAgree(t *testing.T) {
	for _, n := range []int{5, 30, 120} {
		g := randomGraph(t, n, 4*n, int64(n))
		dense := EncodeWith(NewDenseOperator(g), 8)
		sparse := EncodeWith(NewSparseOperator(g), 8)
		require.Equal(t, dense.Rows, sparse.Rows)
		require.Equal(t, dense.Cols, sparse.Cols)
		for i := range dense.Data {
			assert.InDelta(t, dense.Data[i], sparse.Data[i], 1e-12)
		}
	}
}

func TestThresholdSelectsRepresentation(t *testing.T) {
	g := randomGraph(t, 50, 200, 1)
	_, isDense := NewOperator(g, 50).(*DenseOperator)
	assert.True(t, isDense)
	_, isSparse := NewOperator(g, 49).(*SparseOperator)
	assert.True(t, isSparse)

	below, err := (&Encoder{WalkLength: 6, DenseThreshold: 50}).Encode(g)
	require.NoError(t, err)
	above, err := (&Encoder{WalkLength: 6, DenseThreshold: 49}).Encode(g)
	require.NoError(t, err)
	for i := range below.Data {
		assert.InDelta(t, below.Data[i], above.Data[i], 1e-12)
	}
}

func TestClampedOutWeight(t *testing.T) {
	g, err := graph.New([]int{0, 1}, []int{0, 0}, []float64{0.25, 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 1}, TransitionWeights(g))
}

func TestZeroWalkLength(t *testing.T) {
	g := randomGraph(t, 4, 4, 2)
	pe, err := (&Encoder{}).Encode(g)
	require.NoError(t, err)
	assert.Equal(t, feature.Empty(4), pe)
}

func TestDeterministic(t *testing.T) {
	g := randomGraph(t, 40, 100, 9)
	a, err := (&Encoder{WalkLength: 4}).Encode(g)
	require.NoError(t, err)
	b, err := (&Encoder{WalkLength: 4}).Encode(g)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
