// Graph structure shared by the encoders.
package graph

import (
	"sort"

	"github.com/juju/errors"
)

type NodeId = int

// Graph is an edge list over the nodes [0, NumNodes).
// Self-loops, parallel edges and one-way edges are all allowed.
type Graph struct {
	NumNodes int
	Src      []NodeId
	Dst      []NodeId
	// Weight is nil for unweighted graphs.
	Weight []float64
}

// New validates the edge list. If numNodes is not positive it is derived as
// the largest index plus one.
func New(src, dst []NodeId, weight []float64, numNodes int) (*Graph, error) {
	if len(src) != len(dst) {
		return nil, errors.NotValidf("edge list with %d sources and %d destinations", len(src), len(dst))
	}
	if weight != nil && len(weight) != len(src) {
		return nil, errors.NotValidf("%d weights for %d edges", len(weight), len(src))
	}
	maxId := -1
	for i := range src {
		if src[i] < 0 || dst[i] < 0 {
			return nil, errors.NotValidf("negative node index in edge %d (%d, %d)", i, src[i], dst[i])
		}
		if src[i] > maxId {
			maxId = src[i]
		}
		if dst[i] > maxId {
			maxId = dst[i]
		}
	}
	if numNodes <= 0 {
		numNodes = maxId + 1
	} else if maxId >= numNodes {
		return nil, errors.NotValidf("node index %d with %d nodes", maxId, numNodes)
	}
	if numNodes == 0 {
		return nil, errors.NotValidf("empty edge index")
	}
	return &Graph{NumNodes: numNodes, Src: src, Dst: dst, Weight: weight}, nil
}

// FromEdgeIndex takes the 2 x E layout: rows[0] are sources, rows[1] destinations.
func FromEdgeIndex(rows [][]int64, numNodes int) (*Graph, error) {
	if len(rows) != 2 {
		return nil, errors.NotValidf("edge index with %d rows", len(rows))
	}
	if len(rows[0]) != len(rows[1]) {
		return nil, errors.NotValidf("edge index rows of length %d and %d", len(rows[0]), len(rows[1]))
	}
	src := make([]NodeId, len(rows[0]))
	dst := make([]NodeId, len(rows[1]))
	for i := range src {
		src[i] = NodeId(rows[0][i])
		dst[i] = NodeId(rows[1][i])
	}
	return New(src, dst, nil, numNodes)
}

// FromDenseAdjacency makes an edge for every nonzero entry, in row-major order.
// The entries become the edge weights unless they are all 1.
func FromDenseAdjacency(a [][]float64) (*Graph, error) {
	n := len(a)
	var src, dst []NodeId
	var weight []float64
	weighted := false
	for i, row := range a {
		if len(row) != n {
			return nil, errors.NotValidf("adjacency row %d has %d entries, expected %d", i, len(row), n)
		}
		for j, v := range row {
			if v != 0 {
				src = append(src, i)
				dst = append(dst, j)
				weight = append(weight, v)
				if v != 1 {
					weighted = true
				}
			}
		}
	}
	if !weighted {
		weight = nil
	}
	return New(src, dst, weight, n)
}

func (g *Graph) NumEdges() int {
	return len(g.Src)
}

func (g *Graph) EdgeWeight(i int) float64 {
	if g.Weight == nil {
		return 1
	}
	return g.Weight[i]
}

// OutWeights is the sum of the outgoing edge weights for each node.
func (g *Graph) OutWeights() []float64 {
	out := make([]float64, g.NumNodes)
	for i, s := range g.Src {
		out[s] += g.EdgeWeight(i)
	}
	return out
}

// IsSymmetric is true if every edge (u, v, w) has a matching (v, u, w).
// Parallel edges are summed first.
func (g *Graph) IsSymmetric() bool {
	type edgeKey struct {
		src NodeId
		dst NodeId
	}
	sums := make(map[edgeKey]float64, len(g.Src))
	for i := range g.Src {
		sums[edgeKey{g.Src[i], g.Dst[i]}] += g.EdgeWeight(i)
	}
	for k, w := range sums {
		if sums[edgeKey{k.dst, k.src}] != w {
			return false
		}
	}
	return true
}

// CSR is a compressed row view of the adjacency. The neighbors of u are
// Col[RowPtr[u]:RowPtr[u+1]], sorted ascending.
type CSR struct {
	RowPtr []int
	Col    []NodeId
}

func (g *Graph) CSR() *CSR {
	rowPtr := make([]int, g.NumNodes+1)
	for _, s := range g.Src {
		rowPtr[s+1]++
	}
	for i := 0; i < g.NumNodes; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	col := make([]NodeId, len(g.Src))
	next := make([]int, g.NumNodes)
	copy(next, rowPtr[:g.NumNodes])
	for i, s := range g.Src {
		col[next[s]] = g.Dst[i]
		next[s]++
	}
	for u := 0; u < g.NumNodes; u++ {
		sort.Ints(col[rowPtr[u]:rowPtr[u+1]])
	}
	return &CSR{RowPtr: rowPtr, Col: col}
}

func (c *CSR) Neighbors(u NodeId) []NodeId {
	return c.Col[c.RowPtr[u]:c.RowPtr[u+1]]
}

func (c *CSR) HasEdge(u, v NodeId) bool {
	ns := c.Neighbors(u)
	i := sort.SearchInts(ns, v)
	return i < len(ns) && ns[i] == v
}
