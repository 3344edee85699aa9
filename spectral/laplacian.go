package spectral

import (
	"math"

	"github.com/james-bowman/sparse"

	"github.com/lynxkite/lynxkite/posenc/graph"
)

// Laplacian returns the symmetric-normalized Laplacian I - D^-1/2 A D^-1/2.
// Self-loops are dropped before the degrees are computed, parallel edges are
// summed, and the degree of a node is the total weight of its outgoing edges.
// Nodes without edges end up with a 1 on the diagonal and nothing else.
func Laplacian(g *graph.Graph) *sparse.CSR {
	n := g.NumNodes
	deg := make([]float64, n)
	for i := range g.Src {
		if g.Src[i] != g.Dst[i] {
			deg[g.Src[i]] += g.EdgeWeight(i)
		}
	}
	invSqrt := make([]float64, n)
	for i, d := range deg {
		if d > 0 {
			invSqrt[i] = 1 / math.Sqrt(d)
		}
	}
	ri := make([]int, 0, len(g.Src)+n)
	ci := make([]int, 0, len(g.Src)+n)
	v := make([]float64, 0, len(g.Src)+n)
	for i := range g.Src {
		s, d := g.Src[i], g.Dst[i]
		if s == d {
			continue
		}
		ri = append(ri, s)
		ci = append(ci, d)
		v = append(v, -invSqrt[s]*g.EdgeWeight(i)*invSqrt[d])
	}
	for i := 0; i < n; i++ {
		ri = append(ri, i)
		ci = append(ci, i)
		v = append(v, 1)
	}
	// Converting to CSR sums the duplicate entries of parallel edges.
	return sparse.NewCOO(n, n, ri, ci, v).ToCSR()
}
