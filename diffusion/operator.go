package diffusion

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/lynxkite/lynxkite/posenc/graph"
)

// DefaultDenseThreshold is the largest graph that gets a dense operator.
const DefaultDenseThreshold = 2000

// Operator is a power M^t of the random walk transition matrix M.
// Implementations differ only in storage and must give the same numbers.
type Operator interface {
	Size() int
	// Diagonal copies diag(M^t) into dst, allocating it if nil.
	Diagonal(dst []float64) []float64
	// Next returns M^(t+1) = M^t M.
	Next() Operator
}

// TransitionWeights normalizes every edge weight by the total outgoing
// weight of its source. Totals below 1 are raised to 1, so nodes without
// outgoing weight do not divide by zero.
func TransitionWeights(g *graph.Graph) []float64 {
	out := g.OutWeights()
	w := make([]float64, g.NumEdges())
	for i, s := range g.Src {
		d := out[s]
		if d < 1 {
			d = 1
		}
		w[i] = g.EdgeWeight(i) / d
	}
	return w
}

// Duplicate entries of parallel edges are summed by the CSR conversion.
func transitionCSR(g *graph.Graph) *sparse.CSR {
	return sparse.NewCOO(g.NumNodes, g.NumNodes, g.Src, g.Dst, TransitionWeights(g)).ToCSR()
}

// NewOperator picks the representation by graph size.
func NewOperator(g *graph.Graph, denseThreshold int) Operator {
	if denseThreshold <= 0 {
		denseThreshold = DefaultDenseThreshold
	}
	if g.NumNodes <= denseThreshold {
		return NewDenseOperator(g)
	}
	return NewSparseOperator(g)
}

type DenseOperator struct {
	base    *mat.Dense
	current *mat.Dense
}

func NewDenseOperator(g *graph.Graph) *DenseOperator {
	m := transitionCSR(g).ToDense()
	return &DenseOperator{base: m, current: m}
}

func (o *DenseOperator) Size() int {
	n, _ := o.base.Dims()
	return n
}

func (o *DenseOperator) Diagonal(dst []float64) []float64 {
	n := o.Size()
	if dst == nil {
		dst = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		dst[i] = o.current.At(i, i)
	}
	return dst
}

func (o *DenseOperator) Next() Operator {
	var next mat.Dense
	next.Mul(o.current, o.base)
	return &DenseOperator{base: o.base, current: &next}
}

type SparseOperator struct {
	base    *sparse.CSR
	current *sparse.CSR
}

func NewSparseOperator(g *graph.Graph) *SparseOperator {
	m := transitionCSR(g)
	return &SparseOperator{base: m, current: m}
}

func (o *SparseOperator) Size() int {
	n, _ := o.base.Dims()
	return n
}

func (o *SparseOperator) Diagonal(dst []float64) []float64 {
	n := o.Size()
	if dst == nil {
		dst = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		dst[i] = o.current.At(i, i)
	}
	return dst
}

func (o *SparseOperator) Next() Operator {
	var next sparse.CSR
	next.Mul(o.current, o.base)
	return &SparseOperator{base: o.base, current: &next}
}
