// Random walk return probability encodings.
package diffusion

import (
	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
)

// Encoder computes, for t = 1..WalkLength, the probability that a random
// walk from a node is back at that node after exactly t steps.
// The output is deterministic.
type Encoder struct {
	WalkLength int
	// Graphs up to this many nodes use dense matrices. Zero means the default.
	DenseThreshold int
}

func (e *Encoder) Encode(g *graph.Graph) (feature.Matrix, error) {
	if e.WalkLength < 0 {
		return feature.Matrix{}, errors.NotValidf("walk length %d", e.WalkLength)
	}
	if e.WalkLength == 0 {
		return feature.Empty(g.NumNodes), nil
	}
	return EncodeWith(NewOperator(g, e.DenseThreshold), e.WalkLength), nil
}

// EncodeWith runs the walk on a given operator. Column t-1 is diag(M^t).
func EncodeWith(op Operator, walkLength int) feature.Matrix {
	n := op.Size()
	pe := feature.New(n, walkLength)
	diag := make([]float64, n)
	for t := 0; t < walkLength; t++ {
		if t > 0 {
			op = op.Next()
		}
		op.Diagonal(diag)
		for i, v := range diag {
			pe.Set(i, t, v)
		}
	}
	return pe
}
