package node2vec

import "math"

// SparseAdam is Adam restricted to the embedding rows that received a
// gradient. Untouched rows keep their moments. The step counter is global,
// as in the usual sparse variant, so bias correction uses the number of
// optimizer steps and not the number of updates of a row.
type SparseAdam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	dim  int
	step int
	m, v []float32
}

func NewSparseAdam(numRows, dim int, lr float64) *SparseAdam {
	return &SparseAdam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
		dim:   dim,
		m:     make([]float32, numRows*dim),
		v:     make([]float32, numRows*dim),
	}
}

func (a *SparseAdam) Steps() int { return a.step }

// Step updates params in place. grads maps row indices to gradient rows.
func (a *SparseAdam) Step(params []float32, grads map[int][]float32) {
	a.step++
	bc1 := 1 - math.Pow(a.Beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.Beta2, float64(a.step))
	stepSize := a.LR * math.Sqrt(bc2) / bc1
	for row, g := range grads {
		off := row * a.dim
		m := a.m[off : off+a.dim]
		v := a.v[off : off+a.dim]
		p := params[off : off+a.dim]
		for k, gk := range g {
			gk := float64(gk)
			mk := float64(m[k]) + (gk-float64(m[k]))*(1-a.Beta1)
			vk := float64(v[k]) + (gk*gk-float64(v[k]))*(1-a.Beta2)
			m[k] = float32(mk)
			v[k] = float32(vk)
			p[k] -= float32(stepSize * mk / (math.Sqrt(vk) + a.Eps))
		}
	}
}
