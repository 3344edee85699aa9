package node2vec

import (
	"math"
	"math/rand"

	"github.com/juju/errors"
	"github.com/viterin/vek/vek32"

	"github.com/lynxkite/lynxkite/posenc/feature"
)

// ErrDiverged means the training loss stopped being finite.
var ErrDiverged = errors.New("node2vec training diverged")

const logEps = 1e-15

// State is everything that changes during training.
// Anchor and context nodes share one embedding table.
type State struct {
	NumNodes  int
	Dim       int
	Embedding []float32
	Optimizer *SparseAdam
	Epoch     int

	scratch []float32
}

// NewState initializes the embedding from a standard normal distribution.
func NewState(numNodes, dim int, lr float64, rnd *rand.Rand) *State {
	emb := make([]float32, numNodes*dim)
	for i := range emb {
		emb[i] = float32(rnd.NormFloat64())
	}
	return &State{
		NumNodes:  numNodes,
		Dim:       dim,
		Embedding: emb,
		Optimizer: NewSparseAdam(numNodes, dim, lr),
		scratch:   make([]float32, dim),
	}
}

func (s *State) Row(i int) []float32 {
	return s.Embedding[i*s.Dim : (i+1)*s.Dim]
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// accumulate adds scale * x to the gradient of row.
func (s *State) accumulate(grads map[int][]float32, row int, x []float32, scale float32) {
	g, ok := grads[row]
	if !ok {
		g = make([]float32, s.Dim)
		grads[row] = g
	}
	copy(s.scratch, x)
	vek32.MulNumber_Inplace(s.scratch, scale)
	vek32.Add_Inplace(g, s.scratch)
}

// Loss evaluates the skip-gram objective on a batch without training.
func (s *State) Loss(b *Batch) float64 {
	loss, _ := s.lossAndGrads(b, false)
	return loss
}

func (s *State) lossAndGrads(b *Batch, withGrads bool) (float64, map[int][]float32) {
	var grads map[int][]float32
	if withGrads {
		grads = map[int][]float32{}
	}
	ctx := b.Context
	nPos := float64(b.NumPos() * (ctx - 1))
	nNeg := float64(b.NumNeg() * (ctx - 1))
	var posLoss, negLoss float64
	for i := 0; i < b.NumPos(); i++ {
		w := b.PosWindow(i)
		h := s.Row(w[0])
		for _, c := range w[1:] {
			hc := s.Row(c)
			sig := sigmoid(float64(vek32.Dot(h, hc)))
			posLoss -= math.Log(sig + logEps)
			if withGrads {
				g := float32(-sig * (1 - sig) / (sig + logEps) / nPos)
				s.accumulate(grads, w[0], hc, g)
				s.accumulate(grads, c, h, g)
			}
		}
	}
	for i := 0; i < b.NumNeg(); i++ {
		w := b.NegWindow(i)
		h := s.Row(w[0])
		for _, c := range w[1:] {
			hc := s.Row(c)
			sig := sigmoid(float64(vek32.Dot(h, hc)))
			negLoss -= math.Log(1 - sig + logEps)
			if withGrads {
				g := float32(sig * (1 - sig) / (1 - sig + logEps) / nNeg)
				s.accumulate(grads, w[0], hc, g)
				s.accumulate(grads, c, h, g)
			}
		}
	}
	return posLoss/nPos + negLoss/nNeg, grads
}

// Step takes one optimizer step on the batch and returns its loss.
// The embedding is left untouched if the loss is not finite.
func (s *State) Step(b *Batch) (float64, error) {
	loss, grads := s.lossAndGrads(b, true)
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return loss, errors.Annotatef(ErrDiverged, "epoch %d, loss %v", s.Epoch, loss)
	}
	s.Optimizer.Step(s.Embedding, grads)
	return loss, nil
}

func (s *State) Matrix() feature.Matrix {
	m := feature.New(s.NumNodes, s.Dim)
	for i, v := range s.Embedding {
		m.Data[i] = float64(v)
	}
	return m
}
