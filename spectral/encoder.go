// Laplacian eigenvector positional encodings.
package spectral

import (
	"math/rand"
	"time"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
)

// Encoder computes the K smallest non-trivial Laplacian eigenvectors.
//
// Eigenvectors are only defined up to sign, so every output column is
// multiplied by an independent random ±1 drawn from Rand. Fix the seed of
// Rand for reproducible output. A nil Rand is seeded from the clock.
type Encoder struct {
	K int
	// Undirected selects the symmetric solvers, which only read the upper
	// triangle of the Laplacian.
	Undirected bool
	Options    SolverOptions
	Rand       *rand.Rand
}

func (e *Encoder) Encode(g *graph.Graph) (feature.Matrix, error) {
	n := g.NumNodes
	if e.K == 0 {
		return feature.Empty(n), nil
	}
	if e.K < 0 || e.K >= n-1 {
		return feature.Matrix{}, errors.NotValidf("%d eigenvectors for a graph of %d nodes", e.K, n)
	}
	rnd := e.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	opts := e.Options.withDefaults()
	l := Laplacian(g)
	nev := e.K + 1
	var pairs *eigenPairs
	var err error
	switch opts.Solver {
	case SolverDense:
		if e.Undirected {
			pairs, err = smallestSymmetric(l, nev)
		} else {
			pairs, err = smallestGeneral(l, nev)
		}
	case SolverLanczos:
		if !e.Undirected {
			return feature.Matrix{}, errors.NotSupportedf("Lanczos solver on a directed graph")
		}
		pairs, err = smallestLanczos(l, nev, opts, rnd)
	case SolverAuto:
		switch {
		case !e.Undirected && n > opts.DenseThreshold:
			return feature.Matrix{}, errors.NotSupportedf(
				"eigenvectors of a directed graph with %d nodes (dense limit %d)", n, opts.DenseThreshold)
		case !e.Undirected:
			pairs, err = smallestGeneral(l, nev)
		case n <= opts.DenseThreshold:
			pairs, err = smallestSymmetric(l, nev)
		default:
			pairs, err = smallestLanczos(l, nev, opts, rnd)
		}
	default:
		return feature.Matrix{}, errors.NotValidf("eigensolver %q", opts.Solver)
	}
	if err != nil {
		return feature.Matrix{}, errors.Trace(err)
	}
	// Column 0 belongs to the trivial eigenvalue.
	pe := feature.New(n, e.K)
	for j := 0; j < e.K; j++ {
		sign := float64(2*rnd.Intn(2) - 1)
		for i := 0; i < n; i++ {
			pe.Set(i, j, sign*pairs.vectors.At(i, j+1))
		}
	}
	return pe, nil
}
