package spectral

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrNotConverged = errors.New("eigensolver did not converge")

const (
	SolverAuto    = "auto"
	SolverDense   = "dense"
	SolverLanczos = "lanczos"

	DefaultDenseThreshold = 2000
	DefaultTol            = 1e-8
	DefaultMaxIter        = 3000
	// Lanczos hands over to the dense solver when its basis reaches a quarter
	// of the nodes, but only for graphs up to this size.
	DenseFallbackLimit = 10000
	// First Ritz check. Later checks come after 50% more iterations.
	lanczosFirstCheck = 10
	breakdownTol      = 1e-12
)

// SolverOptions are handed to the eigensolver as they are.
type SolverOptions struct {
	// One of SolverAuto, SolverDense or SolverLanczos. Empty means auto.
	Solver string `yaml:"solver"`
	// Relative residual tolerance for Lanczos.
	Tol float64 `yaml:"tol"`
	// Lanczos iteration limit. Zero means DefaultMaxIter. A dense fallback
	// that comes first takes precedence.
	MaxIter int `yaml:"max_iter"`
	// In auto mode, undirected graphs with more nodes than this use Lanczos
	// and directed graphs with more nodes than this are rejected.
	DenseThreshold int `yaml:"dense_threshold"`
}

func (o SolverOptions) withDefaults() SolverOptions {
	if o.Solver == "" {
		o.Solver = SolverAuto
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.DenseThreshold <= 0 {
		o.DenseThreshold = DefaultDenseThreshold
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

// eigenPairs holds eigenvalues in ascending order and the matching
// eigenvectors as the columns of vectors.
type eigenPairs struct {
	values  []float64
	vectors *mat.Dense
}

// smallestSymmetric solves for the nev algebraically smallest eigenpairs.
// Only the upper triangle of l is read.
func smallestSymmetric(l *sparse.CSR, nev int) (*eigenPairs, error) {
	n, _ := l.Dims()
	sym := mat.NewSymDense(n, nil)
	l.DoNonZero(func(i, j int, v float64) {
		if j >= i {
			sym.SetSym(i, j, v)
		}
	})
	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, errors.Annotatef(ErrNotConverged, "symmetric eigendecomposition of %d x %d Laplacian", n, n)
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)
	return &eigenPairs{
		values:  values[:nev],
		vectors: mat.DenseCopyOf(vectors.Slice(0, n, 0, nev)),
	}, nil
}

// smallestGeneral solves for the nev eigenpairs with the smallest real part
// and keeps the real part of the eigenvectors.
func smallestGeneral(l *sparse.CSR, nev int) (*eigenPairs, error) {
	n, _ := l.Dims()
	var eig mat.Eigen
	if ok := eig.Factorize(l.ToDense(), mat.EigenRight); !ok {
		return nil, errors.Annotatef(ErrNotConverged, "eigendecomposition of %d x %d Laplacian", n, n)
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return real(values[order[a]]) < real(values[order[b]])
	})
	pairs := &eigenPairs{
		values:  make([]float64, nev),
		vectors: mat.NewDense(n, nev, nil),
	}
	for j := 0; j < nev; j++ {
		idx := order[j]
		pairs.values[j] = real(values[idx])
		for i := 0; i < n; i++ {
			pairs.vectors.Set(i, j, real(vectors.At(i, idx)))
		}
	}
	return pairs, nil
}

// smallestLanczos runs Lanczos with full reorthogonalization on the sparse
// Laplacian until the nev smallest Ritz pairs have small residuals.
// If the Krylov space becomes invariant early (e.g. for disconnected graphs)
// it continues from a new random vector orthogonal to the basis.
// Clustered spectra (long paths, grids) converge slowly. Once the basis is
// as expensive as a dense solve the dense solver takes over.
func smallestLanczos(l *sparse.CSR, nev int, opts SolverOptions, rnd *rand.Rand) (*eigenPairs, error) {
	n, _ := l.Dims()
	maxIter := min(opts.MaxIter, n)
	fallbackAt := 0
	if n <= DenseFallbackLimit {
		fallbackAt = min(max(n/4, nev+lanczosFirstCheck), n)
	}
	checkAt := max(lanczosFirstCheck, nev)
	var basis [][]float64
	var alpha, beta []float64
	q := randomOrthogonalUnit(n, basis, rnd)
	w := make([]float64, n)
	for j := 0; j < maxIter && q != nil; j++ {
		basis = append(basis, q)
		for i := range w {
			w[i] = 0
		}
		// MulVecTo accumulates into w.
		l.MulVecTo(w, false, q)
		alpha = append(alpha, floats.Dot(q, w))
		// Twice is enough to keep the basis orthogonal to working precision.
		for pass := 0; pass < 2; pass++ {
			for _, b := range basis {
				floats.AddScaled(w, -floats.Dot(b, w), b)
			}
		}
		b := floats.Norm(w, 2)
		m := j + 1
		broke := b <= breakdownTol
		// At a breakdown the Ritz residuals are zero but repeated eigenvalues
		// may still be missing, so those are only trusted once the basis is full.
		if m == n || (m >= nev && !broke && (m >= checkAt || m == maxIter)) {
			checkAt = m + max(lanczosFirstCheck, m/2)
			theta, s, err := tridiagonalEigen(alpha, beta)
			if err != nil {
				return nil, err
			}
			if ritzConverged(theta, s, b, nev, opts.Tol) {
				return ritzPairs(basis, theta, s, nev), nil
			}
		}
		if m == fallbackAt {
			log.Printf("Lanczos: no convergence after %d of %d iterations. Using the dense solver.", m, n)
			return smallestSymmetric(l, nev)
		}
		if broke {
			q = randomOrthogonalUnit(n, basis, rnd)
			beta = append(beta, 0)
		} else {
			q = make([]float64, n)
			floats.ScaleTo(q, 1/b, w)
			beta = append(beta, b)
		}
	}
	return nil, errors.Annotatef(ErrNotConverged,
		"Lanczos: %d eigenpairs not within tolerance %g after %d iterations", nev, opts.Tol, len(basis))
}

func tridiagonalEigen(alpha, beta []float64) ([]float64, *mat.Dense, error) {
	m := len(alpha)
	t := mat.NewSymDense(m, nil)
	for i, a := range alpha {
		t.SetSym(i, i, a)
		if i+1 < m {
			t.SetSym(i, i+1, beta[i])
		}
	}
	var es mat.EigenSym
	if ok := es.Factorize(t, true); !ok {
		return nil, nil, errors.Annotatef(ErrNotConverged, "tridiagonal eigendecomposition of size %d", m)
	}
	var s mat.Dense
	es.VectorsTo(&s)
	return es.Values(nil), &s, nil
}

func ritzConverged(theta []float64, s *mat.Dense, b float64, nev int, tol float64) bool {
	m, _ := s.Dims()
	for i := 0; i < nev; i++ {
		if math.Abs(b*s.At(m-1, i)) > tol*math.Max(1, math.Abs(theta[i])) {
			return false
		}
	}
	return true
}

func ritzPairs(basis [][]float64, theta []float64, s *mat.Dense, nev int) *eigenPairs {
	n := len(basis[0])
	vectors := mat.NewDense(n, nev, nil)
	col := make([]float64, n)
	for i := 0; i < nev; i++ {
		for r := range col {
			col[r] = 0
		}
		for k, q := range basis {
			floats.AddScaled(col, s.At(k, i), q)
		}
		floats.Scale(1/floats.Norm(col, 2), col)
		vectors.SetCol(i, col)
	}
	values := make([]float64, nev)
	copy(values, theta[:nev])
	return &eigenPairs{values: values, vectors: vectors}
}

// randomOrthogonalUnit returns nil when the basis already spans everything.
func randomOrthogonalUnit(n int, basis [][]float64, rnd *rand.Rand) []float64 {
	if len(basis) >= n {
		return nil
	}
	q := make([]float64, n)
	for i := range q {
		q[i] = rnd.NormFloat64()
	}
	for pass := 0; pass < 2; pass++ {
		for _, b := range basis {
			floats.AddScaled(q, -floats.Dot(b, q), b)
		}
	}
	norm := floats.Norm(q, 2)
	if norm < 1e-10 {
		return nil
	}
	floats.Scale(1/norm, q)
	return q
}
