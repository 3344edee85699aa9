// Graph positional encodings: spectral, random walk and node2vec blocks,
// normalized, concatenated and cached next to the adjacency table.
package pe

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lynxkite/lynxkite/posenc/diffusion"
	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
	"github.com/lynxkite/lynxkite/posenc/node2vec"
	"github.com/lynxkite/lynxkite/posenc/spectral"
	"github.com/lynxkite/lynxkite/posenc/table"
)

// PosEnc returns the encoding of the graph stored at adjacencyPath.
// With opts.UseCached an existing cache entry is returned as it is.
// Otherwise the encoding is computed and written to the cache.
func PosEnc(ctx context.Context, adjacencyPath string, opts Options) (feature.Matrix, error) {
	if err := opts.validate(); err != nil {
		return feature.Matrix{}, err
	}
	cache := &Cache{UseCached: opts.UseCached}
	return cache.LoadOrCompute(ctx, adjacencyPath, opts.Dim(), ComputerFunc(
		func(ctx context.Context, adjacencyPath string) (feature.Matrix, error) {
			g, err := table.LoadAdjacency(adjacencyPath)
			if err != nil {
				return feature.Matrix{}, err
			}
			return Compute(ctx, g, opts)
		}))
}

// Encoders run the three encoders with independent random sources.
type Encoders struct {
	Spectral  *spectral.Encoder
	Diffusion *diffusion.Encoder
	Node2Vec  *node2vec.Trainer
}

func NewEncoders(g *graph.Graph, opts Options) *Encoders {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	master := rand.New(rand.NewSource(seed))
	n2v := opts.Node2Vec
	n2v.Dim = opts.N2vSize
	return &Encoders{
		Spectral: &spectral.Encoder{
			K:          opts.LeSize,
			Undirected: g.IsSymmetric(),
			Options:    opts.Spectral,
			Rand:       rand.New(rand.NewSource(master.Int63())),
		},
		Diffusion: &diffusion.Encoder{
			WalkLength:     opts.RwSize,
			DenseThreshold: opts.DiffusionDenseThreshold,
		},
		Node2Vec: &node2vec.Trainer{
			Config: n2v,
			Rand:   rand.New(rand.NewSource(master.Int63())),
		},
	}
}

func timed(name string, dim int, compute func() error) error {
	log.Printf("Calculating %v (dim=%d)...", name, dim)
	start := time.Now()
	if err := compute(); err != nil {
		return errors.Annotatef(err, "%v", name)
	}
	log.Printf("%v done. (time: %.1f s)", name, time.Since(start).Seconds())
	return nil
}

// Compute runs the encoders concurrently and assembles their blocks in the
// order spectral, random walk, node2vec. Any failure aborts the run.
func Compute(ctx context.Context, g *graph.Graph, opts Options) (feature.Matrix, error) {
	if err := opts.validate(); err != nil {
		return feature.Matrix{}, err
	}
	if opts.Device != "" && opts.Device != "cpu" {
		log.Printf("Device %q is not available. Computing on cpu.", opts.Device)
	}
	enc := NewEncoders(g, opts)
	le := feature.Empty(g.NumNodes)
	rw := feature.Empty(g.NumNodes)
	n2v := feature.Empty(g.NumNodes)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return timed("laplacian PE", opts.LeSize, func() (err error) {
			le, err = enc.Spectral.Encode(g)
			return err
		})
	})
	if opts.IncludeDiffusion {
		eg.Go(func() error {
			return timed("random walk PE", opts.RwSize, func() (err error) {
				rw, err = enc.Diffusion.Encode(g)
				return err
			})
		})
	}
	if opts.N2vSize > 0 {
		eg.Go(func() error {
			return timed("node2vec PE", opts.N2vSize, func() (err error) {
				n2v, err = enc.Node2Vec.Train(ctx, g)
				return err
			})
		})
	}
	if err := eg.Wait(); err != nil {
		return feature.Matrix{}, err
	}
	return Assemble(opts.Degenerate, le, rw, n2v)
}
