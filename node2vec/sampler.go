package node2vec

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lynxkite/lynxkite/posenc/graph"
)

// Batch holds the context windows of one mini-batch, each window stored as
// Context consecutive node ids. The first node of a window is its anchor.
type Batch struct {
	Context int
	Pos     []int
	Neg     []int
}

func (b *Batch) NumPos() int { return len(b.Pos) / b.Context }
func (b *Batch) NumNeg() int { return len(b.Neg) / b.Context }

func (b *Batch) PosWindow(i int) []int { return b.Pos[i*b.Context : (i+1)*b.Context] }
func (b *Batch) NegWindow(i int) []int { return b.Neg[i*b.Context : (i+1)*b.Context] }

type Sampler struct {
	walker   *Walker
	numNodes int
	cfg      Config
}

func NewSampler(g *graph.Graph, cfg Config) *Sampler {
	return &Sampler{
		walker:   NewWalker(g, cfg.WalkLength, cfg.P, cfg.Q),
		numNodes: g.NumNodes,
		cfg:      cfg,
	}
}

func (s *Sampler) windowsPerWalk() int {
	return s.cfg.WalkLength + 1 - s.cfg.ContextSize + 1
}

// Sample builds the positive windows from WalksPerNode walks per start node
// and the negative windows from walks made of uniformly random nodes.
func (s *Sampler) Sample(starts []int, rnd *rand.Rand) *Batch {
	ctx := s.cfg.ContextSize
	wpw := s.windowsPerWalk()
	b := &Batch{
		Context: ctx,
		Pos:     make([]int, 0, len(starts)*s.cfg.WalksPerNode*wpw*ctx),
		Neg:     make([]int, 0, len(starts)*s.cfg.WalksPerNode*s.cfg.NumNegativeSamples*wpw*ctx),
	}
	walk := make([]int, s.cfg.WalkLength+1)
	for r := 0; r < s.cfg.WalksPerNode; r++ {
		for _, start := range starts {
			walk = s.walker.Walk(start, rnd, walk)
			for j := 0; j < wpw; j++ {
				b.Pos = append(b.Pos, walk[j:j+ctx]...)
			}
		}
	}
	for r := 0; r < s.cfg.WalksPerNode*s.cfg.NumNegativeSamples; r++ {
		for _, start := range starts {
			walk[0] = start
			for l := 1; l < len(walk); l++ {
				walk[l] = rnd.Intn(s.numNodes)
			}
			for j := 0; j < wpw; j++ {
				b.Neg = append(b.Neg, walk[j:j+ctx]...)
			}
		}
	}
	return b
}

// Load samples the batches on cfg.Workers goroutines and hands them to consume
// one at a time in their original order. Batch i is sampled from seeds[i],
// so the result does not depend on scheduling. At most 2*Workers batches
// are sampled ahead of the consumer.
func (s *Sampler) Load(ctx context.Context, batches [][]int, seeds []int64, consume func(*Batch) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	results := make([]chan *Batch, len(batches))
	for i := range results {
		results[i] = make(chan *Batch, 1)
	}
	jobs := make(chan int)
	ahead := semaphore.NewWeighted(int64(2 * s.cfg.Workers))

	g.Go(func() error {
		defer close(jobs)
		for i := range batches {
			if err := ahead.Acquire(ctx, 1); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < s.cfg.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				results[i] <- s.Sample(batches[i], rand.New(rand.NewSource(seeds[i])))
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := range batches {
			select {
			case b := <-results[i]:
				err := consume(b)
				ahead.Release(1)
				if err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	return g.Wait()
}
