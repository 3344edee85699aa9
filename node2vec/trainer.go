package node2vec

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
)

type Trainer struct {
	Config Config
	// Source of the initialization, batch order and walks.
	// Seeded from the clock if nil.
	Rand *rand.Rand
}

// Train learns an embedding of every node and returns it as an
// NumNodes x Dim matrix. Cancellation is checked between batches.
func (t *Trainer) Train(ctx context.Context, g *graph.Graph) (feature.Matrix, error) {
	cfg := t.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return feature.Matrix{}, errors.Trace(err)
	}
	rnd := t.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	state := NewState(g.NumNodes, cfg.Dim, cfg.LearningRate, rnd)
	sampler := NewSampler(g, cfg)
	for state.Epoch < cfg.Epochs {
		loss, err := runEpoch(ctx, state, sampler, cfg.BatchSize, rnd)
		if err != nil {
			return feature.Matrix{}, errors.Trace(err)
		}
		if state.Epoch%cfg.LogEvery == 0 {
			log.Printf("node2vec epoch: %02d, loss: %.4f", state.Epoch, loss)
		}
		state.Epoch++
	}
	return state.Matrix(), nil
}

// runEpoch visits every node once as a start node, in random order.
// Returns the mean batch loss.
func runEpoch(ctx context.Context, state *State, sampler *Sampler, batchSize int, rnd *rand.Rand) (float64, error) {
	perm := rnd.Perm(state.NumNodes)
	var batches [][]int
	for i := 0; i < len(perm); i += batchSize {
		end := i + batchSize
		if end > len(perm) {
			end = len(perm)
		}
		batches = append(batches, perm[i:end])
	}
	seeds := make([]int64, len(batches))
	for i := range seeds {
		seeds[i] = rnd.Int63()
	}
	var total float64
	err := sampler.Load(ctx, batches, seeds, func(b *Batch) error {
		loss, err := state.Step(b)
		total += loss
		return err
	})
	if err != nil {
		return 0, err
	}
	return total / float64(len(batches)), nil
}
