package node2vec

import (
	"math"
	"math/rand"

	"github.com/lynxkite/lynxkite/posenc/graph"
)

// Walker generates second-order biased random walks.
// The return parameter P and the in-out parameter Q are applied by
// rejection sampling. With P = Q = 1 the walk is uniform.
// A walk that reaches a node without outgoing edges stays there.
type Walker struct {
	adj        *graph.CSR
	walkLength int
	uniform    bool
	// Acceptance probabilities for going back, staying at distance 1 and moving away.
	probBack, probStay, probAway float64
}

func NewWalker(g *graph.Graph, walkLength int, p, q float64) *Walker {
	maxProb := math.Max(math.Max(1/p, 1), 1/q)
	return &Walker{
		adj:        g.CSR(),
		walkLength: walkLength,
		uniform:    p == 1 && q == 1,
		probBack:   1 / p / maxProb,
		probStay:   1 / maxProb,
		probAway:   1 / q / maxProb,
	}
}

// Walk writes walkLength+1 nodes into dst starting with start.
func (w *Walker) Walk(start int, rnd *rand.Rand, dst []int) []int {
	if cap(dst) < w.walkLength+1 {
		dst = make([]int, w.walkLength+1)
	}
	dst = dst[:w.walkLength+1]
	dst[0] = start
	prev := -1
	for l := 1; l <= w.walkLength; l++ {
		cur := dst[l-1]
		ns := w.adj.Neighbors(cur)
		if len(ns) == 0 {
			dst[l] = cur
			continue
		}
		var next int
		if w.uniform || prev < 0 {
			next = ns[rnd.Intn(len(ns))]
		} else {
			for {
				next = ns[rnd.Intn(len(ns))]
				r := rnd.Float64()
				if next == prev {
					if r < w.probBack {
						break
					}
				} else if w.adj.HasEdge(prev, next) {
					if r < w.probStay {
						break
					}
				} else if r < w.probAway {
					break
				}
			}
		}
		prev = cur
		dst[l] = next
	}
	return dst
}
