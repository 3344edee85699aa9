// Implements the Node2Vec operation.

package main

import (
	"github.com/lynxkite/lynxkite/posenc/node2vec"
)

func init() {
	operationRepository["Node2Vec"] = Operation{
		execute: func(ea *EntityAccessor) error {
			g, err := ea.loadGraph()
			if err != nil {
				return err
			}
			cfg := ea.server.defaults.Node2Vec
			ints := []struct {
				name string
				dst  *int
				dflt int
			}{
				{"dim", &cfg.Dim, ea.server.defaults.N2vSize},
				{"walkLength", &cfg.WalkLength, cfg.WalkLength},
				{"contextSize", &cfg.ContextSize, cfg.ContextSize},
				{"walksPerNode", &cfg.WalksPerNode, cfg.WalksPerNode},
				{"epochs", &cfg.Epochs, cfg.Epochs},
			}
			for _, p := range ints {
				if *p.dst, err = ea.GetIntParamWithDefault(p.name, p.dflt); err != nil {
					return err
				}
			}
			rnd, err := ea.rand()
			if err != nil {
				return err
			}
			m, err := (&node2vec.Trainer{Config: cfg, Rand: rnd}).Train(ea.ctx, g)
			if err != nil {
				return err
			}
			return ea.output(m)
		},
	}
}
