package main

import (
	"github.com/lynxkite/lynxkite/posenc/diffusion"
)

func init() {
	operationRepository["RandomWalkPE"] = Operation{
		execute: func(ea *EntityAccessor) error {
			g, err := ea.loadGraph()
			if err != nil {
				return err
			}
			walkLength, err := ea.GetIntParamWithDefault("walkLength", ea.server.defaults.RwSize)
			if err != nil {
				return err
			}
			enc := &diffusion.Encoder{WalkLength: walkLength, DenseThreshold: ea.server.defaults.DiffusionDenseThreshold}
			m, err := enc.Encode(g)
			if err != nil {
				return err
			}
			return ea.output(m)
		},
	}
}
