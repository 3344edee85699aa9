package main

import (
	"github.com/lynxkite/lynxkite/posenc/spectral"
)

func init() {
	operationRepository["LaplacianEigenvectorPE"] = Operation{
		execute: func(ea *EntityAccessor) error {
			g, err := ea.loadGraph()
			if err != nil {
				return err
			}
			k, err := ea.GetIntParamWithDefault("k", ea.server.defaults.LeSize)
			if err != nil {
				return err
			}
			undirected, err := ea.GetBoolParamWithDefault("undirected", g.IsSymmetric())
			if err != nil {
				return err
			}
			rnd, err := ea.rand()
			if err != nil {
				return err
			}
			enc := &spectral.Encoder{K: k, Undirected: undirected, Options: ea.server.defaults.Spectral, Rand: rnd}
			m, err := enc.Encode(g)
			if err != nil {
				return err
			}
			return ea.output(m)
		},
	}
}
