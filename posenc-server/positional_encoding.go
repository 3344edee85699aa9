// Implements the PositionalEncoding operation: all blocks, assembled and cached on disk.

package main

import (
	"github.com/lynxkite/lynxkite/posenc/pe"
)

func (ea *EntityAccessor) options() (pe.Options, error) {
	o := ea.server.defaults
	var err error
	ints := []struct {
		name string
		dst  *int
	}{{"leSize", &o.LeSize}, {"rwSize", &o.RwSize}, {"n2vSize", &o.N2vSize}}
	for _, p := range ints {
		if *p.dst, err = ea.GetIntParamWithDefault(p.name, *p.dst); err != nil {
			return o, err
		}
	}
	if o.UseCached, err = ea.GetBoolParamWithDefault("useCached", o.UseCached); err != nil {
		return o, err
	}
	if o.IncludeDiffusion, err = ea.GetBoolParamWithDefault("includeDiffusion", o.IncludeDiffusion); err != nil {
		return o, err
	}
	if o.Device, err = ea.GetStringParamWithDefault("device", o.Device); err != nil {
		return o, err
	}
	degenerate, err := ea.GetStringParamWithDefault("degenerate", string(o.Degenerate))
	if err != nil {
		return o, err
	}
	o.Degenerate = pe.DegeneratePolicy(degenerate)
	seed, err := ea.GetIntParamWithDefault("seed", int(o.Seed))
	o.Seed = int64(seed)
	return o, err
}

func init() {
	operationRepository["PositionalEncoding"] = Operation{
		execute: func(ea *EntityAccessor) error {
			path, err := ea.GetStringParam("adjacencyPath")
			if err != nil {
				return err
			}
			opts, err := ea.options()
			if err != nil {
				return err
			}
			m, err := pe.PosEnc(ea.ctx, path, opts)
			if err != nil {
				return err
			}
			return ea.output(m)
		},
	}
}
