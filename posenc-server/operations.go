// Access to operation parameters and outputs.

package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/graph"
	"github.com/lynxkite/lynxkite/posenc/pe"
	"github.com/lynxkite/lynxkite/posenc/table"
)

type EntityAccessor struct {
	ctx    context.Context
	opInst *OperationInstance
	server *Server
	result feature.Matrix
}

type Operation struct {
	execute func(ea *EntityAccessor) error
}

var operationRepository = map[string]Operation{}

func (ea *EntityAccessor) param(name string) (interface{}, bool) {
	v, exists := ea.opInst.Operation.Data[name]
	return v, exists && v != nil
}

// Struct values follow JSON: numbers arrive as float64.
func asString(name string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.NotValidf("parameter %q = %v", name, v)
	}
	return s, nil
}

func asInt(name string, v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, errors.NotValidf("parameter %q = %v", name, v)
	}
	return int(f), nil
}

func asBool(name string, v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.NotValidf("parameter %q = %v", name, v)
	}
	return b, nil
}

func (ea *EntityAccessor) GetStringParam(name string) (string, error) {
	v, exists := ea.param(name)
	if !exists {
		return "", errors.NotValidf("missing parameter %q", name)
	}
	return asString(name, v)
}

func (ea *EntityAccessor) GetStringParamWithDefault(name string, dflt string) (string, error) {
	if _, exists := ea.param(name); !exists {
		return dflt, nil
	}
	return ea.GetStringParam(name)
}

func (ea *EntityAccessor) GetIntParamWithDefault(name string, dflt int) (int, error) {
	v, exists := ea.param(name)
	if !exists {
		return dflt, nil
	}
	return asInt(name, v)
}

func (ea *EntityAccessor) GetBoolParamWithDefault(name string, dflt bool) (bool, error) {
	v, exists := ea.param(name)
	if !exists {
		return dflt, nil
	}
	return asBool(name, v)
}

// rand is seeded from the "seed" parameter, then the configured seed, then the clock.
func (ea *EntityAccessor) rand() (*rand.Rand, error) {
	seed, err := ea.GetIntParamWithDefault("seed", int(ea.server.defaults.Seed))
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = int(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(int64(seed))), nil
}

func (ea *EntityAccessor) loadGraph() (*graph.Graph, error) {
	path, err := ea.GetStringParam("adjacencyPath")
	if err != nil {
		return nil, err
	}
	return table.LoadAdjacency(path)
}

// output keeps the result in memory and, if an "outputPath" is given, on disk.
// With "normalize" the matrix is min-max scaled first.
func (ea *EntityAccessor) output(m feature.Matrix) error {
	normalize, err := ea.GetBoolParamWithDefault("normalize", false)
	if err != nil {
		return err
	}
	if normalize {
		if m, err = pe.Normalize(m, ea.server.defaults.Degenerate); err != nil {
			return err
		}
	}
	path, err := ea.GetStringParamWithDefault("outputPath", "")
	if err != nil {
		return err
	}
	if path != "" {
		if err := table.WriteMatrix(path, m); err != nil {
			return err
		}
	}
	ea.result = m
	return nil
}
