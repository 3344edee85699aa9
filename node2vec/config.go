// Node2vec embeddings: biased random walks and skip-gram with negative sampling.
package node2vec

import (
	"runtime"

	"github.com/juju/errors"
)

type Config struct {
	Dim                int     `yaml:"dim"`
	WalkLength         int     `yaml:"walk_length"`
	ContextSize        int     `yaml:"context_size"`
	WalksPerNode       int     `yaml:"walks_per_node"`
	NumNegativeSamples int     `yaml:"num_negative_samples"`
	P                  float64 `yaml:"p"`
	Q                  float64 `yaml:"q"`
	Epochs             int     `yaml:"epochs"`
	// Start nodes per mini-batch. Zero means Dim.
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	// Goroutines generating samples. Parameter updates always happen on one.
	Workers int `yaml:"workers"`
	// Log the mean loss on every LogEvery-th epoch.
	LogEvery int `yaml:"log_every"`
}

func DefaultConfig(dim int) Config {
	return Config{
		Dim:                dim,
		WalkLength:         20,
		ContextSize:        10,
		WalksPerNode:       10,
		NumNegativeSamples: 1,
		P:                  1,
		Q:                  1,
		Epochs:             21,
		BatchSize:          dim,
		LearningRate:       0.005,
		Workers:            runtime.NumCPU(),
		LogEvery:           10,
	}
}

// WithDefaults fills the zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig(c.Dim)
	if c.WalkLength == 0 {
		c.WalkLength = d.WalkLength
	}
	if c.ContextSize == 0 {
		c.ContextSize = d.ContextSize
	}
	if c.WalksPerNode == 0 {
		c.WalksPerNode = d.WalksPerNode
	}
	if c.NumNegativeSamples == 0 {
		c.NumNegativeSamples = d.NumNegativeSamples
	}
	if c.P == 0 {
		c.P = d.P
	}
	if c.Q == 0 {
		c.Q = d.Q
	}
	if c.Epochs == 0 {
		c.Epochs = d.Epochs
	}
	if c.BatchSize == 0 {
		c.BatchSize = d.BatchSize
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.LogEvery == 0 {
		c.LogEvery = d.LogEvery
	}
	return c
}

func (c Config) Validate() error {
	switch {
	case c.Dim <= 0:
		return errors.NotValidf("embedding dimension %d", c.Dim)
	case c.ContextSize < 2:
		return errors.NotValidf("context size %d", c.ContextSize)
	case c.WalkLength < c.ContextSize:
		return errors.NotValidf("walk length %d shorter than context size %d", c.WalkLength, c.ContextSize)
	case c.WalksPerNode <= 0 || c.NumNegativeSamples <= 0:
		return errors.NotValidf("%d walks per node with %d negative samples", c.WalksPerNode, c.NumNegativeSamples)
	case c.P <= 0 || c.Q <= 0:
		return errors.NotValidf("walk bias p=%v q=%v", c.P, c.Q)
	case c.Epochs < 0 || c.BatchSize <= 0 || c.Workers <= 0 || c.LogEvery <= 0:
		return errors.NotValidf("%d epochs, batch size %d, %d workers, logging every %d",
			c.Epochs, c.BatchSize, c.Workers, c.LogEvery)
	case c.LearningRate <= 0:
		return errors.NotValidf("learning rate %v", c.LearningRate)
	}
	return nil
}
