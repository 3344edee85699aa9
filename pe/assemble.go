package pe

import (
	"log"
	"math"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/lynxkite/lynxkite/posenc/feature"
)

// DegeneratePolicy decides what happens to a non-empty block whose values are all equal.
type DegeneratePolicy string

const (
	// DegenerateZero replaces the block with zeros and logs a warning.
	DegenerateZero DegeneratePolicy = "zero"
	// DegenerateFail returns ErrDegenerateBlock.
	DegenerateFail DegeneratePolicy = "fail"
)

var ErrDegenerateBlock = errors.New("encoding block has no dynamic range")

func (p DegeneratePolicy) validate() error {
	switch p {
	case "", DegenerateZero, DegenerateFail:
		return nil
	}
	return errors.NotValidf("degenerate block policy %q", string(p))
}

// Normalize min-max scales the whole block into [0, 1].
// Empty blocks are returned as they are.
func Normalize(block feature.Matrix, policy DegeneratePolicy) (feature.Matrix, error) {
	if err := policy.validate(); err != nil {
		return feature.Matrix{}, err
	}
	if block.IsEmpty() {
		return block, nil
	}
	for _, v := range block.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return feature.Matrix{}, errors.NotValidf("encoding value %v", v)
		}
	}
	lo, hi := floats.Min(block.Data), floats.Max(block.Data)
	out := block.Clone()
	if hi == lo {
		if policy == DegenerateFail {
			return feature.Matrix{}, errors.Annotatef(ErrDegenerateBlock, "every value is %v", lo)
		}
		log.Printf("Warning: every value of a %dx%d block is %v. Using zeros.", block.Rows, block.Cols, lo)
		for i := range out.Data {
			out.Data[i] = 0
		}
		return out, nil
	}
	span := hi - lo
	floats.AddConst(-lo, out.Data)
	for i := range out.Data {
		out.Data[i] /= span
	}
	return out, nil
}

// Assemble normalizes every block on its own and puts them side by side.
func Assemble(policy DegeneratePolicy, blocks ...feature.Matrix) (feature.Matrix, error) {
	normalized := make([]feature.Matrix, len(blocks))
	for i, b := range blocks {
		n, err := Normalize(b, policy)
		if err != nil {
			return feature.Matrix{}, errors.Annotatef(err, "block %d", i)
		}
		normalized[i] = n
	}
	return feature.HConcat(normalized...)
}
