// Dense per-node feature blocks.
package feature

import (
	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-major Rows x Cols block of float64 values.
// Unlike mat.Dense it can have zero columns: an n x 0 block is how an
// encoder that was asked for no dimensions reports its result.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

func New(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Empty returns the rows x 0 block.
func Empty(rows int) Matrix {
	return Matrix{Rows: rows, Cols: 0, Data: []float64{}}
}

func (m Matrix) IsEmpty() bool {
	return m.Cols == 0 || m.Rows == 0
}

func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

func (m Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i. Writes go through to the matrix.
func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Col copies column j into a new slice.
func (m Matrix) Col(j int) []float64 {
	c := make([]float64, m.Rows)
	for i := range c {
		c[i] = m.Data[i*m.Cols+j]
	}
	return c
}

// FromColumns builds a matrix whose j-th column is columns[j].
func FromColumns(rows int, columns [][]float64) (Matrix, error) {
	m := New(rows, len(columns))
	for j, c := range columns {
		if len(c) != rows {
			return Matrix{}, errors.NotValidf("column %d with %d rows, expected %d", j, len(c), rows)
		}
		for i, v := range c {
			m.Data[i*m.Cols+j] = v
		}
	}
	return m, nil
}

// FromDense copies a gonum matrix.
func FromDense(d mat.Matrix) Matrix {
	r, c := d.Dims()
	m := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Data[i*c+j] = d.At(i, j)
		}
	}
	return m
}

// Dense returns a gonum view sharing the backing data. It returns nil for
// empty blocks, which gonum cannot represent.
func (m Matrix) Dense() *mat.Dense {
	if m.IsEmpty() {
		return nil
	}
	return mat.NewDense(m.Rows, m.Cols, m.Data)
}

func (m Matrix) Clone() Matrix {
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: data}
}

// HConcat places the blocks side by side. Zero-width blocks contribute nothing.
func HConcat(blocks ...Matrix) (Matrix, error) {
	if len(blocks) == 0 {
		return Matrix{}, nil
	}
	rows := blocks[0].Rows
	cols := 0
	for i, b := range blocks {
		if b.Rows != rows {
			return Matrix{}, errors.NotValidf("block %d with %d rows, expected %d", i, b.Rows, rows)
		}
		cols += b.Cols
	}
	out := New(rows, cols)
	offset := 0
	for _, b := range blocks {
		for i := 0; i < rows; i++ {
			copy(out.Data[i*cols+offset:i*cols+offset+b.Cols], b.Row(i))
		}
		offset += b.Cols
	}
	return out, nil
}

func (m Matrix) EstimatedMemUsage() int {
	return len(m.Data) * 8
}
