package table

import (
	"math"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/graph"
)

// LoadAdjacency reads a graph from a table. The table is taken transposed:
// with 2 columns it is an edge index, one edge per row, sources in the first
// column and destinations in the second. A square table is a dense adjacency
// matrix where column i lists the outgoing edges of node i.
func LoadAdjacency(path string) (*graph.Graph, error) {
	t, err := Read(path)
	if err != nil {
		return nil, err
	}
	g, err := adjacencyFromTable(t)
	if err != nil {
		return nil, errors.Annotatef(err, "adjacency %v", path)
	}
	return g, nil
}

func adjacencyFromTable(t *Table) (*graph.Graph, error) {
	rows, cols := t.NumRows(), len(t.Columns)
	switch {
	case cols == 2:
		index := [][]int64{make([]int64, rows), make([]int64, rows)}
		for k, c := range t.Columns {
			for e, v := range c {
				if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
					return nil, errors.NotValidf("node index %v in edge %d", v, e)
				}
				index[k][e] = int64(v)
			}
		}
		return graph.FromEdgeIndex(index, 0)
	case rows == cols && rows > 0:
		return graph.FromDenseAdjacency(t.Columns)
	default:
		return nil, errors.NotValidf("adjacency table of shape %dx%d", rows, cols)
	}
}
