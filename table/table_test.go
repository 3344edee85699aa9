package table

import (
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynxkite/lynxkite/posenc/feature"
)

func TestFormatOf(t *testing.T) {
	assert.Equal(t, Arrow, FormatOf("/x/y.arrow"))
	assert.Equal(t, Arrow, FormatOf("y.ARROW"))
	assert.Equal(t, Parquet, FormatOf("y.parquet"))
	assert.Equal(t, Parquet, FormatOf("y.parquet.inprogress"))
	assert.Equal(t, Parquet, FormatOf("y"))
}

func TestMatrixRoundTrip(t *testing.T) {
	m := feature.New(3, 2)
	copy(m.Data, []float64{0, 0.5, 1, 0.25, -2, 3.75})
	for _, name := range []string{"pe.parquet", "pe.arrow"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteMatrix(path, m))
		tab, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, tab.Names)
		got, err := tab.Matrix()
		require.NoError(t, err)
		assert.Equal(t, m, got, name)
	}
}

func TestParquetKeepsEveryRow(t *testing.T) {
	const n = 50
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(i) / 4
	}
	path := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, Write(path, &Table{Names: []string{"x"}, Columns: [][]float64{col}}))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{col}, got.Columns)
}

func TestWriteAsIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pe.arrow.inprogress")
	require.NoError(t, WriteAs(path, Arrow, &Table{Names: []string{"a"}, Columns: [][]float64{{1, 2}}}))
	tab, err := readArrow(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}}, tab.Columns)
}

func TestIndexColumnsAreSkipped(t *testing.T) {
	tab := &Table{
		Names:   []string{"__index_level_0__", "0", "1"},
		Columns: [][]float64{{7, 8}, {1, 2}, {3, 4}},
	}
	for _, name := range []string{"a.parquet", "a.arrow"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Write(path, tab))
		got, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, got.Names, name)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, got.Columns, name)
	}
}

func TestWriteRejectsBadTables(t *testing.T) {
	dir := t.TempDir()
	err := Write(filepath.Join(dir, "a.parquet"), &Table{})
	assert.True(t, errors.IsNotValid(err))
	err = Write(filepath.Join(dir, "b.parquet"), &Table{Names: []string{"x", "y"}, Columns: [][]float64{{1}, {1, 2}}})
	assert.True(t, errors.IsNotValid(err))
	err = WriteMatrix(filepath.Join(dir, "c.parquet"), feature.Empty(3))
	assert.True(t, errors.IsNotValid(err))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.parquet"))
	assert.Error(t, err)
	_, err = ReadMatrix(filepath.Join(t.TempDir(), "missing.arrow"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to open file")
}

func TestLoadEdgeIndex(t *testing.T) {
	// Edges 0->1, 1->2, 2->0, one per row.
	path := filepath.Join(t.TempDir(), "adj_cycle.parquet")
	require.NoError(t, Write(path, &Table{
		Names:   []string{"0", "1"},
		Columns: [][]float64{{0, 1, 2}, {1, 2, 0}},
	}))
	g, err := LoadAdjacency(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes)
	assert.Equal(t, []int{0, 1, 2}, g.Src)
	assert.Equal(t, []int{1, 2, 0}, g.Dst)
	assert.Nil(t, g.Weight)
}

func TestLoadEdgeIndexWithIndexColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adj_indexed.parquet")
	require.NoError(t, Write(path, &Table{
		Names:   []string{"__index_level_0__", "0", "1"},
		Columns: [][]float64{{0, 1}, {0, 1}, {1, 0}},
	}))
	g, err := LoadAdjacency(path)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, g.Src)
	assert.Equal(t, []int{1, 0}, g.Dst)
}

func TestLoadDenseAdjacency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adj_dense.arrow")
	// Column i lists the outgoing edges of node i: 0->1 (2), 1->0 (2), 1->2 (1), 2->1 (1).
	require.NoError(t, Write(path, &Table{
		Names:   []string{"0", "1", "2"},
		Columns: [][]float64{{0, 2, 0}, {2, 0, 1}, {0, 1, 0}},
	}))
	g, err := LoadAdjacency(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes)
	assert.Equal(t, []int{0, 1, 1, 2}, g.Src)
	assert.Equal(t, []int{1, 0, 2, 1}, g.Dst)
	assert.Equal(t, []float64{2, 2, 1, 1}, g.Weight)
}

func TestDenseAdjacencyIsTransposed(t *testing.T) {
	g, err := adjacencyFromTable(&Table{
		Names:   []string{"0", "1", "2"},
		Columns: [][]float64{{0, 1, 1}, {0, 0, 0}, {0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, g.Src)
	assert.Equal(t, []int{1, 2}, g.Dst)
}

func TestMalformedAdjacency(t *testing.T) {
	cases := []*Table{
		{Names: []string{"a", "b", "c"}, Columns: [][]float64{{0, 1}, {1, 2}, {2, 0}}},
		{Names: []string{"a", "b"}, Columns: [][]float64{{0.5}, {1}}},
		{Names: []string{"a", "b"}, Columns: [][]float64{{-1}, {1}}},
	}
	for i, c := range cases {
		_, err := adjacencyFromTable(c)
		assert.True(t, errors.IsNotValid(err), "case %d: %v", i, err)
	}
}
