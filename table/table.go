// Numeric columnar tables on disk: Parquet and Arrow IPC files.
package table

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/lynxkite/lynxkite/posenc/feature"
)

type Format int

const (
	Parquet Format = iota
	Arrow
)

// FormatOf picks the format by file extension. Anything but ".arrow" is Parquet.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".arrow") {
		return Arrow
	}
	return Parquet
}

func (f Format) String() string {
	if f == Arrow {
		return "arrow"
	}
	return "parquet"
}

// Table is a list of equally long named columns.
type Table struct {
	Names   []string
	Columns [][]float64
}

func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

func (t *Table) Matrix() (feature.Matrix, error) {
	return feature.FromColumns(t.NumRows(), t.Columns)
}

// FromMatrix names the columns "0", "1", ...
func FromMatrix(m feature.Matrix) *Table {
	t := &Table{Names: make([]string, m.Cols), Columns: make([][]float64, m.Cols)}
	for j := range t.Columns {
		t.Names[j] = strconv.Itoa(j)
		t.Columns[j] = m.Col(j)
	}
	return t
}

// Pandas stores the data frame index in columns named like this.
func isIndexColumn(name string) bool {
	return strings.HasPrefix(name, "__index_level_")
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return errors.NotValidf("table without columns")
	}
	if len(t.Names) != len(t.Columns) {
		return errors.NotValidf("%d names for %d columns", len(t.Names), len(t.Columns))
	}
	for i, c := range t.Columns {
		if len(c) != t.NumRows() {
			return errors.NotValidf("column %q with %d rows, expected %d", t.Names[i], len(c), t.NumRows())
		}
	}
	return nil
}

func Read(path string) (*Table, error) {
	var t *Table
	var err error
	switch FormatOf(path) {
	case Arrow:
		t, err = readArrow(path)
	default:
		t, err = readParquet(path)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "reading %v", path)
	}
	return t, nil
}

// WriteAs writes the table in the given format regardless of the extension of path.
func WriteAs(path string, format Format, t *Table) error {
	if err := t.validate(); err != nil {
		return err
	}
	var err error
	switch format {
	case Arrow:
		err = writeArrow(path, t)
	default:
		err = writeParquet(path, t)
	}
	if err != nil {
		return errors.Annotatef(err, "writing %v", path)
	}
	return nil
}

func Write(path string, t *Table) error {
	return WriteAs(path, FormatOf(path), t)
}

func ReadMatrix(path string) (feature.Matrix, error) {
	t, err := Read(path)
	if err != nil {
		return feature.Matrix{}, err
	}
	return t.Matrix()
}

func WriteMatrix(path string, m feature.Matrix) error {
	return Write(path, FromMatrix(m))
}

func unsupportedColumn(name string, v interface{}) error {
	return errors.NotSupportedf("column %q of type %T", name, v)
}
