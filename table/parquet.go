package table

import (
	"fmt"
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

const numGoRoutines int64 = 4

func writeParquet(path string, t *Table) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("Failed to create file: %v", err)
	}
	defer fw.Close()
	md := make([]string, len(t.Names))
	for i, name := range t.Names {
		md[i] = fmt.Sprintf("name=%v, type=DOUBLE", name)
	}
	pw, err := writer.NewCSVWriter(md, fw, numGoRoutines)
	if err != nil {
		return fmt.Errorf("Failed to create parquet writer: %v", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		// The writer keeps a reference to every row until WriteStop.
		row := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = c[i]
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("Failed to write parquet file: %v", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("Parquet WriteStop error: %v", err)
	}
	return nil
}

func readParquet(path string) (*Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open file: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetColumnReader(fr, numGoRoutines)
	if err != nil {
		return nil, fmt.Errorf("Failed to create parquet reader: %v", err)
	}
	defer pr.ReadStop()
	numRows := pr.GetNumRows()
	// The schema elements carry internal names. Infos has the names in the file.
	var names []string
	sh := pr.SchemaHandler
	for i := 1; i < len(sh.SchemaElements); i++ {
		e := sh.SchemaElements[i]
		if e.NumChildren == nil || *e.NumChildren == 0 {
			names = append(names, sh.Infos[i].ExName)
		}
	}
	t := &Table{}
	for i, name := range names {
		if isIndexColumn(name) {
			continue
		}
		values, _, _, err := pr.ReadColumnByIndex(int64(i), numRows)
		if err != nil {
			return nil, fmt.Errorf("Failed to read column %q: %v", name, err)
		}
		if int64(len(values)) != numRows {
			return nil, fmt.Errorf("Column %q has %d values, expected %d", name, len(values), numRows)
		}
		c := make([]float64, numRows)
		for r, v := range values {
			switch v := v.(type) {
			case nil:
				c[r] = math.NaN()
			case float64:
				c[r] = v
			case float32:
				c[r] = float64(v)
			case int64:
				c[r] = float64(v)
			case int32:
				c[r] = float64(v)
			case bool:
				if v {
					c[r] = 1
				}
			default:
				return nil, unsupportedColumn(name, v)
			}
		}
		t.Names = append(t.Names, name)
		t.Columns = append(t.Columns, c)
	}
	return t, nil
}
