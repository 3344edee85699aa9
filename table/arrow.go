package table

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"
)

var arrowAllocator = memory.NewGoAllocator()

func toRecord(t *Table) array.Record {
	fields := make([]arrow.Field, len(t.Names))
	cols := make([]array.Interface, len(t.Columns))
	for i, name := range t.Names {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
		b := array.NewFloat64Builder(arrowAllocator)
		b.AppendValues(t.Columns[i], nil)
		cols[i] = b.NewFloat64Array()
		b.Release()
	}
	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(t.NumRows()))
	for _, c := range cols {
		c.Release()
	}
	return rec
}

func writeArrow(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to create file: %v", err)
	}
	if err := writeRecord(f, toRecord(t)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeRecord(f *os.File, rec array.Record) error {
	defer rec.Release()
	w, err := ipc.NewFileWriter(
		f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(arrowAllocator))
	if err != nil {
		return fmt.Errorf("Failed to create Arrow writer: %v", err)
	}
	if err = w.Write(rec); err != nil {
		return fmt.Errorf("Failed to write Arrow file: %v", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("Failed to write Arrow file: %v", err)
	}
	return nil
}

func readArrow(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open file: %v", err)
	}
	defer f.Close()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(arrowAllocator))
	if err != nil {
		return nil, fmt.Errorf("Failed to open Arrow file: %v", err)
	}
	defer r.Close()
	t := &Table{}
	var keep []int
	for i, field := range r.Schema().Fields() {
		if !isIndexColumn(field.Name) {
			keep = append(keep, i)
			t.Names = append(t.Names, field.Name)
			t.Columns = append(t.Columns, nil)
		}
	}
	// Files written by other tools may split the rows into several records.
	for k := 0; k < r.NumRecords(); k++ {
		// The record is owned by the reader.
		rec, err := r.Record(k)
		if err != nil {
			return nil, fmt.Errorf("Failed to read record %d: %v", k, err)
		}
		for j, i := range keep {
			c, err := appendColumn(t.Columns[j], t.Names[j], rec.Column(i))
			if err != nil {
				return nil, err
			}
			t.Columns[j] = c
		}
	}
	return t, nil
}

func appendColumn(dst []float64, name string, col array.Interface) ([]float64, error) {
	switch col := col.(type) {
	case *array.Float64:
		return append(dst, col.Float64Values()...), nil
	case *array.Float32:
		for _, v := range col.Float32Values() {
			dst = append(dst, float64(v))
		}
	case *array.Int64:
		for _, v := range col.Int64Values() {
			dst = append(dst, float64(v))
		}
	case *array.Int32:
		for _, v := range col.Int32Values() {
			dst = append(dst, float64(v))
		}
	default:
		return nil, unsupportedColumn(name, col)
	}
	return dst, nil
}
