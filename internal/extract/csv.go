// Package extract reads raw CSV extracts into tables. Every cell is kept as
// text; parsing and validation belong to the transform stage.
package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jfyne/csvd"

	"github.com/fleximart/fleximart-etl/internal/model"
)

// ReadTable reads a CSV file into a RawTable.
func ReadTable(path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := DecodeTable(f)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// DecodeTable decodes CSV data with a detected delimiter. The first record is
// the header; rows shorter than the header leave the missing cells empty.
func DecodeTable(r io.Reader) (model.RawTable, error) {
	cr := csvd.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return model.RawTable{}, nil
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	t := model.RawTable{Columns: cols}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.RawTable{}, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		row := make(model.RawRecord, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
