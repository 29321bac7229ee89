package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

// parquetBatchSize is how many rows ReadParquet decodes per call.
const parquetBatchSize = 128

// entryRow is the Parquet layout of an entry. Fields are a repeated group
// so that entries of different types share one schema.
type entryRow struct {
	Type    string       `parquet:"type"`
	CiteKey string       `parquet:"citekey,optional"`
	Fields  []fieldValue `parquet:"fields"`
}

type fieldValue struct {
	Name  string `parquet:"name"`
	Value string `parquet:"value"`
}

func toRow(e *entry.Entry) entryRow {
	row := entryRow{Type: string(e.Type), CiteKey: e.CiteKey}
	for _, f := range e.Fields() {
		v, _ := e.Field(f)
		row.Fields = append(row.Fields, fieldValue{Name: f.String(), Value: v})
	}
	return row
}

func fromRow(row entryRow) *entry.Entry {
	e := entry.New(field.EntryType(row.Type))
	e.CiteKey = row.CiteKey
	for _, fv := range row.Fields {
		e.SetField(field.Normalize(fv.Name), fv.Value)
	}
	return e
}

// EncodeParquet writes entries to w as a Parquet file.
func EncodeParquet(w io.Writer, entries []*entry.Entry) error {
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		rows[i] = toRow(e)
	}

	pw := parquet.NewGenericWriter[entryRow](w)
	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

// WriteParquet writes entries to a Parquet file, replacing existing content.
func WriteParquet(path string, entries []*entry.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}
	if err := EncodeParquet(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadParquet reads entries written by WriteParquet.
func ReadParquet(path string) ([]*entry.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}

	reader := parquet.NewGenericReader[entryRow](pf)
	defer reader.Close()

	var entries []*entry.Entry
	rows := make([]entryRow, parquetBatchSize)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			entries = append(entries, fromRow(row))
		}
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
	}
}
