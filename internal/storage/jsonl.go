// Package storage persists entries as JSONL and caches remote lookups in
// SQLite.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
)

// MaxLineBytes bounds a single JSONL record.
const MaxLineBytes = 1 << 20

// eachRecord calls fn with every non-blank line of r and its 1-based
// line number.
func eachRecord(r io.Reader, fn func(n int, rec []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	for n := 1; sc.Scan(); n++ {
		rec := bytes.TrimSpace(sc.Bytes())
		if len(rec) == 0 {
			continue
		}
		if err := fn(n, rec); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadEntries reads canonical entries from a JSONL file. A missing file
// yields no entries.
func ReadEntries(path string) ([]*entry.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening entries file: %w", err)
	}
	defer f.Close()
	return DecodeEntries(f)
}

// DecodeEntries reads canonical entries, one JSON object per line.
func DecodeEntries(r io.Reader) ([]*entry.Entry, error) {
	var entries []*entry.Entry
	err := eachRecord(r, func(n int, rec []byte) error {
		var e entry.Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, &e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return entries, nil
}

// DecodeDocuments reads provider payloads, one JSON object per line.
func DecodeDocuments(r io.Reader) ([]jsondoc.Object, error) {
	var docs []jsondoc.Object
	err := eachRecord(r, func(n int, rec []byte) error {
		doc, err := jsondoc.Parse(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	return docs, nil
}

// EncodeEntries writes entries to w, one JSON object per line.
func EncodeEntries(w io.Writer, entries []*entry.Entry) error {
	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}

// WriteEntries writes all entries to a JSONL file, replacing existing content.
func WriteEntries(path string, entries []*entry.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating entries file: %w", err)
	}
	if err := EncodeEntries(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AppendEntry adds an entry to the end of a JSONL file.
func AppendEntry(path string, e *entry.Entry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening entries file for append: %w", err)
	}
	if err := EncodeEntries(f, []*entry.Entry{e}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FindByDOI returns the index of the first entry whose doi field equals
// doi exactly.
func FindByDOI(entries []*entry.Entry, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, e := range entries {
		if v, ok := e.Field(field.DOI); ok && v == doi {
			return i, true
		}
	}
	return -1, false
}
