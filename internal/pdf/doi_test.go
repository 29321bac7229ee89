package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractDOI_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("plain text, doi 10.1234/abc"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ExtractDOI(path); err == nil {
		t.Error("expected error for a non-PDF file")
	}
}

func TestExtractDOI_Missing(t *testing.T) {
	if _, _, err := ExtractDOI(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestExtractDOIReader_NotAPDF(t *testing.T) {
	data := "%PDF-1.4\ngarbage"
	if _, _, err := ExtractDOIReader(strings.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for a truncated PDF")
	}
}

func TestOpen_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.pdf")
	if err := os.WriteFile(path, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if d, err := Open(path); err == nil {
		d.Close()
		t.Error("Open accepted a non-PDF file")
	}
}

func TestDocument_ZeroValueLimits(t *testing.T) {
	d := &Document{}
	if d.Close() != nil {
		t.Error("Close without a file should be a no-op")
	}
	if d.PageText(1) != "" || d.Text(0) != "" {
		t.Error("empty document produced text")
	}
	if _, ok := d.FindDOI(5); ok {
		t.Error("empty document produced a DOI")
	}
}
