package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
)

// Column widths for human output.
const (
	TitleMaxWidth = 60 // Titles in entry summaries
	ValueMaxWidth = 70 // Field values in detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncate shortens s to at most width display columns, adding "..." if truncated.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// writeTable writes rows as left-aligned columns separated by two spaces.
// Widths are measured in display columns so CJK and accented titles line up.
func writeTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	writeRow := func(cells []string) {
		var sb strings.Builder
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i == len(cells)-1 || i == len(widths)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

// printEntryHuman prints an entry as its type line followed by one
// aligned "field  value" row per field.
func printEntryHuman(e *entry.Entry) {
	key := e.CiteKey
	if key == "" {
		key = "(no key)"
	}
	outputHuman("@%s %s\n", e.Type, key)

	rows := make([][]string, 0, e.Len())
	for _, f := range e.Fields() {
		v, _ := e.Field(f)
		rows = append(rows, []string{"  " + f.String(), truncate(v, ValueMaxWidth)})
	}
	writeTable(os.Stdout, []string{"  FIELD", "VALUE"}, rows)
}

// printEntriesHuman prints a one-line summary per entry.
func printEntriesHuman(entries []*entry.Entry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		title, _ := e.Field(field.Title)
		year, _ := e.Field(field.Year)
		rows[i] = []string{string(e.Type), e.CiteKey, year, truncate(title, TitleMaxWidth)}
	}
	writeTable(os.Stdout, []string{"TYPE", "KEY", "YEAR", "TITLE"}, rows)
}
