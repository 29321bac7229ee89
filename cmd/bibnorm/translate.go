package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/export"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
	"github.com/Siedlerchr/jabref/internal/storage"
	"github.com/Siedlerchr/jabref/internal/translate"
)

var (
	translateProvider string
	translateFormat   string
	translateAppend   string
	translateOutput   string
)

var translateCmd = &cobra.Command{
	Use:   "translate <file|->",
	Short: "Translate provider JSON into canonical entries",
	Long: `Translate provider JSON records into canonical entries.

Input is a single JSON object, an array of objects (as in a Paperpile
export) or JSONL with one object per line.
Use "-" to read from stdin.

Formats:
  json     entries as a JSON array (default)
  jsonl    one entry per line
  bibtex   BibTeX entries
  parquet  Parquet file (requires --output)

With --append, BibTeX entries are added to a .bib file, skipping any
whose DOI or cite key is already there.

Examples:
  bibnorm translate --provider springer record.json
  bibnorm translate --provider bibjson doaj.jsonl --format bibtex
  bibnorm translate --provider paperpile export.json --format parquet -o refs.parquet
  cat record.json | bibnorm translate --provider csl - --append refs.bib`,
	Args: cobra.ExactArgs(1),
	Run:  runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateProvider, "provider", "p", "", "Provider that issued the records (see 'bibnorm providers')")
	translateCmd.Flags().StringVar(&translateFormat, "format", "json", "Output format (json, jsonl, bibtex, parquet)")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Write parquet output to this file")
	translateCmd.Flags().StringVar(&translateAppend, "append", "", "Append new entries to a .bib file")
	translateCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(translateCmd)
}

// TranslateAppendResult is the response for translate --append.
type TranslateAppendResult struct {
	Path     string `json:"path"`
	Added    int    `json:"added"`
	Skipped  int    `json:"skipped"`
	Provider string `json:"provider"`
}

func runTranslate(cmd *cobra.Command, args []string) {
	switch translateFormat {
	case "json", "jsonl", "bibtex":
	case "parquet":
		if translateOutput == "" {
			exitWithError(ExitError, "--format parquet requires --output")
		}
	default:
		exitWithError(ExitError, "unknown format: %s", translateFormat)
	}

	t, err := translate.Default().Get(translateProvider)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	docs, err := readDocuments(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	entries, err := translateAll(t, docs, translateOptions())
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if translateAppend != "" {
		result, err := appendBibTeX(translateAppend, entries)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		result.Provider = t.Name()
		if humanOutput {
			outputHuman("Added %d entries to %s (%d already present)\n", result.Added, result.Path, result.Skipped)
			return
		}
		outputJSON(result)
		return
	}

	switch translateFormat {
	case "parquet":
		if err := storage.WriteParquet(translateOutput, entries); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			outputHuman("Wrote %d entries to %s\n", len(entries), translateOutput)
			return
		}
		outputJSON(StatusResponse{Status: "written", Path: translateOutput})
	case "bibtex":
		os.Stdout.WriteString(export.ToBibTeXList(entries))
	case "jsonl":
		if err := storage.EncodeEntries(os.Stdout, entries); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	default:
		if humanOutput {
			printEntriesHuman(entries)
			return
		}
		outputJSON(entries)
	}
}

// readDocuments reads one JSON object, or JSONL, from path ("-" for stdin).
func readDocuments(path string) ([]jsondoc.Object, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return parseDocuments(data)
}

// parseDocuments accepts a single JSON object, possibly spread over many
// lines, an array of objects, or JSONL. Input is JSONL only when its first
// line is a complete object; otherwise the single-object error is kept.
func parseDocuments(data []byte) ([]jsondoc.Object, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return jsondoc.ParseList(trimmed)
	}
	doc, err := jsondoc.Parse(trimmed)
	if err == nil {
		return []jsondoc.Object{doc}, nil
	}
	first, _, _ := bytes.Cut(trimmed, []byte{'\n'})
	if _, lineErr := jsondoc.Parse(first); lineErr != nil {
		return nil, err
	}
	return storage.DecodeDocuments(bytes.NewReader(trimmed))
}

// translateAll translates every document. The first failure aborts.
func translateAll(t translate.Translator, docs []jsondoc.Object, opts translate.Options) ([]*entry.Entry, error) {
	entries := make([]*entry.Entry, 0, len(docs))
	for i, doc := range docs {
		e, err := t.Translate(doc, opts)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// appendBibTeX appends the entries not yet present in a .bib file.
func appendBibTeX(path string, entries []*entry.Entry) (TranslateAppendResult, error) {
	result := TranslateAppendResult{Path: path}
	if abs, err := filepath.Abs(path); err == nil {
		result.Path = abs
	}

	added, skipped, err := export.AppendEntries(path, entries)
	result.Added, result.Skipped = added, skipped
	return result, err
}
