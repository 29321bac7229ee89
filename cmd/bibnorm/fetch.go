package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/doiorg"
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/export"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/storage"
)

var (
	fetchNoCache bool
	fetchFormat  string
	fetchAppend  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <doi>",
	Short: "Fetch metadata for a DOI from doi.org",
	Long: `Fetch CSL-JSON metadata for a DOI by content negotiation and translate
it into a canonical entry.

Formats:
  json     canonical entry as JSON (default)
  bibtex   BibTeX entry

Examples:
  bibnorm fetch 10.1109/ICWS.2007.59
  bibnorm fetch 10.1109/ICWS.2007.59 --format bibtex
  bibnorm fetch 10.1109/ICWS.2007.59 --append refs.jsonl`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "Bypass the local metadata cache")
	fetchCmd.Flags().StringVar(&fetchFormat, "format", "json", "Output format (json, bibtex)")
	fetchCmd.Flags().StringVar(&fetchAppend, "append", "", "Also append the entry to a JSONL file unless its DOI is already there")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	if fetchFormat != "json" && fetchFormat != "bibtex" {
		exitWithError(ExitError, "unknown format: %s", fetchFormat)
	}
	d, ok := doi.Parse(args[0])
	if !ok {
		exitWithError(ExitDataError, "not a DOI: %s", args[0])
	}

	opts := []doiorg.ClientOption{
		doiorg.WithRateLimit(cfg.RateLimit),
		doiorg.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
		doiorg.WithTranslateOptions(translateOptions()),
	}
	if !fetchNoCache {
		db := mustOpenCache()
		defer db.Close()
		opts = append(opts, doiorg.WithCache(db))
	}
	client := doiorg.NewClient(opts...)

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
	defer cancel()

	e, err := client.Fetch(ctx, d)
	if err != nil {
		code := ExitFetchError
		if doiorg.IsNotFound(err) {
			code = ExitNotFound
		}
		exitWithError(code, "fetching %s: %v", d, err)
	}

	if fetchAppend != "" {
		if err := appendIfNew(fetchAppend, e); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if fetchFormat == "bibtex" {
		os.Stdout.WriteString(export.ToBibTeX(e))
		return
	}
	if humanOutput {
		printEntryHuman(e)
		return
	}
	outputJSON(e)
}

// appendIfNew appends e to a JSONL file unless an entry with the same DOI
// is already present.
func appendIfNew(path string, e *entry.Entry) error {
	entries, err := storage.ReadEntries(path)
	if err != nil {
		return err
	}
	if raw, ok := e.Field(field.DOI); ok {
		if _, found := storage.FindByDOI(entries, raw); found {
			appLog.Info("entry already present", "path", path, "doi", raw)
			return nil
		}
	}
	return storage.AppendEntry(path, e)
}
