package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/oadoi"
	"github.com/Siedlerchr/jabref/internal/storage"
)

// DefaultCacheMaxAge is how long an open-access lookup stays fresh.
const DefaultCacheMaxAge = 7 * 24 * time.Hour

var (
	resolveNoCache bool
	resolveMaxAge  time.Duration
	resolveEntries string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [doi]",
	Short: "Find an open-access full-text URL for a DOI",
	Long: `Ask oaDOI for the best open-access copy of a paper.

Either give a single DOI, or use --entries to look up every entry with a
doi field in a JSONL file of canonical entries.

Results are cached in the local cache database, including lookups that
found no copy. Failed lookups are never cached.

Examples:
  bibnorm resolve 10.1109/ICWS.2007.59
  bibnorm resolve https://doi.org/10.1109/ICWS.2007.59 --human
  bibnorm resolve --entries refs.jsonl --no-cache`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false, "Bypass the local lookup cache")
	resolveCmd.Flags().DurationVar(&resolveMaxAge, "max-age", DefaultCacheMaxAge, "Maximum age of cached lookups (0 keeps them forever)")
	resolveCmd.Flags().StringVar(&resolveEntries, "entries", "", "JSONL file of entries to resolve")
	rootCmd.AddCommand(resolveCmd)
}

// ResolveResult is one open-access lookup outcome.
type ResolveResult struct {
	CiteKey string `json:"citekey,omitempty"`
	DOI     string `json:"doi"`
	Found   bool   `json:"found"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) {
	if (len(args) == 1) == (resolveEntries != "") {
		exitWithError(ExitError, "give either a DOI or --entries")
	}

	opts := []oadoi.ClientOption{
		oadoi.WithEmail(cfg.ContactEmail),
		oadoi.WithRateLimit(cfg.RateLimit),
		oadoi.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
		oadoi.WithLogger(appLog),
	}
	if !resolveNoCache {
		db := mustOpenCache()
		defer db.Close()
		opts = append(opts, oadoi.WithCache(db, resolveMaxAge))
	}
	client := oadoi.NewClient(opts...)

	if resolveEntries != "" {
		resolveEntryFile(cmd.Context(), client, resolveEntries)
		return
	}

	d, ok := doi.Parse(args[0])
	if !ok {
		exitWithError(ExitDataError, "not a DOI: %s", args[0])
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
	defer cancel()

	u, err := client.Resolve(ctx, d)
	if err != nil {
		exitWithError(resolveExitCode(err), "resolving %s: %v", d, err)
	}

	result := ResolveResult{DOI: d.String(), Found: u != nil}
	if u != nil {
		result.URL = u.String()
	}
	if humanOutput {
		if !result.Found {
			outputHuman("No open-access copy known for %s\n", result.DOI)
			return
		}
		outputHuman("%s\n", result.URL)
		return
	}
	outputJSON(result)
}

// resolveEntryFile looks up every entry of a JSONL file. Per-entry
// failures are reported in the results rather than aborting the run.
func resolveEntryFile(ctx context.Context, client *oadoi.Client, path string) {
	entries, err := storage.ReadEntries(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	results := make([]ResolveResult, 0, len(entries))
	for _, e := range entries {
		raw, ok := e.Field(field.DOI)
		if !ok {
			continue
		}
		results = append(results, resolveEntry(ctx, client, e, raw))
	}

	if humanOutput {
		rows := make([][]string, len(results))
		for i, r := range results {
			status := r.URL
			switch {
			case r.Error != "":
				status = "error: " + r.Error
			case !r.Found:
				status = "-"
			}
			rows[i] = []string{r.CiteKey, r.DOI, status}
		}
		writeTable(os.Stdout, []string{"KEY", "DOI", "URL"}, rows)
		return
	}
	outputJSON(results)
}

func resolveEntry(ctx context.Context, client *oadoi.Client, e *entry.Entry, raw string) ResolveResult {
	result := ResolveResult{CiteKey: e.CiteKey, DOI: raw}
	if _, ok := doi.Parse(raw); !ok {
		result.Error = "invalid DOI"
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout())
	defer cancel()

	u, err := client.FindFullText(ctx, e)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if u != nil {
		result.Found = true
		result.URL = u.String()
	}
	return result
}

// resolveExitCode maps an oaDOI error to an exit code.
func resolveExitCode(err error) int {
	switch {
	case oadoi.IsNotFound(err):
		return ExitNotFound
	case errors.Is(err, oadoi.ErrInvalidResponse):
		return ExitDataError
	default:
		return ExitFetchError
	}
}
