package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/integrity"
	"github.com/Siedlerchr/jabref/internal/storage"
	"github.com/Siedlerchr/jabref/internal/translate"
)

var (
	checkProvider string
	checkEntries  string
	checkStrict   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Report fields that plain BibTeX does not know",
	Long: `Check entries for fields that only biblatex defines.

abstract, comment, doi and url are accepted even though BibTeX does not
define them.

Entries come either from provider JSON (translated with --provider) or
from a JSONL file of canonical entries (--entries).

Examples:
  bibnorm check --entries refs.jsonl
  bibnorm check --provider csl record.json --human
  bibnorm check --entries refs.jsonl --strict   # exit 3 on findings`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkProvider, "provider", "p", "", "Provider that issued the input records")
	checkCmd.Flags().StringVar(&checkEntries, "entries", "", "JSONL file of canonical entries")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit with a data error when any message is reported")
	rootCmd.AddCommand(checkCmd)
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Checked  int                 `json:"checked"`
	Messages []integrity.Message `json:"messages"`
}

func runCheck(cmd *cobra.Command, args []string) {
	entries := loadCheckEntries(args)

	result := CheckResult{
		Checked:  len(entries),
		Messages: integrity.CheckAll(entries, integrity.NoBibtexFieldChecker{}),
	}
	if result.Messages == nil {
		result.Messages = []integrity.Message{}
	}

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}

	if checkStrict && len(result.Messages) > 0 {
		os.Exit(ExitDataError)
	}
}

func loadCheckEntries(args []string) []*entry.Entry {
	switch {
	case checkEntries != "" && len(args) == 0:
		entries, err := storage.ReadEntries(checkEntries)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		return entries
	case checkEntries == "" && len(args) == 1 && checkProvider != "":
		t, err := translate.Default().Get(checkProvider)
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
		return entries
	default:
		exitWithError(ExitError, "give either --entries or --provider with an input file")
		return nil
	}
}

func printCheckHuman(result CheckResult) {
	if len(result.Messages) == 0 {
		outputHuman("Checked %d entries: no problems found.\n", result.Checked)
		return
	}
	rows := make([][]string, len(result.Messages))
	for i, m := range result.Messages {
		key := m.CiteKey
		if key == "" {
			key = "-"
		}
		rows[i] = []string{key, m.Field.String(), m.Text}
	}
	writeTable(os.Stdout, []string{"KEY", "FIELD", "MESSAGE"}, rows)
	outputHuman("\n%d problems in %d entries\n", len(result.Messages), result.Checked)
}
