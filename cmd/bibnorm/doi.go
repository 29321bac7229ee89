package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/pdf"
)

var doiCmd = &cobra.Command{
	Use:   "doi",
	Short: "Parse and extract DOIs",
}

var doiParseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Normalize a DOI given in any accepted form",
	Long: `Parse a DOI written as a bare identifier, a "doi:" reference or a
resolver URL, and print its normalized form.

Examples:
  bibnorm doi parse 10.1109/ICWS.2007.59
  bibnorm doi parse https://doi.org/10.1109/ICWS.2007.59
  bibnorm doi parse doi:10.1109/ICWS.2007.59 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runDOIParse,
}

var doiExtractPages int

var doiExtractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Find the first DOI in a PDF",
	Long: `Scan the text of the first pages of a PDF for a DOI.

Examples:
  bibnorm doi extract paper.pdf
  bibnorm doi extract paper.pdf --pages 1`,
	Args: cobra.ExactArgs(1),
	Run:  runDOIExtract,
}

func init() {
	doiExtractCmd.Flags().IntVar(&doiExtractPages, "pages", pdf.DOIPages, "Number of pages to scan")
	doiCmd.AddCommand(doiParseCmd)
	doiCmd.AddCommand(doiExtractCmd)
	rootCmd.AddCommand(doiCmd)
}

// DOIResult is the response for doi parse and doi extract.
type DOIResult struct {
	Input string `json:"input"`
	Valid bool   `json:"valid"`
	DOI   string `json:"doi,omitempty"`
	URI   string `json:"uri,omitempty"`
}

func newDOIResult(input string, d doi.DOI, ok bool) DOIResult {
	r := DOIResult{Input: input, Valid: ok}
	if ok {
		r.DOI = d.String()
		r.URI = d.URI()
	}
	return r
}

func printDOIResult(r DOIResult) {
	if humanOutput {
		if !r.Valid {
			outputHuman("No DOI found in %s\n", r.Input)
			return
		}
		outputHuman("%s\n%s\n", r.DOI, r.URI)
		return
	}
	outputJSON(r)
}

func runDOIParse(cmd *cobra.Command, args []string) {
	d, ok := doi.Parse(args[0])
	printDOIResult(newDOIResult(args[0], d, ok))
	if !ok {
		os.Exit(ExitDataError)
	}
}

func runDOIExtract(cmd *cobra.Command, args []string) {
	if doiExtractPages <= 0 {
		exitWithError(ExitError, "--pages must be positive")
	}
	doc, err := pdf.Open(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}
	d, ok := doc.FindDOI(doiExtractPages)
	doc.Close()
	printDOIResult(newDOIResult(args[0], d, ok))
}
