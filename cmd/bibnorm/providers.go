package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/translate"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the provider translators",
	Args:  cobra.NoArgs,
	Run:   runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// ProviderInfo describes one registered translator.
type ProviderInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func runProviders(cmd *cobra.Command, args []string) {
	reg := translate.Default()
	var providers []ProviderInfo
	for _, name := range reg.Names() {
		t, err := reg.Get(name)
		if err != nil {
			continue
		}
		providers = append(providers, ProviderInfo{Name: t.Name(), Description: t.Description()})
	}

	if humanOutput {
		rows := make([][]string, len(providers))
		for i, p := range providers {
			rows[i] = []string{p.Name, p.Description}
		}
		writeTable(os.Stdout, []string{"NAME", "DESCRIPTION"}, rows)
		return
	}
	outputJSON(providers)
}
