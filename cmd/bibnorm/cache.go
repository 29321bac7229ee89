package main

import (
	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/doi"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the lookup cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	Run:   runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached lookup",
	Args:  cobra.NoArgs,
	Run:   runCacheClear,
}

var cacheForgetCmd = &cobra.Command{
	Use:   "forget <doi>",
	Short: "Remove the cached open-access lookup for a DOI",
	Args:  cobra.ExactArgs(1),
	Run:   runCacheForget,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheForgetCmd)
	rootCmd.AddCommand(cacheCmd)
}

// CacheInfo is the response for cache info.
type CacheInfo struct {
	Path      string `json:"path"`
	Locations int    `json:"locations"`
}

func runCacheInfo(cmd *cobra.Command, args []string) {
	db := mustOpenCache()
	defer db.Close()

	n, err := db.CountLocations()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	info := CacheInfo{Path: cfg.CachePath, Locations: n}
	if humanOutput {
		outputHuman("Cache: %s\nOpen-access lookups: %d\n", info.Path, info.Locations)
		return
	}
	outputJSON(info)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	db := mustOpenCache()
	defer db.Close()

	if err := db.Clear(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		outputHuman("Cleared %s\n", cfg.CachePath)
		return
	}
	outputJSON(StatusResponse{Status: "cleared", Path: cfg.CachePath})
}

func runCacheForget(cmd *cobra.Command, args []string) {
	d, ok := doi.Parse(args[0])
	if !ok {
		exitWithError(ExitDataError, "not a DOI: %s", args[0])
	}

	db := mustOpenCache()
	defer db.Close()

	removed, err := db.DeleteLocation(d.String())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	status := "not_cached"
	if removed {
		status = "removed"
	}
	if humanOutput {
		outputHuman("%s: %s\n", d, status)
		return
	}
	outputJSON(StatusResponse{Status: status})
}
