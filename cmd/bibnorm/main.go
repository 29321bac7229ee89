// Package main provides the bibnorm CLI entry point.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/config"
	"github.com/Siedlerchr/jabref/internal/logger"
	"github.com/Siedlerchr/jabref/internal/storage"
	"github.com/Siedlerchr/jabref/internal/translate"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
	configPath  string

	cfg    *config.Config
	appLog *slog.Logger
)

func main() {
	// fang prints cobra errors itself and cancels the context on interrupt
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibnorm",
	Short: "Normalize bibliographic metadata into BibTeX entries",
	Long: `bibnorm turns metadata from bibliographic providers into canonical
BibTeX/biblatex entries.

Core features:
  - DOI parsing and extraction from PDFs
  - Open-access full-text lookup via oaDOI
  - Metadata fetch from doi.org
  - Provider translators (DOAJ bibJSON, Springer, CSL-JSON)
  - BibTeX conformance checks for biblatex-only fields

All commands output JSON by default for agent integration.
Use --human for human-readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/bibnorm/config.yml)")
}

// setup loads .env, the config file and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env file if present (for BIBNORM_* overrides)
	_ = godotenv.Load()

	var err error
	if configPath != "" {
		cfg, err = config.LoadPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	appLog = logger.New(level, os.Stderr)
	slog.SetDefault(appLog)
	return nil
}

// translateOptions builds translator options from the loaded config.
func translateOptions() translate.Options {
	return translate.Options{KeywordSeparator: cfg.Separator(), Logger: appLog}
}

// mustOpenCache opens the lookup cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenCache() *storage.DB {
	db, err := storage.OpenDB(cfg.CachePath)
	if err != nil {
		exitWithError(ExitConfigError, "opening cache: %v", err)
	}
	return db
}

// requestTimeout bounds a whole command's network work.
func requestTimeout() time.Duration {
	return 2 * cfg.TimeoutDuration()
}
