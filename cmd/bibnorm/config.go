package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Siedlerchr/jabref/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  bibnorm config                            # Show effective config
  bibnorm config contact-email              # Get specific value
  bibnorm config contact-email me@uni.edu   # Set value
  bibnorm config keyword-separator ";"      # Set keyword separator

Keys:
  contact-email      Address sent to oaDOI with every lookup
  keyword-separator  Single character joining keywords
  rate-limit         Requests per second per service (0 disables limiting)
  timeout            HTTP timeout (e.g. 10s)
  cache-path         Lookup cache database
  log-level          debug, info, warn or error`,
	Args: cobra.MaximumNArgs(2),
	Run:  runConfig,
}

// ConfigResponse is the effective configuration.
type ConfigResponse struct {
	Path             string  `json:"path"`
	ContactEmail     string  `json:"contact_email"`
	KeywordSeparator string  `json:"keyword_separator"`
	RateLimit        float64 `json:"rate_limit"`
	Timeout          string  `json:"timeout"`
	CachePath        string  `json:"cache_path"`
	LogLevel         string  `json:"log_level"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func settingsPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GlobalConfigPath()
}

func runConfig(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		resp := ConfigResponse{
			Path:             settingsPath(),
			ContactEmail:     cfg.ContactEmail,
			KeywordSeparator: cfg.KeywordSeparator,
			RateLimit:        cfg.RateLimit,
			Timeout:          cfg.Timeout,
			CachePath:        cfg.CachePath,
			LogLevel:         cfg.LogLevel,
		}
		if humanOutput {
			writeTable(os.Stdout, []string{"KEY", "VALUE"}, [][]string{
				{"contact-email", resp.ContactEmail},
				{"keyword-separator", resp.KeywordSeparator},
				{"rate-limit", strconv.FormatFloat(resp.RateLimit, 'g', -1, 64)},
				{"timeout", resp.Timeout},
				{"cache-path", resp.CachePath},
				{"log-level", resp.LogLevel},
			})
			return
		}
		outputJSON(resp)
		return
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return
	}

	// Two args: set the value in the file, leaving defaults and
	// environment overrides out of it.
	path := settingsPath()
	stored, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := setConfigValue(stored, key, args[1]); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := stored.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := stored.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}
	config.ResetCache()

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, args[1])
		return
	}
	outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
}

// normalizeKey converts key formats (contact_email, Contact-Email) to contact-email.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}

func configValue(c *config.Config, key string) (string, bool) {
	switch key {
	case "contact-email":
		return c.ContactEmail, true
	case "keyword-separator":
		return c.KeywordSeparator, true
	case "rate-limit":
		return strconv.FormatFloat(c.RateLimit, 'g', -1, 64), true
	case "timeout":
		return c.Timeout, true
	case "cache-path":
		return c.CachePath, true
	case "log-level":
		return c.LogLevel, true
	}
	return "", false
}

func setConfigValue(c *config.Config, key, value string) error {
	switch key {
	case "contact-email":
		c.ContactEmail = value
	case "keyword-separator":
		c.KeywordSeparator = value
	case "rate-limit":
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", config.ErrBadRateLimit, value)
		}
		c.RateLimit = rps
	case "timeout":
		c.Timeout = value
	case "cache-path":
		c.CachePath = config.ExpandPath(value)
	case "log-level":
		c.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
