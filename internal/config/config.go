package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults applied to unset values.
const (
	DefaultContactEmail     = "developers@jabref.org"
	DefaultKeywordSeparator = ","
	DefaultRateLimit        = 10.0
	DefaultTimeout          = "10s"
	DefaultLogLevel         = "info"
)

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validation errors.
var (
	ErrBadSeparator = errors.New("keyword_separator must be a single character")
	ErrBadTimeout   = errors.New("timeout must be a positive duration")
	ErrBadRateLimit = errors.New("rate_limit must not be negative")
	ErrBadLogLevel  = errors.New("invalid log_level")
)

func (c *Config) applyDefaults() {
	if c.ContactEmail == "" {
		c.ContactEmail = DefaultContactEmail
	}
	if c.KeywordSeparator == "" {
		c.KeywordSeparator = DefaultKeywordSeparator
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.CachePath == "" {
		if p := GlobalConfigPath(); p != "" {
			c.CachePath = filepath.Join(filepath.Dir(p), CacheFile)
		}
	}
	c.CachePath = ExpandPath(c.CachePath)
}

// Validate checks every value that has a restricted domain.
func (c *Config) Validate() error {
	if c.KeywordSeparator != "" && utf8.RuneCountInString(c.KeywordSeparator) != 1 {
		return fmt.Errorf("%w: %q", ErrBadSeparator, c.KeywordSeparator)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", ErrBadTimeout, c.Timeout)
		}
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %v", ErrBadRateLimit, c.RateLimit)
	}
	if c.LogLevel != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if strings.EqualFold(c.LogLevel, l) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: %s (valid: %v)", ErrBadLogLevel, c.LogLevel, ValidLogLevels)
		}
	}
	return nil
}

// Separator returns the keyword separator as a rune.
func (c *Config) Separator() rune {
	r, _ := utf8.DecodeRuneInString(c.KeywordSeparator)
	if r == utf8.RuneError {
		r, _ = utf8.DecodeRuneInString(DefaultKeywordSeparator)
	}
	return r
}

// TimeoutDuration returns the parsed HTTP timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
