// Package config handles the global bibnorm configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/bibnorm/config.yml.
type Config struct {
	ContactEmail     string  `yaml:"contact_email,omitempty"`
	KeywordSeparator string  `yaml:"keyword_separator,omitempty"`
	RateLimit        float64 `yaml:"rate_limit,omitempty"`
	Timeout          string  `yaml:"timeout,omitempty"`
	CachePath        string  `yaml:"cache_path,omitempty"`
	LogLevel         string  `yaml:"log_level,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bibnorm"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the default cache database name under the config dir.
	CacheFile = "cache.db"
)

// Environment variables that override the file.
const (
	EnvEmail    = "BIBNORM_EMAIL"
	EnvCache    = "BIBNORM_CACHE"
	EnvLogLevel = "BIBNORM_LOG_LEVEL"
)

var (
	cacheMu     sync.Mutex
	globalCache *Config
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibnorm/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load loads the global configuration with defaults and environment
// overrides applied. A missing file is not an error. The result is cached
// until ResetCache is called.
func Load() (*Config, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if globalCache != nil {
		return globalCache, nil
	}

	cfg, err := LoadPath(GlobalConfigPath())
	if err != nil {
		return nil, err
	}

	globalCache = cfg
	return cfg, nil
}

// LoadPath is Load for an explicit config file, without caching.
func LoadPath(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one YAML config file without defaults or environment.
// An empty path or a missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResetCache clears the cached global config.
// Useful for testing.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	globalCache = nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEmail); v != "" {
		c.ContactEmail = v
	}
	if v := os.Getenv(EnvCache); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}
