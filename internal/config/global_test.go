package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/bibnorm/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "bibnorm", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

// isolate points the config at an empty temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	ResetCache()
	t.Cleanup(ResetCache)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvEmail, "")
	t.Setenv(EnvCache, "")
	t.Setenv(EnvLogLevel, "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContactEmail != DefaultContactEmail {
		t.Errorf("ContactEmail = %q", cfg.ContactEmail)
	}
	if cfg.Separator() != ',' {
		t.Errorf("Separator = %q", cfg.Separator())
	}
	if cfg.RateLimit != DefaultRateLimit {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
	if cfg.TimeoutDuration() != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.TimeoutDuration())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if want := filepath.Join(dir, "bibnorm", CacheFile); cfg.CachePath != want {
		t.Errorf("CachePath = %q, want %q", cfg.CachePath, want)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bibnorm", "config.yml")
	file := &Config{
		ContactEmail:     "file@example.org",
		KeywordSeparator: ";",
		RateLimit:        2,
		Timeout:          "30s",
		LogLevel:         "debug",
	}
	if err := file.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv(EnvEmail, "env@example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContactEmail != "env@example.org" {
		t.Errorf("env should override file, got %q", cfg.ContactEmail)
	}
	if cfg.Separator() != ';' || cfg.RateLimit != 2 || cfg.TimeoutDuration() != 30*time.Second || cfg.LogLevel != "debug" {
		t.Errorf("file values not loaded: %+v", cfg)
	}
}

func TestLoad_Cached(t *testing.T) {
	isolate(t)
	first, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvEmail, "later@example.org")
	second, _ := Load()
	if first != second || second.ContactEmail == "later@example.org" {
		t.Error("Load should return the cached config until ResetCache")
	}
	ResetCache()
	third, _ := Load()
	if third.ContactEmail != "later@example.org" {
		t.Errorf("after reset ContactEmail = %q", third.ContactEmail)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bibnorm", "config.yml")
	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("contact_email: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "elsewhere.yml")
	if err := (&Config{Timeout: "bogus"}).Save(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPath(path); !errors.Is(err, ErrBadTimeout) {
		t.Errorf("LoadPath error = %v, want ErrBadTimeout", err)
	}

	if err := (&Config{RateLimit: 3}).Save(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if cfg.RateLimit != 3 || cfg.ContactEmail != DefaultContactEmail {
		t.Errorf("LoadPath = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"ok", Config{KeywordSeparator: ";", Timeout: "5s", LogLevel: "WARN"}, nil},
		{"long separator", Config{KeywordSeparator: ", "}, ErrBadSeparator},
		{"bad timeout", Config{Timeout: "soon"}, ErrBadTimeout},
		{"negative timeout", Config{Timeout: "-1s"}, ErrBadTimeout},
		{"negative rate", Config{RateLimit: -1}, ErrBadRateLimit},
		{"bad level", Config{LogLevel: "loud"}, ErrBadLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got := ExpandPath("~/cache.db"); got != filepath.Join(home, "cache.db") {
		t.Errorf("ExpandPath(~/cache.db) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
}
