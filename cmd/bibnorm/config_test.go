package main

import (
	"errors"
	"testing"

	"github.com/Siedlerchr/jabref/internal/config"
)

func TestNormalizeKey(t *testing.T) {
	for _, in := range []string{"contact-email", "contact_email", "Contact_Email", "CONTACT-EMAIL"} {
		if got := normalizeKey(in); got != "contact-email" {
			t.Errorf("normalizeKey(%q) = %q", in, got)
		}
	}
}

func TestSetConfigValue(t *testing.T) {
	c := &config.Config{}
	sets := map[string]string{
		"contact-email":     "me@example.org",
		"keyword-separator": ";",
		"rate-limit":        "2.5",
		"timeout":           "30s",
		"log-level":         "DEBUG",
	}
	for k, v := range sets {
		if err := setConfigValue(c, k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	checks := map[string]string{
		"contact-email":     "me@example.org",
		"keyword-separator": ";",
		"rate-limit":        "2.5",
		"timeout":           "30s",
		"log-level":         "debug",
	}
	for k, want := range checks {
		if got, ok := configValue(c, k); !ok || got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestSetConfigValue_Errors(t *testing.T) {
	c := &config.Config{}
	if err := setConfigValue(c, "rate-limit", "fast"); !errors.Is(err, config.ErrBadRateLimit) {
		t.Errorf("rate-limit error = %v", err)
	}
	if err := setConfigValue(c, "pdf-root", "/x"); err == nil {
		t.Error("unknown key accepted")
	}
	if _, ok := configValue(c, "pdf-root"); ok {
		t.Error("configValue accepted unknown key")
	}
}
