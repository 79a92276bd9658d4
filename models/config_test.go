package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
reader_host: reader.internal.example
defaults:
  min_content_length: 250
  aggressive: true
  remove_selectors:
    - ".newsletter"
  cache_ttl: 30m
  max_concurrency: 8
site_rules:
  news.example.com:
    content_selector: ".story-body"
    remove_selectors:
      - ".paywall-banner"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.ReaderHost != "reader.internal.example" {
		t.Errorf("ReaderHost = %q", cfg.ReaderHost)
	}
	if cfg.Defaults.MinContentLength != 250 {
		t.Errorf("MinContentLength = %d", cfg.Defaults.MinContentLength)
	}
	if !cfg.Defaults.Aggressive {
		t.Error("Aggressive not loaded")
	}

	opts := cfg.ToOptions()
	if opts.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", opts.CacheTTL)
	}
	if opts.MaxConcurrency != 8 {
		t.Errorf("MaxConcurrency = %d", opts.MaxConcurrency)
	}
	rule := opts.RuleFor("news.example.com")
	if rule == nil || rule.ContentSelector != ".story-body" {
		t.Fatalf("site rule not converted: %+v", rule)
	}
	if len(rule.RemoveSelectors) != 1 || rule.RemoveSelectors[0] != ".paywall-banner" {
		t.Errorf("rule RemoveSelectors = %v", rule.RemoveSelectors)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file did not error")
	}
	if _, err := LoadConfig(writeConfig(t, "defaults: [not, a, map]")); err == nil {
		t.Error("malformed config did not error")
	}
}

func TestOptionsNormalized(t *testing.T) {
	opts := ExtractionOptions{}.Normalized()
	if opts.MinContentLength != DefaultMinContentLength {
		t.Errorf("MinContentLength = %d", opts.MinContentLength)
	}
	if opts.MaxConcurrency != DefaultMaxConcurrency {
		t.Errorf("MaxConcurrency = %d", opts.MaxConcurrency)
	}
	if opts.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v", opts.CacheTTL)
	}

	set := ExtractionOptions{MinContentLength: 10, MaxConcurrency: 2, CacheTTL: time.Minute}.Normalized()
	if set.MinContentLength != 10 || set.MaxConcurrency != 2 || set.CacheTTL != time.Minute {
		t.Errorf("explicit values overridden: %+v", set)
	}
}

func TestRuleFor(t *testing.T) {
	opts := ExtractionOptions{
		SiteRules: map[string]*SiteRule{"a.example.com": {ContentSelector: "#a"}},
	}
	if opts.RuleFor("a.example.com") == nil {
		t.Error("known hostname not matched")
	}
	if opts.RuleFor("b.example.com") != nil {
		t.Error("unknown hostname matched")
	}
	if opts.RuleFor("") != nil {
		t.Error("empty hostname matched")
	}
}
