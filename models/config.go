// Package models defines the data types shared by the extraction pipeline.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteRuleConfig is the YAML-loadable subset of SiteRule. Hooks can only be
// attached in code.
type SiteRuleConfig struct {
	ContentSelector string   `yaml:"content_selector"`
	RemoveSelectors []string `yaml:"remove_selectors"`
}

// Config holds CLI/runtime defaults loaded from a YAML file.
type Config struct {
	ReaderHost string `yaml:"reader_host"`

	Defaults struct {
		MinContentLength      int      `yaml:"min_content_length"`
		Aggressive            bool     `yaml:"aggressive"`
		RemoveRecommendations bool     `yaml:"remove_recommendations"`
		PreserveComments      bool     `yaml:"preserve_comments"`
		PreserveRelated       bool     `yaml:"preserve_related"`
		RemoveSelectors       []string `yaml:"remove_selectors"`
		CacheTTL              string   `yaml:"cache_ttl"`
		MaxConcurrency        int      `yaml:"max_concurrency"`
	} `yaml:"defaults"`

	SiteRules map[string]SiteRuleConfig `yaml:"site_rules"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// ToOptions converts loaded defaults into ExtractionOptions.
func (c *Config) ToOptions() ExtractionOptions {
	opts := ExtractionOptions{
		MinContentLength:      c.Defaults.MinContentLength,
		Aggressive:            c.Defaults.Aggressive,
		RemoveRecommendations: c.Defaults.RemoveRecommendations,
		PreserveComments:      c.Defaults.PreserveComments,
		PreserveRelated:       c.Defaults.PreserveRelated,
		RemoveSelectors:       c.Defaults.RemoveSelectors,
		MaxConcurrency:        c.Defaults.MaxConcurrency,
		CacheEnabled:          true,
	}
	if c.Defaults.CacheTTL != "" {
		if ttl, err := time.ParseDuration(c.Defaults.CacheTTL); err == nil {
			opts.CacheTTL = ttl
		}
	}
	if len(c.SiteRules) > 0 {
		opts.SiteRules = make(map[string]*SiteRule, len(c.SiteRules))
		for host, rc := range c.SiteRules {
			opts.SiteRules[host] = &SiteRule{
				ContentSelector: rc.ContentSelector,
				RemoveSelectors: rc.RemoveSelectors,
			}
		}
	}
	return opts.Normalized()
}
