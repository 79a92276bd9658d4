package models

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Defaults applied by ExtractionOptions.Normalized.
const (
	DefaultMinContentLength = 100
	DefaultMaxConcurrency   = 5
	DefaultCacheTTL         = time.Hour
)

// SiteRule is a per-hostname override applied before generic filtering.
type SiteRule struct {
	// ContentSelector, when set, names the primary content container and
	// short-circuits candidate scoring.
	ContentSelector string `yaml:"content_selector" json:"content_selector,omitempty"`

	// RemoveSelectors are removed in addition to the built-in noise library.
	RemoveSelectors []string `yaml:"remove_selectors" json:"remove_selectors,omitempty"`

	// Transform runs against the parsed document before any filtering.
	Transform func(*goquery.Document) `yaml:"-" json:"-"`

	// PostExtract runs against the finished result before it is returned.
	PostExtract func(*ExtractedContent) `yaml:"-" json:"-"`
}

// ExtractionOptions is a per-call configuration value. It is passed by value
// into every extraction entry point; there is no ambient configuration state.
type ExtractionOptions struct {
	MinContentLength      int
	PreserveClasses       []string
	RemoveRecommendations bool
	Aggressive            bool
	PreserveComments      bool
	PreserveRelated       bool
	RemoveSelectors       []string
	SiteRules             map[string]*SiteRule
	PlainText             bool

	CacheEnabled   bool
	CacheTTL       time.Duration
	MaxConcurrency int

	OnProgress func(ExtractionProgress)
	OnError    func(*ExtractionError)
}

// Normalized returns a copy with zero values replaced by defaults.
func (o ExtractionOptions) Normalized() ExtractionOptions {
	if o.MinContentLength <= 0 {
		o.MinContentLength = DefaultMinContentLength
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	return o
}

// RuleFor looks up the site rule for a hostname, if any.
func (o ExtractionOptions) RuleFor(hostname string) *SiteRule {
	if hostname == "" || len(o.SiteRules) == 0 {
		return nil
	}
	return o.SiteRules[hostname]
}

// Stage names a phase of the extraction pipeline for progress reporting.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageParsing    Stage = "parsing"
	StageFiltering  Stage = "filtering"
	StageConverting Stage = "converting"
	StageComplete   Stage = "complete"
)

// ExtractionProgress is an immutable snapshot emitted via OnProgress.
// Callbacks are best-effort and never affect control flow.
type ExtractionProgress struct {
	Stage        Stage  `json:"stage"`
	Percent      int    `json:"percent"` // 0-100
	Message      string `json:"message"`
	CurrentInput string `json:"current_input"`
}

// BatchFailure pairs a failed input with its error.
type BatchFailure struct {
	Input string           `json:"input"`
	Error *ExtractionError `json:"error"`
}

// BatchExtractionResult reports the outcome of a batch run. Per-item failures
// are captured here; a batch call itself never fails.
type BatchExtractionResult struct {
	Successful         []*ExtractedContent `json:"successful"`
	Failed             []BatchFailure      `json:"failed"`
	TotalProcessed     int                 `json:"total_processed"`
	TotalElapsedMillis int64               `json:"total_elapsed_millis"`
}
