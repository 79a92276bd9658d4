// Package strategy holds the pluggable extraction implementations. Every
// strategy drives the same downstream pipeline (noise filter, paragraph
// optimizer, markdown converter, metadata scoring) so results are comparable
// regardless of which one served them.
package strategy

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clipmark/article-extractor/models"
)

// Strategy is one pluggable extraction implementation. The manager holds an
// ordered collection of these and tries them by descending priority.
type Strategy interface {
	Name() models.ExtractionMethod
	Priority() int
	Supports(input Input) bool
	Extract(ctx context.Context, input Input, opts models.ExtractionOptions) (*models.ExtractedContent, error)
}

// Input is either a string (URL or raw markup) or an already-parsed document.
// SourceURL is an optional hint used for site-rule lookup and relative URL
// resolution when the input itself is not a URL.
type Input struct {
	Text      string
	Document  *goquery.Document
	SourceURL string
}

// FromString wraps a URL or raw markup string.
func FromString(s string) Input {
	return Input{Text: s}
}

// FromMarkup wraps raw markup with a source URL hint.
func FromMarkup(markup, sourceURL string) Input {
	return Input{Text: markup, SourceURL: sourceURL}
}

// FromDocument wraps an already-parsed in-memory document.
func FromDocument(doc *goquery.Document, sourceURL string) Input {
	return Input{Document: doc, SourceURL: sourceURL}
}

// Describe returns a short identifier for logs, progress, and errors.
func (in Input) Describe() string {
	switch {
	case in.Document != nil && in.SourceURL != "":
		return in.SourceURL
	case in.Document != nil:
		return "live document"
	case isAbsoluteHTTPURL(in.Text):
		return in.Text
	case in.SourceURL != "":
		return in.SourceURL
	default:
		return "inline markup"
	}
}

// CacheText returns the normalized input string used for cache keying, or ""
// when the input cannot be keyed (a live document without a source URL).
func (in Input) CacheText() string {
	if in.Document != nil {
		return in.SourceURL
	}
	if isAbsoluteHTTPURL(in.Text) {
		return strings.TrimSpace(in.Text)
	}
	return in.Text
}

func isAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func looksLikeMarkup(s string) bool {
	t := strings.TrimSpace(s)
	return strings.Contains(t, "<") && strings.Contains(t, ">")
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
