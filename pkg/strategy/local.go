package strategy

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"github.com/clipmark/article-extractor/models"
	"github.com/clipmark/article-extractor/pkg/fetcher"
)

// Local is the structural-extraction strategy. It accepts raw markup strings
// directly and URLs by fetching the page first, then parses the markup, runs
// the full filtering pipeline, scores candidate blocks for main content, and
// converts the winner to markdown.
type Local struct {
	policy  *bluemonday.Policy
	fetcher *fetcher.Fetcher
}

func NewLocal() *Local {
	return &Local{
		policy:  newSanitizePolicy(),
		fetcher: fetcher.NewFetcher(),
	}
}

func (l *Local) Name() models.ExtractionMethod { return models.MethodLocalStructural }

func (l *Local) Priority() int { return 20 }

func (l *Local) Supports(input Input) bool {
	if input.Document != nil {
		return false
	}
	return isAbsoluteHTTPURL(input.Text) || looksLikeMarkup(input.Text)
}

func (l *Local) Extract(ctx context.Context, input Input, opts models.ExtractionOptions) (*models.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawHTML := input.Text
	sourceURL := input.SourceURL
	if isAbsoluteHTTPURL(input.Text) {
		body, err := l.fetcher.Get(ctx, strings.TrimSpace(input.Text))
		if err != nil {
			return nil, err
		}
		rawHTML = string(body)
		sourceURL = strings.TrimSpace(input.Text)
		input.SourceURL = sourceURL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.WrapError(models.ErrParseFailed, input.Describe(), "failed to parse markup", err)
	}

	result, err := runPipeline(doc, input, opts, l.policy, scoreCandidates, l.Name())
	if err != nil {
		return nil, err
	}

	enrichFromReadability(result, rawHTML, sourceURL)
	return result, nil
}

// enrichFromReadability fills author and published date from go-readability
// when the raw markup and a source URL are available. Failures are ignored;
// enrichment is best-effort.
func enrichFromReadability(result *models.ExtractedContent, rawHTML, sourceURL string) {
	if sourceURL == "" {
		return
	}
	u, err := url.Parse(sourceURL)
	if err != nil || !u.IsAbs() {
		return
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return
	}
	if result.Metadata.Author == "" {
		result.Metadata.Author = strings.TrimSpace(article.Byline)
	}
	if result.Metadata.PublishedDate == "" && article.PublishedTime != nil {
		result.Metadata.PublishedDate = article.PublishedTime.Format(time.RFC3339)
	}
	if result.Title == "" {
		result.Title = strings.TrimSpace(article.Title)
	}
}
