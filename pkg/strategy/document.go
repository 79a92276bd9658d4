package strategy

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/clipmark/article-extractor/models"
)

// containerSelectors is the ranked list of common content containers tried
// before falling back to the full body.
var containerSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".story-content",
	".content",
	"#content",
}

// Document extracts from an already-parsed in-memory document, for callers
// that hold one (e.g. a rendered page). Same pipeline as Local.
type Document struct {
	policy *bluemonday.Policy
}

func NewDocument() *Document {
	return &Document{policy: newSanitizePolicy()}
}

func (d *Document) Name() models.ExtractionMethod { return models.MethodLiveDocument }

func (d *Document) Priority() int { return 10 }

func (d *Document) Supports(input Input) bool {
	return input.Document != nil
}

func (d *Document) Extract(ctx context.Context, input Input, opts models.ExtractionOptions) (*models.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return runPipeline(input.Document, input, opts, d.policy, selectRankedContainer, d.Name())
}

// selectRankedContainer tries each known container selector in order and
// falls back to the body when none holds enough text.
func selectRankedContainer(doc *goquery.Document, opts models.ExtractionOptions) *goquery.Selection {
	for _, sel := range containerSelectors {
		candidate := doc.Find(sel).First()
		if candidate.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(candidate.Text())) >= opts.MinContentLength {
			return candidate
		}
	}
	body := doc.Find("body").First()
	if body.Length() > 0 && len(strings.TrimSpace(body.Text())) >= opts.MinContentLength {
		return body
	}
	return nil
}
