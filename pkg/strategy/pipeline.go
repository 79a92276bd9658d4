package strategy

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/clipmark/article-extractor/models"
	"github.com/clipmark/article-extractor/pkg/markdown"
	"github.com/clipmark/article-extractor/pkg/noise"
	"github.com/clipmark/article-extractor/pkg/paragraph"
)

// newSanitizePolicy builds the allow-list applied to the surviving subtree
// before conversion. Everything not listed here is dropped.
func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"pre", "code", "blockquote", "cite",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"strong", "em", "b", "i", "del", "s", "sup", "sub",
		"figure", "figcaption", "br", "hr", "span",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "data-src", "data-lazy-src", "data-original", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("class").OnElements("code", "pre", "span")
	p.AllowAttrs("cite").OnElements("blockquote")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("start").OnElements("ol")
	return p
}

// selectFunc picks the main content container from a filtered document, or
// returns nil when no candidate qualifies.
type selectFunc func(doc *goquery.Document, opts models.ExtractionOptions) *goquery.Selection

// runPipeline executes the shared document pipeline: site rule, noise filter,
// paragraph optimizer, content selection, sanitization, conversion, and
// metadata scoring.
func runPipeline(
	doc *goquery.Document,
	input Input,
	opts models.ExtractionOptions,
	policy *bluemonday.Policy,
	selectContent selectFunc,
	method models.ExtractionMethod,
) (*models.ExtractedContent, error) {
	described := input.Describe()

	rule := opts.RuleFor(hostnameOf(input.SourceURL))
	if rule != nil {
		if rule.Transform != nil {
			rule.Transform(doc)
		}
		if len(rule.RemoveSelectors) > 0 {
			merged := make([]string, 0, len(opts.RemoveSelectors)+len(rule.RemoveSelectors))
			merged = append(merged, opts.RemoveSelectors...)
			merged = append(merged, rule.RemoveSelectors...)
			opts.RemoveSelectors = merged
		}
	}

	noise.Filter(doc, opts)
	paragraph.Optimize(doc)

	var content *goquery.Selection
	if rule != nil && rule.ContentSelector != "" {
		if sel := doc.Find(rule.ContentSelector).First(); sel.Length() > 0 {
			content = sel
		}
	}
	if content == nil {
		content = selectContent(doc, opts)
	}
	if content == nil {
		return nil, models.NewError(models.ErrNoContent, described, "no content block met the minimum length threshold")
	}

	title := extractTitle(doc, content)

	var body string
	kind := models.KindStructuredDocument
	if opts.PlainText {
		body = noise.PostProcessText(plainText(content))
		kind = models.KindPlainText
	} else {
		rawHTML, err := goquery.OuterHtml(content)
		if err != nil {
			return nil, models.WrapError(models.ErrParseFailed, described, "failed to serialize content", err)
		}
		md, err := markdown.Convert(policy.Sanitize(rawHTML), input.SourceURL)
		if err != nil {
			return nil, models.WrapError(models.ErrParseFailed, described, "failed to convert content", err)
		}
		body = noise.PostProcessText(md)
	}

	if body == "" {
		return nil, models.NewError(models.ErrNoContent, described, "extraction produced an empty body")
	}

	result := &models.ExtractedContent{
		Title:    title,
		Body:     body,
		Kind:     kind,
		Metadata: scoreMetadata(body, method),
	}
	if rule != nil && rule.PostExtract != nil {
		rule.PostExtract(result)
	}
	return result, nil
}

// extractTitle prefers explicit page metadata, then the first heading.
func extractTitle(doc *goquery.Document, content *goquery.Selection) string {
	if t, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := doc.Find("meta[name='twitter:title']").Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return normalizeText(t)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return normalizeText(t)
	}
	return normalizeText(content.Find("h1, h2").First().Text())
}

// scoreCandidates ranks candidate blocks by text mass against tag and link
// density, honoring the minimum length from options.
func scoreCandidates(doc *goquery.Document, opts models.ExtractionOptions) *goquery.Selection {
	var best *goquery.Selection
	bestScore := 0.0

	doc.Find("article, main, [role='main'], section, div, body").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) < opts.MinContentLength {
			return
		}

		textLen := float64(len(text))
		linkLen := 0.0
		s.Find("a").Each(func(_ int, a *goquery.Selection) {
			linkLen += float64(len(strings.TrimSpace(a.Text())))
		})
		linkDensity := linkLen / textLen
		tagCount := float64(s.Find("*").Length())
		paraCount := float64(s.Find("p").Length())

		score := textLen*(1.0-linkDensity) + paraCount*30 - tagCount*2
		if score > bestScore {
			bestScore = score
			best = s
		}
	})

	return best
}

// plainText flattens the content subtree to text while keeping block
// boundaries as blank lines.
func plainText(content *goquery.Selection) string {
	var b strings.Builder
	content.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) != "pre" {
			text = normalizeText(text)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	})
	if b.Len() == 0 {
		return normalizeText(content.Text())
	}
	return b.String()
}

// normalizeText collapses whitespace runs in visible text.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
