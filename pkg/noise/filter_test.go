package noise

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/clipmark/article-extractor/models"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test markup: %v", err)
	}
	return doc
}

func TestFilterRemovesChrome(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		gone     string
		survives string
	}{
		{
			name:     "navigation",
			html:     `<nav>Home About Contact</nav><p>Article text here.</p>`,
			gone:     "nav",
			survives: "p",
		},
		{
			name:     "social widget",
			html:     `<div class="social-share">Share on X</div><p>Body.</p>`,
			gone:     ".social-share",
			survives: "p",
		},
		{
			name:     "comments",
			html:     `<div id="comments">Great post!</div><p>Body.</p>`,
			gone:     "#comments",
			survives: "p",
		},
		{
			name:     "hidden element",
			html:     `<div style="display:none">tracker</div><p>Body.</p>`,
			gone:     "div[style]",
			survives: "p",
		},
		{
			name:     "footer",
			html:     `<footer>Copyright 2026</footer><p>Body.</p>`,
			gone:     "footer",
			survives: "p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, tt.html)
			Filter(doc, models.ExtractionOptions{}.Normalized())
			if doc.Find(tt.gone).Length() != 0 {
				t.Errorf("expected %q to be removed", tt.gone)
			}
			if doc.Find(tt.survives).Length() == 0 {
				t.Errorf("expected %q to survive", tt.survives)
			}
		})
	}
}

func TestFilterProtectsSubstantiveContent(t *testing.T) {
	// An ad-classed wrapper around a long code block must survive: the
	// protection rule trumps the selector match.
	code := strings.Repeat("x := compute(y) // important\n", 8)
	html := `<div class="ad"><pre><code>` + code + `</code></pre></div>`
	doc := parseDoc(t, html)

	Filter(doc, models.ExtractionOptions{}.Normalized())

	if doc.Find("pre code").Length() == 0 {
		t.Fatal("code block inside ad-classed wrapper was removed")
	}
}

func TestFilterRemovesShortAdWithoutCode(t *testing.T) {
	doc := parseDoc(t, `<div class="ad">Buy now!</div><p>Body.</p>`)
	Filter(doc, models.ExtractionOptions{}.Normalized())
	if doc.Find(".ad").Length() != 0 {
		t.Error("short ad block without embedded content should be removed")
	}
}

func TestFilterPreservedClasses(t *testing.T) {
	doc := parseDoc(t, `<div class="related">Worth keeping</div>`)
	opts := models.ExtractionOptions{
		RemoveRecommendations: true,
		PreserveClasses:       []string{"related"},
	}.Normalized()
	Filter(doc, opts)
	if doc.Find(".related").Length() == 0 {
		t.Error("preserved class was removed")
	}
}

func TestFilterCommentToggle(t *testing.T) {
	doc := parseDoc(t, `<div class="comments">Nice article</div>`)
	Filter(doc, models.ExtractionOptions{PreserveComments: true}.Normalized())
	if doc.Find(".comments").Length() == 0 {
		t.Error("comments removed despite PreserveComments")
	}
}

func TestAggressiveDensityPass(t *testing.T) {
	// 60 link-words, no commas, one tag per word: a link farm.
	var b strings.Builder
	b.WriteString(`<div id="farm">`)
	for i := 0; i < 60; i++ {
		b.WriteString(`<a href="/x">word</a> `)
	}
	b.WriteString(`</div><p>Real text, with commas, stays.</p>`)
	doc := parseDoc(t, b.String())

	Filter(doc, models.ExtractionOptions{Aggressive: true}.Normalized())

	if doc.Find("#farm").Length() != 0 {
		t.Error("link farm survived aggressive pass")
	}
	if doc.Find("p").Length() == 0 {
		t.Error("normal paragraph removed by aggressive pass")
	}
}

func TestEmptyNodeSweep(t *testing.T) {
	doc := parseDoc(t, `<div><div><span>   </span></div></div><p>Body.</p>`)
	Filter(doc, models.ExtractionOptions{}.Normalized())
	if doc.Find("span").Length() != 0 {
		t.Error("empty span survived sweep")
	}
	if doc.Find("div").Length() != 0 {
		t.Error("empty nested divs survived sweep")
	}
	if doc.Find("p").Length() == 0 {
		t.Error("non-empty paragraph removed by sweep")
	}
}

func TestPostProcessText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "sharing prompt dropped",
			in:   "Real paragraph.\nShare this article on Facebook\nMore text.",
			want: "Real paragraph.\nMore text.",
		},
		{
			name: "html comment stripped",
			in:   "Before <!-- hidden --> after.",
			want: "Before  after.",
		},
		{
			name: "footnote markers stripped",
			in:   "Cited claim[1] and another[23].",
			want: "Cited claim and another.",
		},
		{
			name: "excess newlines collapsed",
			in:   "One.\n\n\n\nTwo.",
			want: "One.\n\nTwo.",
		},
		{
			name: "list markers normalized",
			in:   "* first\n* second",
			want: "- first\n- second",
		},
		{
			name: "heading space inserted",
			in:   "##Heading",
			want: "## Heading",
		},
		{
			name: "fence content untouched",
			in:   "```\nShare this article on Facebook\n```",
			want: "```\nShare this article on Facebook\n```",
		},
		{
			name: "fenced code keeps brackets and asterisks",
			in:   "```go\nfmt.Println(arr[0])\n* pointer deref\n```",
			want: "```go\nfmt.Println(arr[0])\n* pointer deref\n```",
		},
		{
			name: "markers normalized around a fence but not inside",
			in:   "Claim[2] here.\n\n```\nx[3] = y\n```\n\n* item",
			want: "Claim here.\n\n```\nx[3] = y\n```\n\n- item",
		},
		{
			name: "comment literal inside fence untouched",
			in:   "```html\n<!-- keep me -->\n```",
			want: "```html\n<!-- keep me -->\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PostProcessText(tt.in); got != tt.want {
				t.Errorf("PostProcessText() = %q, want %q", got, tt.want)
			}
		})
	}
}
