package strategy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/clipmark/article-extractor/models"
)

// DefaultReaderHost is the default remote document-reading endpoint. The
// service fetches a target page and returns it already rendered as markdown.
const DefaultReaderHost = "r.jina.ai"

const (
	remoteTimeout    = 45 * time.Second
	titleTruncateLen = 100
)

// Remote delegates fetch and extraction to an external reader endpoint. It
// has the highest priority among URL-capable strategies, so it is tried
// first when available.
type Remote struct {
	client *http.Client
	host   string
}

func NewRemote(host string) *Remote {
	if host == "" {
		host = DefaultReaderHost
	}
	return &Remote{
		client: &http.Client{Timeout: remoteTimeout},
		host:   host,
	}
}

func (r *Remote) Name() models.ExtractionMethod { return models.MethodRemoteReader }

func (r *Remote) Priority() int { return 30 }

func (r *Remote) Supports(input Input) bool {
	return input.Document == nil && isAbsoluteHTTPURL(input.Text)
}

func (r *Remote) Extract(ctx context.Context, input Input, opts models.ExtractionOptions) (*models.ExtractedContent, error) {
	target := strings.TrimSpace(input.Text)

	base := r.host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.WrapError(models.ErrInvalidURL, target, "failed to build reader request", err)
	}
	req.Header.Set("Accept", "text/markdown")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, models.WrapError(models.ErrFetchFailed, target, "reader request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewError(models.ErrFetchFailed, target,
			fmt.Sprintf("reader returned status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.WrapError(models.ErrFetchFailed, target, "failed to read reader response", err)
	}

	body := stripServiceMetadata(string(raw))
	if strings.TrimSpace(body) == "" {
		return nil, models.NewError(models.ErrNoContent, target, "reader returned an empty document")
	}

	return &models.ExtractedContent{
		Title:    deriveTitle(body, target),
		Body:     body,
		Kind:     models.KindStructuredDocument,
		Metadata: scoreMetadata(body, r.Name()),
	}, nil
}

// serviceMetadataRe matches header lines the reader service injects before
// the document proper.
var serviceMetadataRe = regexp.MustCompile(`^(Title|URL Source|Published Time|Markdown Content|Warning):`)

func stripServiceMetadata(body string) string {
	lines := strings.Split(body, "\n")
	start := 0
	for start < len(lines) {
		trimmed := strings.TrimSpace(lines[start])
		if trimmed == "" || serviceMetadataRe.MatchString(trimmed) {
			start++
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

// deriveTitle walks the fallback chain: first top-level heading, first
// heading of any level, first substantial paragraph, then a title
// synthesized from the URL.
func deriveTitle(markdown, rawURL string) string {
	var anyHeading, firstParagraph string

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
		if anyHeading == "" && strings.HasPrefix(trimmed, "#") {
			anyHeading = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			continue
		}
		if firstParagraph == "" && len(trimmed) >= 30 && !strings.HasPrefix(trimmed, "#") &&
			!strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "|") &&
			!strings.HasPrefix(trimmed, ">") && !strings.HasPrefix(trimmed, "!") {
			firstParagraph = trimmed
		}
	}

	if anyHeading != "" {
		return anyHeading
	}
	if firstParagraph != "" {
		return truncate(firstParagraph, titleTruncateLen)
	}
	return titleFromURL(rawURL)
}

// truncate cuts s to at most max bytes on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}

// titleFromURL de-slugifies the last path segment, or falls back to the
// hostname when the path is empty.
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segment := path.Base(strings.TrimRight(u.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return u.Hostname()
	}
	if ext := path.Ext(segment); ext != "" {
		segment = strings.TrimSuffix(segment, ext)
	}
	segment = strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	segment = strings.Join(strings.Fields(segment), " ")
	if segment == "" {
		return u.Hostname()
	}
	return titleCase(segment)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
