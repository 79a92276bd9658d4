// Package markdown converts a sanitized HTML subtree into the canonical
// document dialect. Conversion is pure and deterministic for a given tree.
package markdown

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

type converter struct {
	base *url.URL
}

// Convert turns an HTML fragment into markdown. Relative image and link
// targets are resolved against baseURL when provided. When the rule set
// yields an empty document the generic html-to-markdown converter is used
// as a fallback.
func Convert(htmlInput, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlInput))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	c := &converter{}
	if baseURL != "" {
		if base, err := url.Parse(baseURL); err == nil && base.IsAbs() {
			c.base = base
		}
	}

	out := tidy(c.renderBlocks(doc.Find("body")))
	if out == "" {
		fallback, fbErr := htmltomarkdown.ConvertString(htmlInput)
		if fbErr == nil {
			return strings.TrimSpace(fallback), nil
		}
	}
	return out, nil
}

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "pre": true, "blockquote": true,
	"table": true, "figure": true, "hr": true, "div": true, "section": true,
	"article": true, "main": true, "aside": true, "header": true,
	"footer": true, "dl": true,
}

// renderBlocks walks the children of s, flushing runs of inline content as
// paragraphs and dispatching block elements to their rewrite rules.
func (c *converter) renderBlocks(s *goquery.Selection) string {
	var blocks []string
	var inline strings.Builder

	flush := func() {
		text := strings.TrimSpace(inline.String())
		inline.Reset()
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			inline.WriteString(collapseSpace(child.Text()))
		case blockTags[name]:
			flush()
			if b := c.renderBlock(name, child); b != "" {
				blocks = append(blocks, b)
			}
		case name == "img":
			flush()
			if img := c.renderImage(child); img != "" {
				blocks = append(blocks, img)
			}
		default:
			inline.WriteString(c.renderInlineElement(name, child))
		}
	})
	flush()

	return strings.Join(blocks, "\n\n")
}

func (c *converter) renderBlock(name string, s *goquery.Selection) string {
	switch name {
	case "p":
		return strings.TrimSpace(c.renderInline(s))
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(name[1] - '0')
		text := strings.TrimSpace(c.renderInline(s))
		if text == "" {
			return ""
		}
		return strings.Repeat("#", level) + " " + text
	case "ul":
		return c.renderList(s, false, "")
	case "ol":
		return c.renderList(s, true, "")
	case "pre":
		return c.renderCodeBlock(s)
	case "blockquote":
		return c.renderBlockquote(s)
	case "table":
		return c.renderTable(s)
	case "figure":
		return c.renderFigure(s)
	case "hr":
		return "---"
	default:
		// Generic containers recurse.
		return c.renderBlocks(s)
	}
}

// renderInline flattens the inline content of an element.
func (c *converter) renderInline(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		if name == "#text" {
			b.WriteString(collapseSpace(child.Text()))
			return
		}
		b.WriteString(c.renderInlineElement(name, child))
	})
	return b.String()
}

func (c *converter) renderInlineElement(name string, s *goquery.Selection) string {
	switch name {
	case "strong", "b":
		return wrapNonEmpty(strings.TrimSpace(c.renderInline(s)), "**")
	case "em", "i":
		return wrapNonEmpty(strings.TrimSpace(c.renderInline(s)), "*")
	case "del", "s", "strike":
		return wrapNonEmpty(strings.TrimSpace(c.renderInline(s)), "~~")
	case "sup":
		return wrapNonEmpty(strings.TrimSpace(c.renderInline(s)), "^")
	case "sub":
		return wrapNonEmpty(strings.TrimSpace(c.renderInline(s)), "~")
	case "code":
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return ""
		}
		return "`" + text + "`"
	case "a":
		return c.renderLink(s)
	case "img":
		return c.renderImage(s)
	case "span":
		if isMathSpan(s) {
			return "$" + strings.TrimSpace(s.Text()) + "$"
		}
		return c.renderInline(s)
	case "br":
		return "\n"
	default:
		return c.renderInline(s)
	}
}

func wrapNonEmpty(text, marker string) string {
	if text == "" {
		return ""
	}
	return marker + text + marker
}

// mathClasses marks spans carrying math content by class-name convention.
var mathClasses = []string{"math", "katex", "mathjax", "latex", "tex"}

func isMathSpan(s *goquery.Selection) bool {
	class := strings.ToLower(s.AttrOr("class", ""))
	for _, m := range mathClasses {
		if strings.Contains(class, m) {
			return true
		}
	}
	return false
}

func (c *converter) renderLink(s *goquery.Selection) string {
	text := strings.TrimSpace(c.renderInline(s))
	href := strings.TrimSpace(s.AttrOr("href", ""))

	// Dead targets render as plain text.
	if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return text
	}
	resolved := stripTrackingParams(c.resolve(href))
	if text == "" {
		return ""
	}
	if text == href || text == resolved {
		return "<" + resolved + ">"
	}
	return "[" + text + "](" + resolved + ")"
}

func (c *converter) renderImage(s *goquery.Selection) string {
	// Deferred-load attributes win over the immediate src, which is often a
	// placeholder on lazy-loading pages.
	src := ""
	for _, attr := range []string{"data-src", "data-lazy-src", "data-original", "src"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			break
		}
	}
	if src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "blob:") {
		return ""
	}
	src = c.resolve(src)

	alt := escapeImageText(s.AttrOr("alt", ""))
	title := escapeImageText(s.AttrOr("title", ""))

	dims := ""
	if w, h, ok := imageDimensions(s); ok {
		dims = fmt.Sprintf(" =%dx%d", w, h)
	}

	if title != "" {
		return "![" + alt + "](" + src + " \"" + title + "\"" + dims + ")"
	}
	return "![" + alt + "](" + src + dims + ")"
}

func imageDimensions(s *goquery.Selection) (int, int, bool) {
	w, okW := s.Attr("width")
	h, okH := s.Attr("height")
	if !okW || !okH {
		return 0, 0, false
	}
	wn, errW := strconv.Atoi(strings.TrimSpace(w))
	hn, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || wn <= 0 || hn <= 0 {
		return 0, 0, false
	}
	return wn, hn, true
}

func (c *converter) renderBlockquote(s *goquery.Selection) string {
	inner := c.renderBlocks(s)
	if inner == "" {
		inner = strings.TrimSpace(c.renderInline(s))
	}
	if inner == "" {
		return ""
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	out := strings.Join(lines, "\n")
	if cite := strings.TrimSpace(s.AttrOr("cite", "")); cite != "" {
		out += "\n> — " + cite
	}
	return out
}

func (c *converter) renderFigure(s *goquery.Selection) string {
	var parts []string
	s.Find("img").Each(func(_ int, img *goquery.Selection) {
		if rendered := c.renderImage(img); rendered != "" {
			parts = append(parts, rendered)
		}
	})
	if caption := strings.TrimSpace(s.Find("figcaption").Text()); caption != "" {
		parts = append(parts, "*"+collapseSpace(caption)+"*")
	}
	return strings.Join(parts, "\n\n")
}

func (c *converter) renderList(s *goquery.Selection, ordered bool, indent string) string {
	var lines []string
	idx := 1
	if start, ok := s.Attr("start"); ok {
		if n, err := strconv.Atoi(start); err == nil && n > 0 {
			idx = n
		}
	}

	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		marker := "- "
		if ordered {
			marker = strconv.Itoa(idx) + ". "
			idx++
		}

		var text strings.Builder
		var nested []string
		li.Contents().Each(func(_ int, child *goquery.Selection) {
			switch name := goquery.NodeName(child); name {
			case "ul":
				nested = append(nested, c.renderList(child, false, indent+"  "))
			case "ol":
				nested = append(nested, c.renderList(child, true, indent+"  "))
			case "#text":
				text.WriteString(collapseSpace(child.Text()))
			case "p", "div":
				text.WriteString(" " + strings.TrimSpace(c.renderInline(child)))
			default:
				text.WriteString(c.renderInlineElement(name, child))
			}
		})

		lines = append(lines, indent+marker+strings.TrimSpace(text.String()))
		for _, n := range nested {
			if n != "" {
				lines = append(lines, n)
			}
		}
	})

	return strings.Join(lines, "\n")
}

func (c *converter) resolve(ref string) string {
	if c.base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil || parsed.IsAbs() {
		return ref
	}
	return c.base.ResolveReference(parsed).String()
}

var spaceRe = regexp.MustCompile(`[ \t\r\n]+`)

func collapseSpace(s string) string {
	return spaceRe.ReplaceAllString(s, " ")
}

var escapeReplacer = strings.NewReplacer(
	`"`, "'",
	"[", `\[`,
	"]", `\]`,
	"\n", " ",
)

func escapeImageText(s string) string {
	return escapeReplacer.Replace(strings.TrimSpace(s))
}

var excessBlankRe = regexp.MustCompile(`\n{3,}`)

func tidy(s string) string {
	return strings.TrimSpace(excessBlankRe.ReplaceAllString(s, "\n\n"))
}
