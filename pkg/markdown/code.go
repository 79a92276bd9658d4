package markdown

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// renderCodeBlock converts a <pre> block into a fenced code block, detecting
// the language from class names first and content shape second.
func (c *converter) renderCodeBlock(s *goquery.Selection) string {
	lang := langFromClass(s.AttrOr("class", ""))
	source := s
	if code := s.Find("code").First(); code.Length() > 0 {
		source = code
		if l := langFromClass(code.AttrOr("class", "")); l != "" {
			lang = l
		}
	}

	content := nodeText(source.Nodes[0])
	content = stripLineNumbers(content)
	content = strings.Trim(content, "\n")
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if lang == "" {
		lang = sniffLanguage(content)
	}
	return "```" + lang + "\n" + content + "\n```"
}

// classLangRe matches the common language class conventions:
// language-x, lang-x, and the legacy brush:x syntax highlighter form.
var classLangRe = regexp.MustCompile(`(?:language-|lang-|brush:\s*)([A-Za-z0-9#+-]+)`)

func langFromClass(class string) string {
	m := classLangRe.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// lineNumberRe matches leading line-number decorations some highlighters
// leave in copied markup, e.g. "1. ", "02: ", "3) ".
var lineNumberRe = regexp.MustCompile(`^\s*\d+[.:)|]?\s`)

// stripLineNumbers removes leading line numbers when the large majority of
// non-empty lines carry them; otherwise the content is left untouched.
func stripLineNumbers(content string) string {
	lines := strings.Split(content, "\n")
	nonEmpty, numbered := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonEmpty++
		if lineNumberRe.MatchString(line) {
			numbered++
		}
	}
	if nonEmpty < 2 || numbered*10 < nonEmpty*8 {
		return content
	}
	for i, line := range lines {
		lines[i] = lineNumberRe.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

type sniffer struct {
	lang  string
	match func(string) bool
}

var (
	jsonShapeRe   = regexp.MustCompile(`"[^"]+"\s*:`)
	htmlTagRe     = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	cssRuleRe     = regexp.MustCompile(`[.#]?[\w-]+\s*\{[^}]*:[^}]*\}`)
	sqlRe         = regexp.MustCompile(`(?is)\b(select\s.+\sfrom\s|insert\s+into\s|create\s+table\s|update\s.+\sset\s)`)
	pythonDefRe   = regexp.MustCompile(`(?m)^\s*def\s+\w+\(.*\)\s*:`)
	pythonImpRe   = regexp.MustCompile(`(?m)^(from\s+[\w.]+\s+)?import\s+[\w.,\s]+$`)
	shellPromptRe = regexp.MustCompile(`(?m)^\s*(\$\s|sudo\s|apt(-get)?\s|curl\s|echo\s|cd\s|mkdir\s)`)
	yamlKeyRe     = regexp.MustCompile(`(?m)^[\w-]+:\s+\S`)
)

// contentSniffers run in order; the first match wins. Shapes are chosen to be
// cheap and hard to confuse rather than exhaustive.
var contentSniffers = []sniffer{
	{"json", func(s string) bool {
		t := strings.TrimSpace(s)
		return (strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")) && jsonShapeRe.MatchString(t)
	}},
	{"html", func(s string) bool {
		return strings.HasPrefix(strings.TrimSpace(s), "<") && htmlTagRe.MatchString(s)
	}},
	{"css", func(s string) bool { return cssRuleRe.MatchString(s) }},
	{"sql", func(s string) bool { return sqlRe.MatchString(s) }},
	{"go", func(s string) bool {
		return strings.Contains(s, "func ") && (strings.Contains(s, ":=") || strings.Contains(s, "package ") || strings.Contains(s, "fmt."))
	}},
	{"python", func(s string) bool { return pythonDefRe.MatchString(s) || pythonImpRe.MatchString(s) }},
	{"javascript", func(s string) bool {
		return strings.Contains(s, "=>") || strings.Contains(s, "function ") ||
			strings.Contains(s, "const ") || strings.Contains(s, "console.log")
	}},
	{"bash", func(s string) bool {
		return strings.HasPrefix(strings.TrimSpace(s), "#!") || shellPromptRe.MatchString(s)
	}},
	{"yaml", func(s string) bool {
		return len(yamlKeyRe.FindAllString(s, 2)) >= 2 && !strings.ContainsAny(s, "{};")
	}},
}

func sniffLanguage(content string) string {
	for _, sn := range contentSniffers {
		if sn.match(content) {
			return sn.lang
		}
	}
	return ""
}
