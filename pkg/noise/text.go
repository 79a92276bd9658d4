package noise

import (
	"regexp"
	"strings"
)

// Boilerplate phrase patterns stripped from final output. Applied line-wise,
// never inside code fences.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^share (this|on|via).*$`),
	regexp.MustCompile(`(?i)^click to share.*$`),
	regexp.MustCompile(`(?i)^follow us on.*$`),
	regexp.MustCompile(`(?i)^subscribe to (our|the) newsletter.*$`),
	regexp.MustCompile(`(?i)^sign up for (our|the).*$`),
	regexp.MustCompile(`(?i)^read more:?\s*$`),
	regexp.MustCompile(`(?i)^continue reading.*$`),
	regexp.MustCompile(`(?i)^advertisement\s*$`),
	regexp.MustCompile(`(?i)^sponsored content\s*$`),
	regexp.MustCompile(`(?i)^this article (originally|first) appeared.*$`),
	regexp.MustCompile(`(?i)^(photo|image) (credit|courtesy).*$`),
	regexp.MustCompile(`(?i)^all rights reserved\.?\s*$`),
}

var (
	htmlCommentRe    = regexp.MustCompile(`<!--.*?-->`)
	footnoteMarkerRe = regexp.MustCompile(`\[\d+\]`)
	listMarkerRe     = regexp.MustCompile(`(?m)^(\s*)[*+] `)
	headingSpaceRe   = regexp.MustCompile(`(?m)^(#{1,6})([^#\s])`)
)

// PostProcessText strips boilerplate phrases and normalizes whitespace,
// list, and heading formatting. Lines inside code fences pass through
// untouched. Pure; safe to call repeatedly.
func PostProcessText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	inFence := false
	blankRun := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			blankRun = 0
			kept = append(kept, line)
			continue
		}
		if inFence {
			kept = append(kept, line)
			continue
		}
		drop := false
		for _, re := range boilerplatePatterns {
			if re.MatchString(trimmed) {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		line = htmlCommentRe.ReplaceAllString(line, "")
		line = footnoteMarkerRe.ReplaceAllString(line, "")
		line = listMarkerRe.ReplaceAllString(line, "${1}- ")
		line = headingSpaceRe.ReplaceAllString(line, "$1 $2")
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
