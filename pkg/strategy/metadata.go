package strategy

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pemistahl/lingua-go"

	"github.com/clipmark/article-extractor/models"
)

const wordsPerMinute = 225

// minWordsForLanguage guards against detecting a language from a handful of
// ambiguous words.
const minWordsForLanguage = 20

var (
	imageRe    = regexp.MustCompile(`!\[[^\]]*\]\(`)
	linkRe     = regexp.MustCompile(`[^!]\[[^\]]*\]\(|^\[[^\]]*\]\(`)
	autolinkRe = regexp.MustCompile(`<https?://[^>\s]+>`)
	headingRe  = regexp.MustCompile(`(?m)^#{1,6} `)
)

// scoreMetadata computes quality metadata from a final body. All strategies
// share this so their results are comparable.
func scoreMetadata(body string, method models.ExtractionMethod) models.ContentMetadata {
	prose := stripCodeFences(body)
	words := len(strings.Fields(prose))

	readingTime := 0
	if words > 0 {
		readingTime = (words + wordsPerMinute - 1) / wordsPerMinute
	}

	codeBlocks := strings.Count(body, "```") / 2
	images := len(imageRe.FindAllString(body, -1))
	links := len(linkRe.FindAllString(body, -1)) + len(autolinkRe.FindAllString(body, -1))
	headings := len(headingRe.FindAllString(body, -1))
	paragraphs := countParagraphs(body)

	meta := models.ContentMetadata{
		WordCount:          words,
		ReadingTimeMinutes: readingTime,
		ImageCount:         images,
		LinkCount:          links,
		CodeBlockCount:     codeBlocks,
		SourceQuality:      deriveQuality(words, headings, paragraphs),
		ExtractedAt:        time.Now().UnixMilli(),
		ExtractionMethod:   method,
	}
	if words >= minWordsForLanguage {
		meta.Language = detectLanguage(prose)
	}
	return meta
}

// deriveQuality grades a body: long structured articles are high, very short
// or structureless blobs are low, everything else medium.
func deriveQuality(words, headings, paragraphs int) models.SourceQuality {
	structured := headings > 0 || paragraphs >= 3
	switch {
	case words < 200 || !structured:
		return models.QualityLow
	case words >= 800 && structured:
		return models.QualityHigh
	default:
		return models.QualityMedium
	}
}

func countParagraphs(body string) int {
	count := 0
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") || strings.HasPrefix(block, "```") {
			continue
		}
		count++
	}
	return count
}

func stripCodeFences(body string) string {
	var b strings.Builder
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if !inFence {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

var (
	linguaOnce     sync.Once
	linguaDetector lingua.LanguageDetector
)

// detectLanguage returns a lowercase ISO-639-1 code, or "" when detection is
// not confident. The detector is built once; constructing lingua models is
// expensive.
func detectLanguage(text string) string {
	linguaOnce.Do(func() {
		linguaDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Spanish, lingua.French, lingua.German,
				lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Russian,
				lingua.Japanese, lingua.Chinese,
			).
			Build()
	})
	if len(text) > 4096 {
		text = text[:4096]
	}
	lang, ok := linguaDetector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
