// Package paragraph repairs paragraphs fragmented by upstream markup, merging
// adjacent blocks that read as a single sentence or thought.
package paragraph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// shortParagraphLength is the ceiling under which two adjacent fragments are
// considered mergeable continuations.
const shortParagraphLength = 50

// Optimize merges adjacent <p> pairs in place. After a merge the adjacency
// check re-runs at the same index so multi-way merges cascade.
func Optimize(doc *goquery.Document) *goquery.Document {
	paragraphs := doc.Find("p").Nodes
	i := 0
	for i < len(paragraphs)-1 {
		a := doc.FindNodes(paragraphs[i])
		b := doc.FindNodes(paragraphs[i+1])

		if !adjacent(a, b) || !shouldMerge(a.Text(), b.Text()) {
			i++
			continue
		}

		aHTML, errA := a.Html()
		bHTML, errB := b.Html()
		if errA != nil || errB != nil {
			i++
			continue
		}
		a.SetHtml(strings.TrimRight(aHTML, " ") + " " + strings.TrimLeft(bHTML, " "))
		b.Remove()

		// Drop b and re-check the merged paragraph against its new neighbor.
		paragraphs = append(paragraphs[:i+1], paragraphs[i+2:]...)
	}
	return doc
}

// adjacent reports whether b is the next element sibling of a.
func adjacent(a, b *goquery.Selection) bool {
	next := a.Next()
	return next.Length() > 0 && b.Length() > 0 && next.Nodes[0] == b.Nodes[0]
}

func shouldMerge(aText, bText string) bool {
	aText = strings.TrimSpace(aText)
	bText = strings.TrimSpace(bText)
	if aText == "" || bText == "" {
		return false
	}

	// Quoted speech split by markup: closing quote meets opening quote.
	if endsWithClosingQuote(aText) && startsWithOpeningQuote(bText) {
		return true
	}

	if len(aText) >= shortParagraphLength || len(bText) >= shortParagraphLength {
		return false
	}
	first, _ := utf8.DecodeRuneInString(bText)
	if !unicode.IsLower(first) {
		return false
	}
	return !endsTerminally(aText) || endsWithSoftSeparator(aText)
}

func endsTerminally(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	switch last {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func endsWithSoftSeparator(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	switch last {
	case ',', ':', ';', '-', '–', '—':
		return true
	}
	return false
}

func endsWithClosingQuote(s string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	switch last {
	case '"', '\'', '”', '’', '»':
		return true
	}
	return false
}

func startsWithOpeningQuote(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	switch first {
	case '"', '\'', '“', '‘', '«':
		return true
	}
	return false
}
