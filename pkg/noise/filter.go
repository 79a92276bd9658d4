// Package noise removes structural chrome (navigation, ads, social widgets,
// comments, footers, hidden nodes) from a parsed document and cleans
// boilerplate phrases out of final text.
package noise

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clipmark/article-extractor/models"
)

// protectedTextLength is the text size above which an element containing a
// code block, table, or image is never removed, even when a noise selector
// matches it.
const protectedTextLength = 100

// maxSweepIterations bounds the empty-node fixed-point sweep so pathological
// trees always terminate.
const maxSweepIterations = 10

// Filter removes noise elements from doc in place and returns it.
func Filter(doc *goquery.Document, opts models.ExtractionOptions) *goquery.Document {
	for _, sel := range scriptSelectors {
		doc.Find(sel).Remove()
	}

	groups := [][]string{
		navigationSelectors,
		sidebarSelectors,
		socialSelectors,
		adSelectors,
		footerSelectors,
		overlaySelectors,
		hiddenSelectors,
	}
	if !opts.PreserveComments {
		groups = append(groups, commentSelectors)
	}
	if opts.RemoveRecommendations && !opts.PreserveRelated {
		groups = append(groups, recommendationSelectors)
	}

	for _, group := range groups {
		for _, sel := range group {
			removeMatching(doc, sel, opts)
		}
	}
	for _, sel := range opts.RemoveSelectors {
		removeMatching(doc, sel, opts)
	}

	if opts.Aggressive {
		removeDenseLinkBlocks(doc)
	}

	sweepEmptyNodes(doc)
	return doc
}

func removeMatching(doc *goquery.Document, selector string, opts models.ExtractionOptions) {
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if isPreserved(s, opts.PreserveClasses) {
			return
		}
		if isProtected(s) {
			return
		}
		s.Remove()
	})
}

// isProtected reports whether s wraps substantive embedded content: a code
// block, table, or image plus more than protectedTextLength characters of
// text. Such nodes survive even over-broad selectors.
func isProtected(s *goquery.Selection) bool {
	if s.Find("pre, code, table, img").Length() == 0 {
		return false
	}
	return len(strings.TrimSpace(s.Text())) > protectedTextLength
}

func isPreserved(s *goquery.Selection, classes []string) bool {
	for _, c := range classes {
		if s.HasClass(c) {
			return true
		}
	}
	return false
}

// removeDenseLinkBlocks drops paragraph-like blocks whose shape signals
// link farms or navigation text: many words, few commas, and a tag count
// out of proportion to the word count.
func removeDenseLinkBlocks(doc *goquery.Document) {
	doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		if s.Find("img, video, audio, pre, code, table, blockquote").Length() > 0 {
			return
		}
		text := s.Text()
		words := len(strings.Fields(text))
		if words <= 50 {
			return
		}
		if strings.Count(text, ",") >= 2 {
			return
		}
		if s.Find("*").Length() > words/10 {
			s.Remove()
		}
	})
}

// sweepEmptyNodes repeatedly removes elements with no text and no media
// content until a fixed point, bounded by maxSweepIterations.
func sweepEmptyNodes(doc *goquery.Document) {
	sweepable := "p, div, span, section, article, aside, ul, ol, li, blockquote, figure, table, h1, h2, h3, h4, h5, h6"
	for i := 0; i < maxSweepIterations; i++ {
		removed := false
		doc.Find(sweepable).Each(func(_ int, s *goquery.Selection) {
			if strings.TrimSpace(s.Text()) != "" {
				return
			}
			if s.Find("img, video, audio, iframe, embed, object, picture, svg, hr").Length() > 0 {
				return
			}
			s.Remove()
			removed = true
		})
		if !removed {
			break
		}
	}
}
