package markdown

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const spanCaveat = "*Note: table cells spanning rows or columns were simplified.*"

// renderTable converts a table to the pipe dialect. Spanning cells are
// flattened into the non-spanning structure and a visible caveat is appended.
func (c *converter) renderTable(s *goquery.Selection) string {
	var headers []string
	headerRow := s.Find("thead tr").First()
	if headerRow.Length() == 0 {
		headerRow = s.Find("tr").First()
	}
	headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, c.renderCell(cell))
	})
	if len(headers) == 0 {
		return ""
	}

	var rows [][]string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Nodes[0] == headerRow.Nodes[0] {
			return
		}
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, c.renderCell(cell))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		for len(row) < len(headers) {
			row = append(row, "")
		}
		b.WriteString("| " + strings.Join(row[:len(headers)], " | ") + " |\n")
	}

	out := strings.TrimRight(b.String(), "\n")
	if hasSpanningCells(s) {
		out += "\n\n" + spanCaveat
	}
	return out
}

func (c *converter) renderCell(cell *goquery.Selection) string {
	text := strings.TrimSpace(c.renderInline(cell))
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", `\|`)
}

// hasSpanningCells inspects cell attributes at the node level; a span of "1"
// is not a real span.
func hasSpanningCells(s *goquery.Selection) bool {
	spanning := false
	s.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		for _, attr := range cell.Nodes[0].Attr {
			if attr.Key != "colspan" && attr.Key != "rowspan" {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && n > 1 {
				spanning = true
				return false
			}
		}
		return true
	})
	return spanning
}

// nodeText collects raw text under n without allocating a selection.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for ch := cur.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}
