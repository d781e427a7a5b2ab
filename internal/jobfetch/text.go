package jobfetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

const blockElements = "p, li, ul, ol, div, h1, h2, h3, h4, h5, h6, tr"

// selectionText flattens markup to text with one line per block element.
func selectionText(sel *goquery.Selection) string {
	sel = sel.Clone()
	sel.Find("script, style, button").Remove()
	sel.Find("br").ReplaceWithHtml("\n")
	sel.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		if line = CleanText(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
