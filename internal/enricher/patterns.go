package enricher

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// page is the fetched vote page in both parsed and raw form. doc is nil when
// the HTML could not be parsed; strategies must tolerate that.
type page struct {
	doc *goquery.Document
	raw string
}

// strategy extracts one field from a page, returning "" when it cannot.
// Strategies are pure and tried in order per field; the first non-empty
// value wins. Fields fall back independently of each other.
type strategy func(p page) string

var questionStrategies = []strategy{
	definitionLookup("QUESTION"),
	labelPattern(`(?i)QUESTION:\s*([^\n\r<]+)`),
	labelPattern(`(?i)<b>\s*QUESTION\s*:?\s*</b>\s*([^\n\r<]+)`),
}

var billTitleStrategies = []strategy{
	definitionLookup("BILL TITLE"),
	labelPattern(`(?i)BILL TITLE:\s*([^\n\r<]+)`),
	labelPattern(`(?i)\bTITLE:\s*([^\n\r<]+)`),
}

// extract runs the strategies in order and returns the first non-empty value.
func extract(strategies []strategy, p page) string {
	for _, s := range strategies {
		if v := s(p); v != "" {
			return v
		}
	}
	return ""
}

// definitionLookup matches a <dt> whose text equals the label and returns the
// text of the following <dd>.
func definitionLookup(label string) strategy {
	return func(p page) string {
		if p.doc == nil {
			return ""
		}
		value := ""
		p.doc.Find("dt").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !strings.EqualFold(normalizeWhitespace(sel.Text()), label) {
				return true
			}
			value = normalizeWhitespace(sel.NextFiltered("dd").Text())
			return value == ""
		})
		return value
	}
}

// labelPattern matches a "LABEL: value" line in the raw HTML.
func labelPattern(expr string) strategy {
	re := regexp.MustCompile(expr)
	return func(p page) string {
		m := re.FindStringSubmatch(p.raw)
		if m == nil {
			return ""
		}
		return normalizeWhitespace(m[1])
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// normalizeWhitespace collapses runs of whitespace and trims the result, so
// an all-whitespace extraction counts as absent.
func normalizeWhitespace(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}
