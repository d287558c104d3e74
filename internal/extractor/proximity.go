// internal/extractor/proximity.go
package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/evscout/evscout/internal/patterns"
)

// findFieldElements returns every element whose text contains one of
// the field's keywords. This is the last-resort strategy: dealer
// platforms that defeat the regexes usually still label their spec
// tables with these words.
func findFieldElements(doc *goquery.Document, field string) []*goquery.Selection {
	var matches []*goquery.Selection
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if patterns.ContainsKeyword(text, field) {
			matches = append(matches, s)
		}
	})
	return matches
}

// extractFieldValue locates a labeled value for the field: first a
// "Label: value" run in the page text, then definition lists and
// label/sibling pairs, then th/td table rows.
func extractFieldValue(doc *goquery.Document, field string) string {
	keywords := patterns.Keywords(field)
	if len(keywords) == 0 {
		return ""
	}

	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		escaped = append(escaped, regexp.QuoteMeta(kw))
	}
	labelRe, err := regexp.Compile(fmt.Sprintf(`(?i)(%s)\s*:?\s*([^\n\r<]+)`, strings.Join(escaped, "|")))
	if err == nil {
		if m := labelRe.FindStringSubmatch(doc.Text()); m != nil {
			value := patterns.CollapseSpaces(m[2])
			if value != "" && !isKeyword(value, keywords) {
				return value
			}
		}
	}

	// Definition lists and label/value sibling pairs.
	var value string
	doc.Find("dt, th, label").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !patterns.ContainsKeyword(strings.TrimSpace(s.Text()), field) {
			return true
		}
		if next := s.NextAllFiltered("dd, td, span, div").First(); next.Length() > 0 {
			if v := strings.TrimSpace(next.Text()); v != "" {
				value = v
				return false
			}
		}
		return true
	})
	if value != "" {
		return value
	}

	// Table rows with a th header and td cells.
	doc.Find("th").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !patterns.ContainsKeyword(strings.TrimSpace(s.Text()), field) {
			return true
		}
		if td := s.Closest("tr").Find("td").First(); td.Length() > 0 {
			if v := strings.TrimSpace(td.Text()); v != "" {
				value = v
				return false
			}
		}
		return true
	})
	return value
}

func isKeyword(value string, keywords []string) bool {
	for _, kw := range keywords {
		if value == kw {
			return true
		}
	}
	return false
}
