// internal/scraper/parser.go
package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/evscout/evscout/internal/patterns"
)

// Parse turns raw HTML into a goquery document.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Links returns every anchor href on the page resolved against base,
// deduplicated, in document order. Fragment-only and javascript links
// are dropped.
func Links(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		ref.Fragment = ""
		full := ref.String()
		if !seen[full] {
			seen[full] = true
			links = append(links, full)
		}
	})
	return links
}

// IsInventoryPage reports whether the page looks like a vehicle
// listing index rather than a landing or error page: several priced
// items, or several listing-shaped links, or an inventory-titled page
// with at least one price.
func IsInventoryPage(doc *goquery.Document) bool {
	text := doc.Text()
	priceCount := len(patterns.ExtractAllPrices(text))
	if priceCount >= 3 {
		return true
	}

	listingLinks := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if looksLikeDetailLink(href) {
			listingLinks++
		}
	})
	if listingLinks >= 3 {
		return true
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	return strings.Contains(title, "inventory") && priceCount > 0
}
