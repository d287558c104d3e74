// internal/extractor/prices.go
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/evscout/evscout/internal/patterns"
)

// Keyword classes for price context classification, checked in this
// priority order when a context window carries several of them.
var (
	msrpKeywords  = []string{"msrp", "manufacturer", "sticker", "retail"}
	saleKeywords  = []string{"sale", "our price", "internet", "e-price", "dealer price", "special"}
	totalKeywords = []string{"total", "final", "out the door", "otd"}
)

// contextWindow is how far around a dollar amount the classifier looks
// for a qualifying keyword.
const contextWindow = 50

// Prices holds the classified price candidates for one page.
type Prices struct {
	MSRP      *float64
	SalePrice *float64
	Total     *float64
}

var pagePriceRegex = regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+(?:\.[0-9]{2})?)`)

// extractPrices collects every dollar amount on the page plus every
// keyword-tagged price element and classifies each by its surrounding
// text. MSRP candidates keep the maximum seen (strikethrough pages
// list the sticker price highest), sale candidates keep the minimum,
// total takes the last occurrence, and unclassified amounts become the
// sale price only when none is set yet. A missing total defaults to
// the sale price.
func extractPrices(doc *goquery.Document) Prices {
	pageText := doc.Text()
	var p Prices

	classify := func(amount float64, context string) {
		ctx := strings.ToLower(context)
		switch {
		case containsAny(ctx, msrpKeywords):
			if p.MSRP == nil || amount > *p.MSRP {
				p.MSRP = &amount
			}
		case containsAny(ctx, saleKeywords):
			if p.SalePrice == nil || amount < *p.SalePrice {
				p.SalePrice = &amount
			}
		case containsAny(ctx, totalKeywords):
			p.Total = &amount
		default:
			if p.SalePrice == nil {
				p.SalePrice = &amount
			}
		}
	}

	// Dollar amounts in document order, each with its +-50 char
	// context window.
	for _, loc := range pagePriceRegex.FindAllStringSubmatchIndex(pageText, -1) {
		raw := pageText[loc[2]:loc[3]]
		value, ok := patterns.ParsePriceInt(raw)
		if !ok || value <= 0 {
			continue
		}
		start := loc[0] - contextWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextWindow
		if end > len(pageText) {
			end = len(pageText)
		}
		classify(float64(value), pageText[start:end])
	}

	// Keyword-tagged elements catch prices rendered without a dollar
	// sign; the element's own text is the classification context.
	for _, sel := range findFieldElements(doc, "price") {
		text := strings.TrimSpace(sel.Text())
		value := elementPrice(text)
		if value <= 0 {
			continue
		}
		classify(value, text)
	}

	if p.Total == nil && p.SalePrice != nil {
		p.Total = p.SalePrice
	}
	return p
}

// elementPrice parses a price from element text: regex form first,
// then a loose strip of currency formatting.
func elementPrice(text string) float64 {
	if raw := patterns.ExtractPrice(text); raw != "" {
		if v, ok := patterns.ParsePriceInt(raw); ok {
			return float64(v)
		}
	}
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	if v, ok := patterns.ParsePriceInt(b.String()); ok {
		return float64(v)
	}
	return 0
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
