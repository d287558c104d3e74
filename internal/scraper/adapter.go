// internal/scraper/adapter.go
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/evscout/evscout/internal/sources"
	"github.com/evscout/evscout/internal/utils"
)

// SiteAdapter knows how one dealership platform exposes its new
// inventory. ListingURLs walks the index pages, consulting the site's
// robots policy before every fetch; ParseListingPage pulls detail-page
// links out of one index page.
type SiteAdapter interface {
	ListingURLs(ctx context.Context, src sources.Source, robots *RobotsPolicy) ([]string, error)
	ParseListingPage(doc *goquery.Document, base *url.URL) []string
}

// inventoryPaths are probed in order when a source has no explicit
// inventory URL. Dealer platforms (Dealer.com, DealerOn, Sincro) use a
// small set of path conventions.
var inventoryPaths = []string{
	"/new-inventory/index.htm",
	"/new-vehicles/",
	"/inventory/new",
	"/new-inventory/",
	"/inventory/?type=new",
	"/inventory/",
}

// cardSelectors locate detail links inside listing markup, tried in
// order until one matches.
var cardSelectors = []string{
	".vehicle-card a[href]",
	".inventory-listing a[href]",
	".srp-vehicle a[href]",
	"a.vehicle-title[href]",
	".vehicle-title a[href]",
	"h2 a[href], h3 a[href]",
}

// detailLinkHints mark URLs that point at a single-vehicle page.
var detailLinkHints = []string{"vin=", "/inventory/", "/vehicle/", "/new/", "vehicle-details"}

func looksLikeDetailLink(href string) bool {
	h := strings.ToLower(href)
	for _, hint := range detailLinkHints {
		if strings.Contains(h, hint) {
			return true
		}
	}
	return false
}

// GenericAdapter is the SiteAdapter used for every catalog source that
// has no bespoke adapter: probe for the inventory index, follow page
// parameters, and harvest card links with a link-pattern fallback.
type GenericAdapter struct {
	fetcher  Fetcher
	logger   utils.Logger
	maxPages int
}

// NewGenericAdapter builds the default adapter. maxPages bounds index
// pagination; zero means the production default of 5.
func NewGenericAdapter(f Fetcher, maxPages int, logger utils.Logger) *GenericAdapter {
	if maxPages <= 0 {
		maxPages = 5
	}
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &GenericAdapter{fetcher: f, logger: logger, maxPages: maxPages}
}

// ListingURLs returns the detail-page URLs of every vehicle the source
// lists, walking inventory index pages up to the pagination bound.
// Index and pagination URLs the robots policy forbids are never
// fetched.
func (a *GenericAdapter) ListingURLs(ctx context.Context, src sources.Source, robots *RobotsPolicy) ([]string, error) {
	indexURL, err := a.inventoryURL(ctx, src, robots)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(src.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("source %s has invalid base URL: %w", src.Name, err)
	}

	seen := make(map[string]bool)
	var all []string
	for page := 1; page <= a.maxPages; page++ {
		pageURL := indexURL
		if page > 1 {
			pageURL = withPageParam(indexURL, page)
		}
		if err := robots.Check(pageURL); err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}
		body, err := a.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetching inventory index: %w", err)
			}
			break
		}
		doc, err := Parse(body)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, link := range a.ParseListingPage(doc, base) {
			if !seen[link] {
				seen[link] = true
				all = append(all, link)
				added++
			}
		}
		a.logger.Debugf("%s: page %d yielded %d new listings", src.Name, page, added)
		if added == 0 {
			break
		}
	}
	return all, nil
}

// ParseListingPage extracts detail links from one index page: card
// selectors first, then any anchor whose URL looks like a vehicle
// detail page.
func (a *GenericAdapter) ParseListingPage(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string
	collect := func(s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
			if ref.Host != base.Host {
				return
			}
		}
		ref.Fragment = ""
		full := ref.String()
		if !seen[full] {
			seen[full] = true
			links = append(links, full)
		}
	}

	for _, sel := range cardSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) { collect(s) })
		if len(links) > 0 {
			return links
		}
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if looksLikeDetailLink(href) {
			collect(s)
		}
	})
	return links
}

// inventoryURL resolves where the source's new-vehicle index lives:
// the catalog's explicit URL when present, otherwise the first probed
// path that renders as an inventory page.
func (a *GenericAdapter) inventoryURL(ctx context.Context, src sources.Source, robots *RobotsPolicy) (string, error) {
	if src.InventoryURL != "" {
		return src.InventoryURL, nil
	}
	base := strings.TrimRight(src.BaseURL, "/")
	for _, path := range inventoryPaths {
		candidate := base + path
		if err := robots.Check(candidate); err != nil {
			a.logger.Debugf("%s: skipping probe %s: %v", src.Name, candidate, err)
			continue
		}
		body, err := a.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		doc, err := Parse(body)
		if err != nil {
			continue
		}
		if IsInventoryPage(doc) {
			a.logger.Debugf("%s: probed inventory index at %s", src.Name, candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no inventory index found for %s", src.Name)
}

func withPageParam(indexURL string, page int) string {
	u, err := url.Parse(indexURL)
	if err != nil {
		return indexURL
	}
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}
