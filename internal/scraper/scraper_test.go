// internal/scraper/scraper_test.go
package scraper

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/evscout/evscout/internal/sources"
)

// mapFetcher serves pages from memory and records every URL asked of
// it. URLs outside the map return an error like a dead link would.
type mapFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

func (m *mapFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, url)
	m.mu.Unlock()
	if body, ok := m.pages[url]; ok {
		return body, nil
	}
	return "", fmt.Errorf("no page at %s", url)
}

func (m *mapFetcher) saw(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.fetched {
		if u == url {
			return true
		}
	}
	return false
}

func detailPageHTML(title, price string) string {
	return fmt.Sprintf(`<html><body>
<h1>%s</h1>
<div>Sale Price: %s</div>
</body></html>`, title, price)
}

func TestScrapeSourceEndToEnd(t *testing.T) {
	const site = "https://dealer.example.com"
	f := &mapFetcher{pages: map[string]string{
		site + "/robots.txt": "User-agent: *\nDisallow: /inventory/blocked",
		site + "/new-inventory/": `<html><body>
<div class="vehicle-card"><a href="/inventory/ev6">2025 Kia EV6</a></div>
<div class="vehicle-card"><a href="/inventory/ioniq5">2025 Hyundai IONIQ 5</a></div>
<div class="vehicle-card"><a href="/inventory/blocked">hidden</a></div>
</body></html>`,
		site + "/inventory/ev6":    detailPageHTML("2025 Kia EV6 Wind", "$52,000"),
		site + "/inventory/ioniq5": detailPageHTML("2025 Hyundai IONIQ 5 SEL", "$42,500"),
	}}

	src := sources.Source{
		ID:           "dealer_example",
		Name:         "Example EV Dealer",
		BaseURL:      site,
		InventoryURL: site + "/new-inventory/",
		City:         "Portland",
	}

	s := NewScraper(f, nil, nil)
	records, err := s.ScrapeSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ScrapeSource: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].Make != "Kia" || records[0].Model != "EV6 Wind" {
		t.Errorf("first record = %q %q", records[0].Make, records[0].Model)
	}
	if records[1].Make != "Hyundai" {
		t.Errorf("second record make = %q", records[1].Make)
	}
	for _, r := range records {
		if r.DealerName != src.Name || r.DealerCity != "Portland" || r.DealerState != "OR" {
			t.Errorf("record provenance = %q %q %q", r.DealerName, r.DealerCity, r.DealerState)
		}
	}

	if f.saw(site + "/inventory/blocked") {
		t.Error("robots-disallowed listing was fetched")
	}
}

func TestScrapeSourceRobotsBlocksInventory(t *testing.T) {
	const site = "https://dealer.example.com"
	f := &mapFetcher{pages: map[string]string{
		site + "/robots.txt": "User-agent: *\nDisallow: /",
	}}
	src := sources.Source{
		ID:           "dealer_example",
		Name:         "Example EV Dealer",
		BaseURL:      site,
		InventoryURL: site + "/new-inventory/",
		City:         "Portland",
	}

	_, err := NewScraper(f, nil, nil).ScrapeSource(context.Background(), src)
	if err == nil {
		t.Fatal("expected policy-denial error")
	}
}

func TestScrapeSourceRobotsGatesInventoryProbes(t *testing.T) {
	const site = "https://dealer.example.com"
	inventoryPage := `<html><head><title>New Inventory | Example EV Dealer</title></head><body>
<div class="vehicle-card"><a href="/inventory/ev6">2025 Kia EV6 $52,000</a></div>
<div class="vehicle-card"><a href="/inventory/ioniq5">2025 Hyundai IONIQ 5 $42,500</a></div>
</body></html>`
	f := &mapFetcher{pages: map[string]string{
		site + "/robots.txt": "User-agent: *\n" +
			"Disallow: /new-inventory/\n" +
			"Disallow: /new-vehicles/\n" +
			"Disallow: /inventory/new",
		site + "/inventory/?type=new": inventoryPage,
		site + "/inventory/ev6":       detailPageHTML("2025 Kia EV6 Wind", "$52,000"),
		site + "/inventory/ioniq5":    detailPageHTML("2025 Hyundai IONIQ 5 SEL", "$42,500"),
	}}

	// No explicit inventory URL: the adapter probes for the index
	// and must skip every disallowed path without fetching it.
	src := sources.Source{
		ID:      "dealer_example",
		Name:    "Example EV Dealer",
		BaseURL: site,
		City:    "Portland",
	}

	records, err := NewScraper(f, nil, nil).ScrapeSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ScrapeSource: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	for _, blocked := range []string{
		site + "/new-inventory/index.htm",
		site + "/new-vehicles/",
		site + "/inventory/new",
		site + "/new-inventory/",
	} {
		if f.saw(blocked) {
			t.Errorf("robots-disallowed probe %s was fetched", blocked)
		}
	}
	if !f.saw(site + "/inventory/?type=new") {
		t.Error("allowed inventory probe was never fetched")
	}
}

func TestScrapeSourceSkipsBrokenDetailPages(t *testing.T) {
	const site = "https://dealer.example.com"
	f := &mapFetcher{pages: map[string]string{
		site + "/new-inventory/": `<html><body>
<div class="vehicle-card"><a href="/inventory/good">2025 Kia EV9</a></div>
<div class="vehicle-card"><a href="/inventory/dead">gone</a></div>
</body></html>`,
		site + "/inventory/good": detailPageHTML("2025 Kia EV9 Light", "$56,000"),
	}}
	src := sources.Source{
		ID:           "dealer_example",
		Name:         "Example EV Dealer",
		BaseURL:      site,
		InventoryURL: site + "/new-inventory/",
		City:         "Vancouver WA",
	}

	records, err := NewScraper(f, nil, nil).ScrapeSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ScrapeSource: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want the one reachable listing", len(records))
	}
	if records[0].DealerState != "WA" {
		t.Errorf("DealerState = %q, want WA", records[0].DealerState)
	}
}
