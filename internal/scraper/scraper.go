// internal/scraper/scraper.go
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/evscout/evscout/internal/extractor"
	"github.com/evscout/evscout/internal/sources"
	"github.com/evscout/evscout/internal/utils"
	"github.com/evscout/evscout/internal/vehicle"
)

// Scraper walks one dealership source end to end: robots gate,
// listing discovery, detail-page extraction.
type Scraper struct {
	fetcher Fetcher
	adapter SiteAdapter
	logger  utils.Logger

	// MaxListings bounds detail fetches per source; zero means no
	// bound.
	MaxListings int
}

// NewScraper wires a scraper from its collaborators. A nil adapter
// gets the generic one.
func NewScraper(f Fetcher, adapter SiteAdapter, logger utils.Logger) *Scraper {
	if logger == nil {
		logger = utils.NewLogger()
	}
	if adapter == nil {
		adapter = NewGenericAdapter(f, 0, logger)
	}
	return &Scraper{fetcher: f, adapter: adapter, logger: logger}
}

// ScrapeSource returns every vehicle record extractable from the
// source's new inventory. Individual detail pages that fail to fetch
// or parse are logged and skipped; the error return covers failures
// that prevent any listing discovery at all.
func (s *Scraper) ScrapeSource(ctx context.Context, src sources.Source) ([]*vehicle.Record, error) {
	robots := FetchRobots(ctx, s.fetcher, src.BaseURL, s.logger)

	indexTarget := src.InventoryURL
	if indexTarget == "" {
		indexTarget = src.BaseURL
	}
	if err := robots.Check(indexTarget); err != nil {
		return nil, err
	}

	listingURLs, err := s.adapter.ListingURLs(ctx, src, robots)
	if err != nil {
		return nil, fmt.Errorf("discovering listings for %s: %w", src.Name, err)
	}
	s.logger.Infof("%s: %d listings discovered", src.Name, len(listingURLs))

	ex := extractor.New(src.Name, src.BaseURL, src.CityName(), src.State(), s.logger)

	var records []*vehicle.Record
	for _, listingURL := range listingURLs {
		if s.MaxListings > 0 && len(records) >= s.MaxListings {
			break
		}
		if ctx.Err() != nil {
			return records, ctx.Err()
		}
		if err := robots.Check(listingURL); err != nil {
			s.logger.Debugf("skipping %s: %v", listingURL, err)
			continue
		}
		rec, err := s.scrapeDetail(ctx, ex, listingURL)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return records, err
			}
			s.logger.Warnf("%s: detail page failed: %v", src.Name, err)
			continue
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *Scraper) scrapeDetail(ctx context.Context, ex *extractor.Extractor, pageURL string) (*vehicle.Record, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return ex.Extract(doc, pageURL), nil
}
