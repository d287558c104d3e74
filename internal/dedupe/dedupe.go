// internal/dedupe/dedupe.go

// Package dedupe reconciles records that reference the same physical
// vehicle. VIN is the stronger identity signal and takes priority;
// the listing URL is the fallback axis for records without a VIN.
package dedupe

import (
	"github.com/evscout/evscout/internal/vehicle"
)

// Stats summarizes one deduplication pass.
type Stats struct {
	Total           int `json:"total"`
	DuplicatesByVIN int `json:"duplicates_by_vin"`
	DuplicatesByURL int `json:"duplicates_by_url"`
	Final           int `json:"final"`
}

// Deduplicate removes duplicate listings by VIN, then by URL for
// VIN-less records, preserving input order of survivors. When
// preferLatest is set and both sides carry timestamps, a strictly
// newer duplicate replaces the stored survivor; otherwise the incoming
// duplicate is dropped. A record with neither key is never a
// duplicate of anything.
func Deduplicate(records []*vehicle.Record, preferLatest bool) ([]*vehicle.Record, Stats) {
	stats := Stats{Total: len(records)}
	if len(records) == 0 {
		return nil, stats
	}

	seenByVIN := make(map[string]*vehicle.Record)
	seenByURL := make(map[string]*vehicle.Record)
	survivors := make([]*vehicle.Record, 0, len(records))

	replace := func(old, incoming *vehicle.Record) {
		for i, r := range survivors {
			if r == old {
				survivors = append(survivors[:i], survivors[i+1:]...)
				break
			}
		}
		survivors = append(survivors, incoming)
	}

	for _, rec := range records {
		duplicate := false

		if vin := rec.VINKey(); vin != "" {
			if existing, ok := seenByVIN[vin]; ok {
				if preferLatest && !rec.ScrapedAt.IsZero() && !existing.ScrapedAt.IsZero() && rec.ScrapedAt.After(existing.ScrapedAt) {
					seenByVIN[vin] = rec
					replace(existing, rec)
				}
				duplicate = true
				stats.DuplicatesByVIN++
			} else {
				seenByVIN[vin] = rec
			}
		}

		if !duplicate {
			if url := rec.URLKey(); url != "" {
				if existing, ok := seenByURL[url]; ok {
					if preferLatest && !rec.ScrapedAt.IsZero() && !existing.ScrapedAt.IsZero() && rec.ScrapedAt.After(existing.ScrapedAt) {
						seenByURL[url] = rec
						replace(existing, rec)
					}
					duplicate = true
					stats.DuplicatesByURL++
				} else {
					seenByURL[url] = rec
				}
			}
		}

		if !duplicate {
			survivors = append(survivors, rec)
		}
	}

	stats.Final = len(survivors)
	return survivors, stats
}

// DeduplicateByVIN removes duplicates on the VIN axis only. Records
// without a VIN are always kept.
func DeduplicateByVIN(records []*vehicle.Record) ([]*vehicle.Record, int) {
	seen := make(map[string]bool)
	survivors := make([]*vehicle.Record, 0, len(records))
	removed := 0
	for _, rec := range records {
		vin := rec.VINKey()
		if vin == "" {
			survivors = append(survivors, rec)
			continue
		}
		if seen[vin] {
			removed++
			continue
		}
		seen[vin] = true
		survivors = append(survivors, rec)
	}
	return survivors, removed
}

// DeduplicateByURL removes duplicates on the URL axis only. Records
// without a URL are always kept.
func DeduplicateByURL(records []*vehicle.Record) ([]*vehicle.Record, int) {
	seen := make(map[string]bool)
	survivors := make([]*vehicle.Record, 0, len(records))
	removed := 0
	for _, rec := range records {
		url := rec.URLKey()
		if url == "" {
			survivors = append(survivors, rec)
			continue
		}
		if seen[url] {
			removed++
			continue
		}
		seen[url] = true
		survivors = append(survivors, rec)
	}
	return survivors, removed
}
