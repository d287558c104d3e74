// internal/dedupe/index.go
package dedupe

import (
	"github.com/evscout/evscout/internal/vehicle"
)

// Index deduplicates incrementally, for callers that stream records
// out as sources finish instead of collecting the whole run first.
// Same identity rules as Deduplicate: VIN wins, URL is the fallback,
// keyless records always pass.
type Index struct {
	seenVIN map[string]bool
	seenURL map[string]bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		seenVIN: make(map[string]bool),
		seenURL: make(map[string]bool),
	}
}

// Admit registers the record and reports whether it is new. A false
// return means a record with the same VIN or URL was admitted earlier.
// A fresh VIN at an already-seen URL is still a duplicate: the page
// was re-scraped with a changed VIN, and the URL identity wins.
func (ix *Index) Admit(rec *vehicle.Record) bool {
	if vin := rec.VINKey(); vin != "" {
		if ix.seenVIN[vin] {
			return false
		}
		ix.seenVIN[vin] = true
		if u := rec.URLKey(); u != "" {
			if ix.seenURL[u] {
				return false
			}
			ix.seenURL[u] = true
		}
		return true
	}
	if u := rec.URLKey(); u != "" {
		if ix.seenURL[u] {
			return false
		}
		ix.seenURL[u] = true
		return true
	}
	return true
}

// Seed admits every record without reporting, for preloading the
// index from checkpoint state.
func (ix *Index) Seed(records []*vehicle.Record) {
	for _, rec := range records {
		ix.Admit(rec)
	}
}
