// internal/vehicle/filters.go
package vehicle

import "strings"

// FilterByMake returns the records whose make matches, ignoring case.
func FilterByMake(records []*Record, make string) []*Record {
	want := strings.ToLower(strings.TrimSpace(make))
	var out []*Record
	for _, r := range records {
		if strings.ToLower(r.Make) == want {
			out = append(out, r)
		}
	}
	return out
}

// FilterMaxPrice returns the records whose effective price is at or
// under the limit. Records without any price pass through; absence of
// a price is not evidence of a high one.
func FilterMaxPrice(records []*Record, max float64) []*Record {
	var out []*Record
	for _, r := range records {
		if p := r.Price(); p == 0 || p <= max {
			out = append(out, r)
		}
	}
	return out
}

// FilterElectric returns only the battery-electric and plug-in
// records.
func FilterElectric(records []*Record) []*Record {
	var out []*Record
	for _, r := range records {
		if r.IsElectric() {
			out = append(out, r)
		}
	}
	return out
}
