// internal/dedupe/dedupe_test.go
package dedupe

import (
	"testing"
	"time"

	"github.com/evscout/evscout/internal/vehicle"
)

func rec(vin, url string, scraped time.Time) *vehicle.Record {
	return &vehicle.Record{
		Make:       "Hyundai",
		Model:      "IONIQ 5",
		Year:       2025,
		VIN:        vin,
		VehicleURL: url,
		ScrapedAt:  scraped,
	}
}

func TestDeduplicate_VINPriority(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("KM8K33AGXNU123456", "https://a.com/car/1", now),
		rec("KM8K33AGXNU123456", "https://b.com/car/9", now),
	}

	survivors, stats := Deduplicate(records, false)
	if len(survivors) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(survivors))
	}
	if stats.DuplicatesByVIN != 1 || stats.DuplicatesByURL != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Total != 2 || stats.Final != 1 {
		t.Errorf("counters = %+v", stats)
	}
}

func TestDeduplicate_VINNormalization(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec(" km8k33agxnu123456 ", "https://a.com/1", now),
		rec("KM8K33AGXNU123456", "https://b.com/2", now),
	}
	survivors, stats := Deduplicate(records, false)
	if len(survivors) != 1 || stats.DuplicatesByVIN != 1 {
		t.Fatalf("case/whitespace variants should collide: %+v", stats)
	}
}

func TestDeduplicate_URLFallback(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("", "https://a.com/car/1", now),
		rec("", "HTTPS://A.COM/car/1", now),
	}
	survivors, stats := Deduplicate(records, false)
	if len(survivors) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(survivors))
	}
	if stats.DuplicatesByURL != 1 || stats.DuplicatesByVIN != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicate_NoKeysNeverDuplicate(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("", "", now),
		rec("", "", now),
		rec("", "", now),
	}
	survivors, stats := Deduplicate(records, true)
	if len(survivors) != 3 {
		t.Fatalf("keyless records must all survive, got %d", len(survivors))
	}
	if stats.DuplicatesByVIN != 0 || stats.DuplicatesByURL != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicate_PreferLatest(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	older := rec("KM8K33AGXNU123456", "https://a.com/1", t1)
	newer := rec("KM8K33AGXNU123456", "https://b.com/2", t2)

	survivors, _ := Deduplicate([]*vehicle.Record{older, newer}, true)
	if len(survivors) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(survivors))
	}
	if !survivors[0].ScrapedAt.Equal(t2) {
		t.Errorf("preferLatest should keep the newer record, got %v", survivors[0].ScrapedAt)
	}

	survivors, _ = Deduplicate([]*vehicle.Record{newer, older}, true)
	if !survivors[0].ScrapedAt.Equal(t2) {
		t.Errorf("older incoming record should never replace a newer survivor")
	}

	survivors, _ = Deduplicate([]*vehicle.Record{older, newer}, false)
	if !survivors[0].ScrapedAt.Equal(t1) {
		t.Errorf("without preferLatest the first-processed record wins")
	}
}

func TestDeduplicate_MixedAxes(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("KM8K33AGXNU123456", "https://a.com/1", now),
		rec("", "https://a.com/1", now),            // URL dup of first
		rec("5YJ3E1EA8PF000001", "https://a.com/2", now),
		rec("5YJ3E1EA8PF000001", "https://a.com/3", now), // VIN dup
		rec("", "https://a.com/4", now),
	}
	survivors, stats := Deduplicate(records, false)
	if len(survivors) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(survivors))
	}
	if stats.DuplicatesByVIN != 1 || stats.DuplicatesByURL != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicate_Empty(t *testing.T) {
	survivors, stats := Deduplicate(nil, true)
	if len(survivors) != 0 || stats.Total != 0 || stats.Final != 0 {
		t.Errorf("empty input should yield empty output: %+v", stats)
	}
}

func TestDeduplicateByVIN(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("KM8K33AGXNU123456", "https://a.com/1", now),
		rec("KM8K33AGXNU123456", "https://a.com/2", now),
		rec("", "https://a.com/2", now), // no VIN: always kept
	}
	survivors, removed := DeduplicateByVIN(records)
	if len(survivors) != 2 || removed != 1 {
		t.Errorf("got %d survivors, %d removed", len(survivors), removed)
	}
}

func TestDeduplicateByURL(t *testing.T) {
	now := time.Now()
	records := []*vehicle.Record{
		rec("A", "https://a.com/1", now),
		rec("B", "https://a.com/1", now),
		rec("C", "", now), // no URL: always kept
	}
	survivors, removed := DeduplicateByURL(records)
	if len(survivors) != 2 || removed != 1 {
		t.Errorf("got %d survivors, %d removed", len(survivors), removed)
	}
}
