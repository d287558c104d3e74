// internal/checkpoint/checkpoint_test.go
package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evscout/evscout/internal/vehicle"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleRecords() []*vehicle.Record {
	scraped := time.Date(2026, 2, 11, 15, 4, 5, 0, time.UTC)
	return []*vehicle.Record{
		{
			DealerName:    "Example EV",
			DealerWebsite: "https://example-ev.com",
			VehicleURL:    "https://example-ev.com/inventory/1",
			Year:          2025,
			Make:          "Hyundai",
			Model:         "IONIQ 5 SEL",
			Condition:     vehicle.ConditionNew,
			MSRP:          floatPtr(45990),
			SalePrice:     floatPtr(42500),
			TotalPrice:    floatPtr(42500),
			Currency:      "USD",
			FuelType:      "electric",
			Drivetrain:    "AWD",
			VIN:           "KM8K33AGXNU123456",
			Mileage:       intPtr(12),
			MileageUnits:  vehicle.UnitsMiles,
			Availability:  vehicle.AvailabilityAvailable,
			Images:        []string{"https://example-ev.com/img/1.jpg"},
			Features:      []string{"Heat pump"},
			ScrapedAt:     scraped,
		},
		{
			DealerName:    "Northside Kia",
			DealerWebsite: "https://northside-kia.com",
			VehicleURL:    "https://northside-kia.com/ev6/2",
			Year:          2024,
			Make:          "Kia",
			Model:         "EV6 Wind",
			Condition:     vehicle.ConditionUsed,
			Currency:      "USD",
			MileageUnits:  vehicle.UnitsMiles,
			ScrapedAt:     scraped.Add(time.Hour),
		},
	}
}

func TestLoad_NoCheckpoint(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "cp.json"), nil)
	if m.Load() {
		t.Fatal("Load should report false with no file present")
	}
	if len(m.CompletedSources()) != 0 || len(m.Listings()) != 0 {
		t.Error("fresh state should be empty")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	m := NewManager(path, nil)

	completed := map[string]bool{"example_ev": true, "northside_kia": true}
	records := sampleRecords()
	if err := m.Save(completed, records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Fresh manager instance must reproduce identical state.
	m2 := NewManager(path, nil)
	if !m2.Load() {
		t.Fatal("Load should succeed after Save")
	}

	got := m2.CompletedSources()
	if len(got) != 2 || !got["example_ev"] || !got["northside_kia"] {
		t.Errorf("completed sources = %v", got)
	}

	listings := m2.Listings()
	if len(listings) != len(records) {
		t.Fatalf("expected %d listings, got %d", len(records), len(listings))
	}
	for i, want := range records {
		have := listings[i]
		if have.Make != want.Make || have.Model != want.Model || have.VIN != want.VIN {
			t.Errorf("record %d identity mismatch: %+v", i, have)
		}
		if !have.ScrapedAt.Equal(want.ScrapedAt) {
			t.Errorf("record %d scraped_at mismatch: %v vs %v", i, have.ScrapedAt, want.ScrapedAt)
		}
		if (have.MSRP == nil) != (want.MSRP == nil) {
			t.Errorf("record %d msrp presence mismatch", i)
		}
		if want.MSRP != nil && *have.MSRP != *want.MSRP {
			t.Errorf("record %d msrp = %v", i, *have.MSRP)
		}
		if (have.Mileage == nil) != (want.Mileage == nil) {
			t.Errorf("record %d mileage presence mismatch", i)
		}
		if len(have.Images) != len(want.Images) || len(have.Features) != len(want.Features) {
			t.Errorf("record %d list fields mismatch", i)
		}
	}
}

func TestSave_SetsTimestamps(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "cp.json"), nil)
	if err := m.Save(map[string]bool{"a": true}, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	p := m.GetProgress()
	if p.StartTime == nil || p.LastUpdate == nil {
		t.Fatal("Save should set start and last-update times")
	}
	first := *p.StartTime

	time.Sleep(10 * time.Millisecond)
	if err := m.Save(map[string]bool{"a": true, "b": true}, nil); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	p = m.GetProgress()
	if !p.StartTime.Equal(first) {
		t.Error("start time must not change after the first save")
	}
	if !p.LastUpdate.After(first) {
		t.Error("last update should advance on subsequent saves")
	}
}

func TestLoad_CorruptFallsBackToFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path, nil)
	if m.Load() {
		t.Fatal("corrupt checkpoint should report a fresh start")
	}
	if len(m.CompletedSources()) != 0 {
		t.Error("corrupt load must leave empty state")
	}
}

func TestSave_AtomicOnCrash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	m := NewManager(path, nil)
	if err := m.Save(map[string]bool{"good": true}, sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Simulate a crash between writing the temp file and the rename:
	// a stray partial temp file must not affect the real checkpoint.
	if err := os.WriteFile(path+".tmp", []byte(`{"completed_dealerships": ["partial"`), 0644); err != nil {
		t.Fatal(err)
	}

	m2 := NewManager(path, nil)
	if !m2.Load() {
		t.Fatal("previous checkpoint should still load")
	}
	if !m2.IsCompleted("good") {
		t.Error("previous checkpoint content lost")
	}
	if m2.IsCompleted("partial") {
		t.Error("partial temp content must never be visible")
	}
}

func TestMarkAndIsCompleted(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "cp.json"), nil)
	if m.IsCompleted("x") {
		t.Error("nothing completed yet")
	}
	m.MarkCompleted("x")
	if !m.IsCompleted("x") {
		t.Error("MarkCompleted should stick")
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	m := NewManager(path, nil)
	if err := m.Save(map[string]bool{"a": true}, sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("checkpoint file should be gone")
	}
	if len(m.CompletedSources()) != 0 || len(m.Listings()) != 0 {
		t.Error("in-memory state should be reset")
	}
	// Clearing twice is fine.
	if err := m.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op: %v", err)
	}
}
