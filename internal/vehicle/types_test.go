// internal/vehicle/types_test.go
package vehicle

import (
	"encoding/json"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNew_Defaults(t *testing.T) {
	rec, err := New(Record{
		DealerName: "Example EV",
		Year:       2025,
		Make:       "Hyundai",
		Model:      "IONIQ 5",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if rec.Currency != "USD" {
		t.Errorf("expected USD currency, got %q", rec.Currency)
	}
	if rec.MileageUnits != UnitsMiles {
		t.Errorf("expected mi units, got %q", rec.MileageUnits)
	}
	if rec.Condition != ConditionNew {
		t.Errorf("expected new condition, got %q", rec.Condition)
	}
	if rec.ScrapedAt.IsZero() {
		t.Error("ScrapedAt should default to now")
	}
}

func TestNew_RejectsEmptyRecord(t *testing.T) {
	_, err := New(Record{Year: 2025})
	if err == nil {
		t.Fatal("record without identifying fields should be rejected")
	}
}

func TestNew_RejectsBadYear(t *testing.T) {
	cases := []int{1899, time.Now().Year() + 2}
	for _, year := range cases {
		_, err := New(Record{Make: "Tesla", Model: "Model 3", Year: year})
		if err == nil {
			t.Errorf("year %d should be rejected", year)
		}
	}
}

func TestNew_RejectsNegativeMileage(t *testing.T) {
	_, err := New(Record{Make: "Kia", Model: "EV6", Year: 2024, Mileage: intPtr(-1)})
	if err == nil {
		t.Fatal("negative mileage should be rejected")
	}
}

func TestPrice_Precedence(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want float64
	}{
		{"sale wins", Record{SalePrice: floatPtr(41500), TotalPrice: floatPtr(43000), MSRP: floatPtr(45000)}, 41500},
		{"total next", Record{TotalPrice: floatPtr(43000), MSRP: floatPtr(45000)}, 43000},
		{"msrp last", Record{MSRP: floatPtr(45000)}, 45000},
		{"no price", Record{}, 0},
	}
	for _, tc := range cases {
		if got := tc.rec.Price(); got != tc.want {
			t.Errorf("%s: expected %.0f, got %.0f", tc.name, tc.want, got)
		}
	}
}

func TestIsElectric(t *testing.T) {
	cases := []struct {
		fuel string
		want bool
	}{
		{"electric", true},
		{"EV", true},
		{"bev", true},
		{"phev", true},
		{"plug-in", true},
		{"gasoline", false},
		{"hybrid", false},
		{"", false},
	}
	for _, tc := range cases {
		rec := Record{FuelType: tc.fuel}
		if got := rec.IsElectric(); got != tc.want {
			t.Errorf("IsElectric(%q) = %v, expected %v", tc.fuel, got, tc.want)
		}
	}
}

func TestIdentityKeys(t *testing.T) {
	rec := Record{VIN: " km8k33agxnu123456 ", VehicleURL: " HTTPS://Example.com/Car/1 "}
	if got := rec.VINKey(); got != "KM8K33AGXNU123456" {
		t.Errorf("VINKey = %q", got)
	}
	if got := rec.URLKey(); got != "https://example.com/car/1" {
		t.Errorf("URLKey = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	scraped := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	orig := Record{
		DealerName:    "Example EV",
		DealerWebsite: "https://example-ev.com",
		VehicleURL:    "https://example-ev.com/inventory/1",
		Year:          2025,
		Make:          "Hyundai",
		Model:         "IONIQ 5 SEL",
		Condition:     ConditionNew,
		MSRP:          floatPtr(45990),
		SalePrice:     floatPtr(42500),
		TotalPrice:    floatPtr(42500),
		Currency:      "USD",
		FuelType:      "electric",
		Drivetrain:    "AWD",
		VIN:           "KM8K33AGXNU123456",
		Mileage:       intPtr(12),
		MileageUnits:  UnitsMiles,
		Availability:  AvailabilityAvailable,
		Images:        []string{"https://example-ev.com/img/1.jpg"},
		Features:      []string{"Heat pump", "HDA2"},
		ScrapedAt:     scraped,
	}

	data, err := json.Marshal(&orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got.Make != orig.Make || got.Model != orig.Model || got.VIN != orig.VIN {
		t.Errorf("identity fields did not survive round trip: %+v", got)
	}
	if got.MSRP == nil || *got.MSRP != 45990 {
		t.Errorf("msrp did not survive round trip")
	}
	if got.Mileage == nil || *got.Mileage != 12 {
		t.Errorf("mileage did not survive round trip")
	}
	if !got.ScrapedAt.Equal(scraped) {
		t.Errorf("scraped_at did not survive round trip: %v", got.ScrapedAt)
	}
	if len(got.Images) != 1 || len(got.Features) != 2 {
		t.Errorf("list fields did not survive round trip")
	}
}

func TestIsNew(t *testing.T) {
	if !(&Record{Condition: ConditionNew, Mileage: intPtr(12)}).IsNew(200) {
		t.Error("low-mileage new record should be new")
	}
	if (&Record{Condition: ConditionNew, Mileage: intPtr(5000)}).IsNew(200) {
		t.Error("high-mileage record should not be new")
	}
	if (&Record{Condition: ConditionUsed, Mileage: intPtr(0)}).IsNew(200) {
		t.Error("used record is never new")
	}
	if !(&Record{Condition: ConditionNew, Year: time.Now().Year()}).IsNew(200) {
		t.Error("current-year record with unknown mileage should be new")
	}
}
