// internal/dedupe/index_test.go
package dedupe

import (
	"testing"

	"github.com/evscout/evscout/internal/vehicle"
)

func TestIndexAdmit(t *testing.T) {
	ix := NewIndex()

	a := &vehicle.Record{VIN: "KM8KN4AE5RU123456", VehicleURL: "https://d.example/inventory/1"}
	b := &vehicle.Record{VIN: "km8kn4ae5ru123456", VehicleURL: "https://d.example/inventory/2"}
	c := &vehicle.Record{VehicleURL: "https://d.example/inventory/1"}
	d := &vehicle.Record{VehicleURL: "https://d.example/inventory/3"}
	keyless := &vehicle.Record{Make: "Kia", Model: "EV6"}

	if !ix.Admit(a) {
		t.Errorf("first record should be admitted")
	}
	if ix.Admit(b) {
		t.Errorf("same VIN in different case should be rejected")
	}
	if ix.Admit(c) {
		t.Errorf("URL already claimed by a VIN record should be rejected")
	}
	if !ix.Admit(d) {
		t.Errorf("fresh URL should be admitted")
	}
	if !ix.Admit(keyless) || !ix.Admit(keyless) {
		t.Errorf("keyless records always pass")
	}
}

func TestIndexAdmitNewVINAtSeenURL(t *testing.T) {
	ix := NewIndex()

	a := &vehicle.Record{VIN: "KNDC3DLCXP5123456", VehicleURL: "https://d.example/inventory/7"}
	b := &vehicle.Record{VIN: "5YJ3E1EA7KF123456", VehicleURL: "https://d.example/inventory/7"}

	if !ix.Admit(a) {
		t.Fatalf("first record should be admitted")
	}
	if ix.Admit(b) {
		t.Errorf("different VIN at the same URL should be rejected")
	}

	// Deduplicate collapses the same pair to one survivor; the
	// streaming index must agree.
	survivors, _ := Deduplicate([]*vehicle.Record{a, b}, false)
	if len(survivors) != 1 {
		t.Errorf("Deduplicate kept %d records, want 1", len(survivors))
	}
}

func TestIndexSeed(t *testing.T) {
	ix := NewIndex()
	ix.Seed([]*vehicle.Record{
		{VIN: "5YJ3E1EA7KF123456"},
		{VehicleURL: "https://d.example/inventory/9"},
	})
	if ix.Admit(&vehicle.Record{VIN: "5YJ3E1EA7KF123456"}) {
		t.Errorf("seeded VIN should be rejected")
	}
	if ix.Admit(&vehicle.Record{VehicleURL: "https://d.example/inventory/9"}) {
		t.Errorf("seeded URL should be rejected")
	}
}
