// internal/patterns/regexes_test.go
package patterns

import "testing"

func TestExtractVIN(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"bare vin", "VIN: KM8K33AGXNU123456 in stock", "KM8K33AGXNU123456"},
		{"vin with I rejected", "VIN: KM8K33AGINU123456 nope", ""},
		{"vin with O rejected", "VIN: KM8K33AGONU123456 nope", ""},
		{"vin with Q rejected", "VIN: KM8K33AGQNU123456 nope", ""},
		{"too short", "1234567890123456", ""},
		{"first of two", "5YJ3E1EA8PF000001 then 5YJ3E1EA8PF000002", "5YJ3E1EA8PF000001"},
	}
	for _, tc := range cases {
		if got := ExtractVIN(tc.text); got != tc.want {
			t.Errorf("%s: ExtractVIN(%q) = %q, want %q", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"MSRP $45,990", "45,990"},
		{"only $32995 today", "32995"},
		{"pay $32,995.00 now", "32,995.00"},
		{"no price here", ""},
	}
	for _, tc := range cases {
		if got := ExtractPrice(tc.text); got != tc.want {
			t.Errorf("ExtractPrice(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestParsePriceInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"32,995.00", 32995, true},
		{"32995", 32995, true},
		{"45,990", 45990, true},
		{"", 0, false},
		{"call us", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePriceInt(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePriceInt(%q) = (%d, %v), want (%d, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractMileage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Odometer: 12,345 mi", "12,345"},
		{"only 5 miles on it", "5"},
		{"12 MI", "12"},
		{"5 kilometers", ""},
	}
	for _, tc := range cases {
		if got := ExtractMileage(tc.text); got != tc.want {
			t.Errorf("ExtractMileage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractStockNumber(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Stock # ABC-123", "ABC-123"},
		{"Stock Number: H44210", "H44210"},
		{"Stock No. 9981", "9981"},
		{"nothing labeled", ""},
	}
	for _, tc := range cases {
		if got := ExtractStockNumber(tc.text); got != tc.want {
			t.Errorf("ExtractStockNumber(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestNormalizeDrivetrain(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"AWD", "AWD"},
		{"all-wheel drive", "AWD"},
		{"xDrive", "AWD"},
		{"4MATIC", "AWD"},
		{"quattro", "AWD"},
		{"FWD", "FWD"},
		{"Front-Wheel Drive", "FWD"},
		{"RWD", "RWD"},
		{"4x4", "4WD"},
		{"Four Wheel Drive", "4WD"},
		{"hovercraft", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDrivetrain(tc.raw); got != tc.want {
			t.Errorf("NormalizeDrivetrain(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeDrivetrain_Idempotent(t *testing.T) {
	inputs := []string{"AWD", "all-wheel drive", "4x4", "quattro", "FWD", "RWD", "garbage"}
	for _, raw := range inputs {
		once := NormalizeDrivetrain(raw)
		twice := NormalizeDrivetrain(once)
		if once != twice {
			t.Errorf("normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeFuelType(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Electric", "electric"},
		{"EV", "electric"},
		{"Battery Electric BEV", "electric"},
		{"Plug-In Hybrid", "phev"},
		{"PHEV", "phev"},
		{"Electric Plug-In", "phev"},
		{"Hybrid", "hybrid"},
		{"Gasoline", "gasoline"},
		{"Gas", "gasoline"},
		{"Diesel", "diesel"},
		{"unknown propulsion", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeFuelType(tc.raw); got != tc.want {
			t.Errorf("NormalizeFuelType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCondition(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Certified Pre-Owned", "cpo"},
		{"CPO", "cpo"},
		{"Used", "used"},
		{"Pre-Owned", "used"},
		{"New", "new"},
		{"", "new"},
	}
	for _, tc := range cases {
		if got := NormalizeCondition(tc.raw); got != tc.want {
			t.Errorf("NormalizeCondition(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeAvailability(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"In Transit", "in_transit"},
		{"On the Way", "in_transit"},
		{"Arriving Soon", "in_transit"},
		{"Coming Soon", "in_transit"},
		{"Sold", "sold"},
		{"Reserved", "reserved"},
		{"In Stock", "available"},
		{"Available", "available"},
		{"mystery", ""},
	}
	for _, tc := range cases {
		if got := NormalizeAvailability(tc.raw); got != tc.want {
			t.Errorf("NormalizeAvailability(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestExtractBodyStyleAndColors(t *testing.T) {
	if got := ExtractBodyStyle("Body Style: SUV\nDrivetrain: AWD"); got != "SUV" {
		t.Errorf("labeled body style = %q", got)
	}
	if got := ExtractBodyStyle("a sporty Hatchback indeed"); got != "Hatchback" {
		t.Errorf("bare body style = %q", got)
	}
	if got := ExtractExteriorColor("Ext. Color: Lucid Blue"); got != "Lucid Blue" {
		t.Errorf("exterior color = %q", got)
	}
	if got := ExtractInteriorColor("Interior Color: Obsidian Black"); got != "Obsidian Black" {
		t.Errorf("interior color = %q", got)
	}
}

func TestIsElectricText(t *testing.T) {
	if !IsElectricText("Zero Emission Vehicle") {
		t.Error("ZEV text should read as electric")
	}
	if !IsElectricText("Plug-In Hybrid powertrain") {
		t.Error("PHEV text should read as electric")
	}
	if IsElectricText("5.0L V8 Gasoline") {
		t.Error("gasoline text should not read as electric")
	}
}

func TestExtractYear(t *testing.T) {
	if got := ExtractYear("2025 Hyundai IONIQ 5 SEL"); got != 2025 {
		t.Errorf("year = %d", got)
	}
	if got := ExtractYear("no year"); got != 0 {
		t.Errorf("year = %d", got)
	}
}

func TestContainsKeyword(t *testing.T) {
	if !ContainsKeyword("MSRP $45,990", "price") {
		t.Error("MSRP should match price keywords")
	}
	if !ContainsKeyword("vin: 123", "vin") {
		t.Error("vin label should match case-insensitively")
	}
	if ContainsKeyword("nothing here", "vin") {
		t.Error("unrelated text should not match")
	}
	if ContainsKeyword("", "price") {
		t.Error("empty text never matches")
	}
}
