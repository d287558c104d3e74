// internal/validator/validator.go

// Package validator decides whether an extracted vehicle record is
// trustworthy enough to keep. Validation never fails the run: it
// returns a pass/fail decision plus the full issue list so callers can
// both filter and report.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/evscout/evscout/internal/vehicle"
)

// WarningPrefix marks soft issues that never fail validation alone.
const WarningPrefix = "WARNING: "

// electricMakes are manufacturers that only sell electric vehicles.
var electricMakes = map[string]bool{
	"Tesla": true, "Rivian": true, "Lucid": true, "Polestar": true,
	"BYD": true, "Nio": true, "Xpeng": true, "Fisker": true,
	"Lordstown": true, "Canoo": true, "Faraday Future": true,
}

// electricModels are EV model names from mixed-lineup manufacturers.
var electricModels = map[string]bool{
	"Model S": true, "Model 3": true, "Model X": true, "Model Y": true,
	"R1T": true, "R1S": true,
	"Air":         true,
	"Polestar 2":  true, "Polestar 3": true, "Polestar 4": true,
	"Mustang Mach-E": true, "F-150 Lightning": true,
	"Bolt": true, "Bolt EUV": true, "Blazer EV": true, "Equinox EV": true, "Silverado EV": true,
	"IONIQ 5": true, "IONIQ 6": true, "Kona Electric": true,
	"EV6": true, "EV9": true, "Niro EV": true,
	"Ariya": true,
	"ID.4":  true, "ID.Buzz": true,
	"e-tron": true, "Q4 e-tron": true, "e-tron GT": true,
	"EQE": true, "EQS": true, "EQB": true, "EQC": true,
	"iX": true, "i4": true, "iX1": true, "i5": true, "i7": true,
	"Lyriq":    true,
	"bZ4X":     true,
	"Solterra": true,
	"Prologue": true,
	"ZDX":      true,
	"RZ":       true,
}

// electricNameHints are substrings of model names that signal an EV.
var electricNameHints = []string{
	"electric", "ev", "e-tron", "eq", "id.", "i4", "ix", "ioniq",
	"mach-e", "lightning", "bolt", "leaf",
}

var nonElectricFuels = []string{"gasoline", "gas", "diesel", "flex", "e85"}

var testDataIndicators = []string{
	"test", "example", "sample", "placeholder", "demo",
	"xxx", "zzz", "abc123", "000000", "999999",
}

var vinFormat = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// priceBand is a published MSRP range for a popular EV model.
type priceBand struct {
	min, max float64
}

// priceBands holds approximate MSRP ranges for popular EVs, keyed by
// make then model. Bands are widened -40%/+30% before comparison to
// allow for used listings and options.
var priceBands = map[string]map[string]priceBand{
	"Tesla": {
		"Model 3": {35000, 55000},
		"Model Y": {40000, 65000},
		"Model S": {75000, 120000},
		"Model X": {80000, 120000},
	},
	"Hyundai": {
		"IONIQ 5":       {40000, 60000},
		"IONIQ 6":       {42000, 62000},
		"Kona Electric": {33000, 45000},
	},
	"Kia": {
		"EV6":     {42000, 65000},
		"EV9":     {55000, 75000},
		"Niro EV": {39000, 50000},
	},
	"Ford": {
		"Mustang Mach-E":  {40000, 65000},
		"F-150 Lightning": {50000, 95000},
	},
	"Chevrolet": {
		"Bolt":       {25000, 35000},
		"Bolt EUV":   {28000, 38000},
		"Blazer EV":  {45000, 65000},
		"Equinox EV": {30000, 50000},
	},
}

// Validate checks a record for data quality. It returns whether the
// record passed along with every issue found; warnings carry
// WarningPrefix and never cause failure on their own. Under strict
// mode a missing price is a hard error instead of a warning.
func Validate(rec *vehicle.Record, strict bool) (bool, []string) {
	var errs, warns []string

	if rec.Make == "" || rec.Make == "Unknown" {
		errs = append(errs, "Missing or unknown make")
	}
	if rec.Model == "" || rec.Model == "Unknown" {
		errs = append(errs, "Missing or unknown model")
	}

	currentYear := time.Now().Year()
	if rec.Year < 2015 {
		errs = append(errs, fmt.Sprintf("Year too old for electric vehicle: %d", rec.Year))
	} else if rec.Year > currentYear+2 {
		errs = append(errs, fmt.Sprintf("Year too far in future: %d", rec.Year))
	}

	price := rec.Price()
	switch {
	case price <= 0:
		if strict {
			errs = append(errs, "Missing or zero price")
		} else {
			warns = append(warns, "Missing price - may be 'call for price' listing")
		}
	case price < 5000:
		errs = append(errs, fmt.Sprintf("Suspiciously low price: $%.0f", price))
	case price > 250000:
		errs = append(errs, fmt.Sprintf("Price exceeds maximum for target vehicles: $%.0f", price))
	}

	if !isAbsoluteURL(rec.VehicleURL) {
		errs = append(errs, "Invalid or missing vehicle URL")
	}
	if rec.DealerName == "" {
		errs = append(errs, "Missing dealer name")
	}
	if !isAbsoluteURL(rec.DealerWebsite) {
		errs = append(errs, "Invalid dealer website")
	}

	if !isLikelyElectric(rec) {
		errs = append(errs, fmt.Sprintf("Vehicle does not appear to be electric: %d %s %s", rec.Year, rec.Make, rec.Model))
	}
	if rec.FuelType != "" {
		fuel := strings.ToLower(rec.FuelType)
		for _, bad := range nonElectricFuels {
			if strings.Contains(fuel, bad) {
				if !strings.Contains(fuel, "hybrid") && !strings.Contains(fuel, "phev") {
					errs = append(errs, fmt.Sprintf("Non-electric fuel type: %s", rec.FuelType))
				}
				break
			}
		}
	}

	if rec.VIN != "" {
		if !IsValidVIN(rec.VIN) {
			warns = append(warns, fmt.Sprintf("Invalid VIN format: %s", rec.VIN))
		}
	} else if strict {
		warns = append(warns, "Missing VIN (harder to verify uniqueness)")
	}

	if rec.Mileage != nil {
		m := *rec.Mileage
		if rec.Condition == vehicle.ConditionNew && m > 500 {
			warns = append(warns, fmt.Sprintf("High mileage for new car: %d", m))
		}
		if m > 300000 {
			errs = append(errs, fmt.Sprintf("Extremely high mileage: %d", m))
		}
		if m < 0 {
			errs = append(errs, fmt.Sprintf("Negative mileage: %d", m))
		}
	}

	switch rec.Condition {
	case vehicle.ConditionNew, vehicle.ConditionUsed, vehicle.ConditionCPO:
	default:
		warns = append(warns, fmt.Sprintf("Unusual condition value: %s", rec.Condition))
	}

	if price > 0 {
		warns = append(warns, priceBandWarnings(rec, price)...)
	}

	if looksLikeTestData(rec) {
		errs = append(errs, "Appears to be test/placeholder data")
	}

	issues := errs
	for _, w := range warns {
		issues = append(issues, WarningPrefix+w)
	}
	return len(errs) == 0, issues
}

// IsValidVIN checks the 17-character VIN charset rule.
func IsValidVIN(vin string) bool {
	return vinFormat.MatchString(vin)
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// isLikelyElectric applies the electric-likelihood test: any one
// signal is enough.
func isLikelyElectric(rec *vehicle.Record) bool {
	if electricMakes[rec.Make] {
		return true
	}
	if electricModels[rec.Model] {
		return true
	}
	model := strings.ToLower(rec.Model)
	for _, hint := range electricNameHints {
		if strings.Contains(model, hint) {
			return true
		}
	}
	if rec.FuelType != "" {
		fuel := strings.ToLower(rec.FuelType)
		for _, kw := range []string{"electric", "ev", "bev", "phev", "plug"} {
			if strings.Contains(fuel, kw) {
				return true
			}
		}
	}
	return rec.IsElectric()
}

func priceBandWarnings(rec *vehicle.Record, price float64) []string {
	models, ok := priceBands[rec.Make]
	if !ok {
		return nil
	}
	band, ok := models[rec.Model]
	if !ok {
		return nil
	}
	min := band.min * 0.6
	max := band.max * 1.3
	switch {
	case price < min:
		return []string{fmt.Sprintf("Price $%.0f seems low for %s %s (typical: $%.0f-$%.0f)", price, rec.Make, rec.Model, min, max)}
	case price > max:
		return []string{fmt.Sprintf("Price $%.0f seems high for %s %s (typical: $%.0f-$%.0f)", price, rec.Make, rec.Model, min, max)}
	}
	return nil
}

// looksLikeTestData scans identity-ish fields for placeholder markers.
func looksLikeTestData(rec *vehicle.Record) bool {
	fields := []string{
		rec.Make, rec.Model, rec.Trim, rec.DealerName,
		rec.VIN, rec.StockNumber, rec.ExteriorColor,
	}
	for _, f := range fields {
		if f == "" {
			continue
		}
		lower := strings.ToLower(f)
		for _, indicator := range testDataIndicators {
			if strings.Contains(lower, indicator) {
				return true
			}
		}
	}
	return false
}
