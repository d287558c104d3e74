// internal/patterns/regexes.go

// Package patterns holds the regular expressions and normalizers that
// recognize vehicle attributes in raw page text. Everything here is
// stateless; every extractor returns the first match in document order.
package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// vinRegex matches the 17-character standard. I, O and Q are
	// excluded from the VIN alphabet.
	vinRegex = regexp.MustCompile(`\b([A-HJ-NPR-Z0-9]{17})\b`)

	// priceRegex matches "$32,995", "$32995" and "$32,995.00".
	priceRegex = regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{2})?|[0-9]+(?:\.[0-9]{2})?)`)

	// mileageRegex matches "12,345 mi" and "5 miles".
	mileageRegex = regexp.MustCompile(`(?i)\b([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\s*(?:mi|miles?)\b`)

	// stockRegex captures the token after a "Stock #" style label.
	stockRegex = regexp.MustCompile(`(?i)Stock\s*(?:#|Number|No\.?)\s*[:#]?\s*([A-Za-z0-9\-]+)`)

	conditionRegex = regexp.MustCompile(`(?i)\b(New|Used|Pre[-\s]?Owned|Certified Pre[-\s]?Owned|CPO)\b`)

	availabilityRegex = regexp.MustCompile(`(?i)\b(In Stock|Available|In Transit|On the Way|Sold|Reserved|Coming Soon|Arriving Soon|Order Yours)\b`)

	bodyStyleLabelRegex = regexp.MustCompile(`(?i)Body\s*Style[:\s]*([A-Za-z0-9 \-/]+)`)
	bodyStyleValueRegex = regexp.MustCompile(`(?i)\b(SUV|Sedan|Truck|Pickup|Van|Hatchback|Wagon|Crossover|Sport Utility)\b`)

	exteriorColorRegex = regexp.MustCompile(`(?i)(?:Exterior\s*Color|Ext\.?\s*Color)[:\s]*([A-Za-z0-9 /&\-]+)`)
	interiorColorRegex = regexp.MustCompile(`(?i)(?:Interior\s*Color|Int\.?\s*Color)[:\s]*([A-Za-z0-9 /&\-]+)`)

	transmissionRegex = regexp.MustCompile(`(?i)(?:Transmission|Trans\.?)[:\s]*([A-Za-z0-9 \-/]+)`)

	// engineRegex feeds EV detection; dealer pages often describe
	// electric drivetrains as "Engine: Electric Motor".
	engineRegex = regexp.MustCompile(`(?i)(?:Engine|Motor)[:\s]*([A-Za-z0-9 .+/&\-]+)`)

	fuelTypeLabelRegex = regexp.MustCompile(`(?i)(?:Fuel\s*Type|Fuel)[:\s]*([A-Za-z0-9 /+\-]+)`)
	fuelTypeValueRegex = regexp.MustCompile(`(?i)\b(Electric|EV|BEV|Hybrid|Plug[-\s]?In Hybrid|PHEV|Gasoline|Gas|Diesel|Flex Fuel)\b`)

	drivetrainValueRegex = regexp.MustCompile(`(?i)\b(AWD|FWD|RWD|4WD|4x4|All[-\s]?Wheel Drive|Front[-\s]?Wheel Drive|Rear[-\s]?Wheel Drive|Four[-\s]?Wheel Drive|4MATIC|4MOTION|Quattro|xDrive)\b`)
	drivetrainLabelRegex = regexp.MustCompile(`(?i)(?:Drivetrain|Drive\s*Type|Drive|Driveline|Powertrain)[:\s]*([A-Za-z0-9 \-/]+)`)

	evKeywordsRegex = regexp.MustCompile(`(?i)\b(Electric|EV|BEV|Battery Electric|Zero Emission|ZEV|Plug[-\s]?In Hybrid|PHEV)\b`)

	yearRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// firstGroup returns the trimmed first capture group of the first
// match, or "" when the pattern does not match.
func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractVIN returns the first VIN-shaped token in the text.
func ExtractVIN(text string) string { return firstGroup(vinRegex, text) }

// ExtractPrice returns the first dollar amount as its raw string form
// ("32,995" or "32995.00").
func ExtractPrice(text string) string { return firstGroup(priceRegex, text) }

// ExtractAllPrices returns every dollar amount in the text, in
// document order, as raw strings.
func ExtractAllPrices(text string) []string {
	matches := priceRegex.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ExtractMileage returns the first mileage figure as a raw string.
func ExtractMileage(text string) string { return firstGroup(mileageRegex, text) }

// ExtractStockNumber returns the stock number following a label token.
func ExtractStockNumber(text string) string { return firstGroup(stockRegex, text) }

// ExtractCondition returns the first raw condition token.
func ExtractCondition(text string) string { return firstGroup(conditionRegex, text) }

// ExtractAvailability returns the first raw availability token.
func ExtractAvailability(text string) string { return firstGroup(availabilityRegex, text) }

// ExtractBodyStyle tries the label form first, then bare style words.
func ExtractBodyStyle(text string) string {
	if v := firstGroup(bodyStyleLabelRegex, text); v != "" {
		return v
	}
	return firstGroup(bodyStyleValueRegex, text)
}

// ExtractExteriorColor returns the labeled exterior color value.
func ExtractExteriorColor(text string) string { return firstGroup(exteriorColorRegex, text) }

// ExtractInteriorColor returns the labeled interior color value.
func ExtractInteriorColor(text string) string { return firstGroup(interiorColorRegex, text) }

// ExtractTransmission returns the labeled transmission value.
func ExtractTransmission(text string) string { return firstGroup(transmissionRegex, text) }

// ExtractEngine returns the labeled engine/motor description.
func ExtractEngine(text string) string { return firstGroup(engineRegex, text) }

// ExtractFuelTypeLabel returns the value after a "Fuel Type" label.
func ExtractFuelTypeLabel(text string) string { return firstGroup(fuelTypeLabelRegex, text) }

// ExtractFuelTypeValue returns the first bare fuel keyword.
func ExtractFuelTypeValue(text string) string { return firstGroup(fuelTypeValueRegex, text) }

// ExtractDrivetrainLabel returns the value after a drivetrain label.
func ExtractDrivetrainLabel(text string) string { return firstGroup(drivetrainLabelRegex, text) }

// ExtractDrivetrainValue returns the first bare drivetrain token.
func ExtractDrivetrainValue(text string) string { return firstGroup(drivetrainValueRegex, text) }

// ExtractYear returns the first 4-digit year token (19xx/20xx) or 0.
func ExtractYear(text string) int {
	m := yearRegex.FindString(text)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

// ParsePriceInt turns "32,995.00" or "32995" into 32995, truncating to
// integer dollars. The second return is false on non-numeric residue.
func ParsePriceInt(raw string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// IsElectricText reports whether any EV-related keyword appears in the
// text. Rough heuristic, used by fuel-type inference.
func IsElectricText(text string) bool {
	return evKeywordsRegex.MatchString(text)
}
