// internal/patterns/normalize.go
package patterns

import "strings"

// drivetrainTable maps recognized raw tokens to the canonical four-way
// vocabulary. Exact match is tried first, then substring match in the
// listed order.
var drivetrainTable = []struct {
	token string
	canon string
}{
	{"awd", "AWD"},
	{"all wheel drive", "AWD"},
	{"xdrive", "AWD"},
	{"4matic", "AWD"},
	{"4motion", "AWD"},
	{"quattro", "AWD"},
	{"fwd", "FWD"},
	{"front wheel drive", "FWD"},
	{"rwd", "RWD"},
	{"rear wheel drive", "RWD"},
	{"4wd", "4WD"},
	{"4x4", "4WD"},
	{"four wheel drive", "4WD"},
}

// NormalizeDrivetrain maps a raw drivetrain token to one of AWD, FWD,
// RWD, 4WD. Returns "" when nothing matches; never panics on junk.
// Idempotent: canonical values normalize to themselves.
func NormalizeDrivetrain(raw string) string {
	t := strings.TrimSpace(strings.ToLower(raw))
	if t == "" {
		return ""
	}
	t = strings.ReplaceAll(t, "-", " ")
	for _, e := range drivetrainTable {
		if t == e.token {
			return e.canon
		}
	}
	for _, e := range drivetrainTable {
		if strings.Contains(t, e.token) {
			return e.canon
		}
	}
	return ""
}

// NormalizeFuelType maps raw fuel text into the canonical vocabulary:
// electric, hybrid, phev, gasoline, diesel. Returns "" when the text
// carries no fuel signal.
func NormalizeFuelType(raw string) string {
	t := strings.ToLower(raw)
	if t == "" {
		return ""
	}
	plugIn := strings.Contains(t, "plug-in") || strings.Contains(t, "plug in") || strings.Contains(t, "phev")
	switch {
	case strings.Contains(t, "electric") || containsWord(t, "ev") || strings.Contains(t, "bev"):
		if plugIn {
			return "phev"
		}
		return "electric"
	case strings.Contains(t, "hybrid"):
		if plugIn {
			return "phev"
		}
		return "hybrid"
	case strings.Contains(t, "gasoline") || containsWord(t, "gas"):
		return "gasoline"
	case strings.Contains(t, "diesel"):
		return "diesel"
	}
	return ""
}

// containsWord reports a whole-word occurrence, so "ev" does not fire
// on "every" and "gas" does not fire on "outgassing".
func containsWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// NormalizeCondition maps raw condition text to new/used/cpo. Unlabeled
// listings default to new, matching dealer inventory conventions.
func NormalizeCondition(raw string) string {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "certified") || strings.Contains(t, "cpo") || strings.Contains(t, "c.p.o"):
		return "cpo"
	case strings.Contains(t, "used") || strings.Contains(t, "pre-owned") || strings.Contains(t, "pre owned"):
		return "used"
	}
	return "new"
}

// NormalizeAvailability maps raw availability text to the four-way
// vocabulary. Returns "" for unrecognized text.
func NormalizeAvailability(raw string) string {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "transit") || strings.Contains(t, "way") || strings.Contains(t, "arriving") || strings.Contains(t, "coming"):
		return "in_transit"
	case strings.Contains(t, "sold"):
		return "sold"
	case strings.Contains(t, "reserved"):
		return "reserved"
	case strings.Contains(t, "stock") || strings.Contains(t, "available"):
		return "available"
	}
	return ""
}

// CollapseSpaces trims and squeezes internal whitespace runs to a
// single space. Free-text captures (body style, colors, transmission)
// pass through this before storage.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
