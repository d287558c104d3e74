// internal/extractor/title.go
package extractor

import (
	"regexp"
	"strings"
)

// knownMakes are the manufacturer names recognized in listing titles.
var knownMakes = []string{
	"Tesla", "Hyundai", "Kia", "Ford", "Chevrolet", "Chevy", "Nissan",
	"BMW", "Mercedes-Benz", "Mercedes", "Audi", "Volkswagen", "VW",
	"Toyota", "Honda", "Mazda", "Subaru", "Volvo", "Polestar",
	"Rivian", "Lucid", "Fisker", "Genesis", "Cadillac", "Lincoln",
	"Jeep", "Ram", "GMC", "Buick", "Chrysler", "Dodge", "INFINITI",
	"Acura", "Lexus", "Jaguar", "Land Rover", "MINI", "Mitsubishi",
	"Porsche", "Alfa Romeo", "Fiat", "Maserati",
}

var titleYearRegex = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// TitleParts is the decomposition of a listing heading like
// "2025 Hyundai IONIQ 5 SEL".
type TitleParts struct {
	Year  int
	Make  string
	Model string
	Trim  string
}

// ParseTitle splits a heading into year, make and model. The year is
// the first 19xx/20xx token and is removed before make matching. The
// make is found by exact word match or title prefix; everything after
// it becomes the model. No attempt is made to split a trim level off
// the model; trim stays empty unless label-based extraction finds one.
func ParseTitle(title string) TitleParts {
	var parts TitleParts
	if title == "" {
		return parts
	}

	if m := titleYearRegex.FindString(title); m != "" {
		parts.Year = atoi(m)
		title = strings.TrimSpace(strings.Replace(title, m, "", 1))
	}

	words := strings.Fields(title)
	for i, word := range words {
		for _, make := range knownMakes {
			if word == make {
				parts.Make = make
				if i+1 < len(words) {
					parts.Model = strings.Join(words[i+1:], " ")
				}
				return parts
			}
			if strings.HasPrefix(title, make) {
				parts.Make = make
				parts.Model = strings.Join(strings.Fields(title[len(make):]), " ")
				return parts
			}
		}
	}
	return parts
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
