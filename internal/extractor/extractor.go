// internal/extractor/extractor.go

// Package extractor turns one rendered detail page into one candidate
// vehicle record. Each attribute is resolved through a fixed priority
// chain: embedded structured data, then regex over the page text, then
// keyword-proximity search in the DOM. Missing attributes are nulls,
// never errors; only the total absence of make and model yields no
// record at all.
package extractor

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/evscout/evscout/internal/patterns"
	"github.com/evscout/evscout/internal/utils"
	"github.com/evscout/evscout/internal/vehicle"
)

const (
	maxImages   = 10
	maxFeatures = 20
)

// The model capture takes up to three capitalized or numeric tokens
// after the make, so "Model 3" and "IONIQ 5 SEL" survive intact while
// surrounding lowercase prose is left behind.
var makeModelFallbackRegex = regexp.MustCompile(
	`\b((?i:Tesla|Hyundai|Kia|Ford|Chevrolet|Nissan|BMW|Mercedes|Audi|Toyota|Honda|Mazda|Subaru|Volvo|Polestar|Rivian|Lucid|Genesis|Cadillac|Lincoln|Jeep|Ram|GMC|Buick|Chrysler|Dodge|INFINITI|Acura|Lexus|Jaguar|Land Rover|MINI|Mitsubishi|Porsche))\s+([A-Z][A-Za-z0-9-]*(?:\s[A-Z0-9][A-Za-z0-9-]*){0,2})`)

// Extractor builds vehicle records for one dealership source.
type Extractor struct {
	DealerName    string
	DealerWebsite string
	City          string
	State         string
	Logger        utils.Logger
}

// New returns an extractor for the given source identity.
func New(dealerName, dealerWebsite, city, state string, logger utils.Logger) *Extractor {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Extractor{
		DealerName:    dealerName,
		DealerWebsite: strings.TrimRight(dealerWebsite, "/"),
		City:          city,
		State:         state,
		Logger:        logger,
	}
}

// Extract produces a candidate record from a detail page, or nil when
// neither make nor model could be determined.
func (e *Extractor) Extract(doc *goquery.Document, detailURL string) *vehicle.Record {
	pageText := doc.Text()

	vin := patterns.ExtractVIN(pageText)
	if vin == "" {
		vin = e.vinFromKeywords(doc)
	}
	vin = strings.ToUpper(vin)

	stock := patterns.ExtractStockNumber(pageText)
	if stock == "" {
		stock = patterns.CollapseSpaces(extractFieldValue(doc, "stock_number"))
	}

	mileage, units := e.extractMileage(doc, pageText)

	condition := vehicle.Condition(patterns.NormalizeCondition(e.conditionText(doc, pageText)))

	availability := vehicle.Availability(e.extractAvailability(doc, pageText))

	prices := extractPrices(doc)
	priceNote := ""
	if prices.MSRP == nil && prices.SalePrice == nil && prices.Total == nil {
		priceNote = "call_for_price"
	}
	fuelType := e.extractFuelType(doc, pageText)
	drivetrain := e.extractDrivetrain(pageText)

	transmission := patterns.CollapseSpaces(patterns.ExtractTransmission(pageText))
	bodyStyle := patterns.CollapseSpaces(patterns.ExtractBodyStyle(pageText))
	if bodyStyle == "" {
		bodyStyle = patterns.CollapseSpaces(extractFieldValue(doc, "body_style"))
	}

	exterior := patterns.CollapseSpaces(patterns.ExtractExteriorColor(pageText))
	interior := patterns.CollapseSpaces(patterns.ExtractInteriorColor(pageText))
	if exterior == "" || interior == "" {
		ext, inr := e.colorsFromKeywords(doc)
		if exterior == "" {
			exterior = ext
		}
		if interior == "" {
			interior = inr
		}
	}

	title := e.pageTitle(doc)
	parts := ParseTitle(title)
	year, make, model, trim := parts.Year, parts.Make, parts.Model, parts.Trim

	if make == "" || model == "" {
		year, make, model = e.fallbackIdentity(doc, pageText, year, make, model)
	}
	if year == 0 {
		year = time.Now().Year()
	}
	if make == "" {
		make = "Unknown"
	}
	if model == "" {
		model = "Unknown"
	}
	if make == "Unknown" && model == "Unknown" {
		e.Logger.Warnf("%s: could not extract make/model from %s", e.DealerName, detailURL)
		return nil
	}

	images := e.extractImages(doc)
	description := e.extractDescription(doc)
	features := e.extractFeatures(doc)

	rec, err := vehicle.New(vehicle.Record{
		DealerName:    e.DealerName,
		DealerWebsite: e.DealerWebsite,
		VehicleURL:    detailURL,
		Year:          year,
		Make:          make,
		Model:         model,
		Trim:          trim,
		Condition:     condition,
		FuelType:      fuelType,
		Drivetrain:    drivetrain,
		Transmission:  transmission,
		BodyStyle:     bodyStyle,
		MSRP:          prices.MSRP,
		SalePrice:     prices.SalePrice,
		TotalPrice:    prices.Total,
		PriceNote:     priceNote,
		VIN:           vin,
		StockNumber:   stock,
		Mileage:       mileage,
		MileageUnits:  units,
		Availability:  availability,
		ExteriorColor: exterior,
		InteriorColor: interior,
		DealerCity:    e.City,
		DealerState:   e.State,
		Images:        images,
		Description:   description,
		Features:      features,
	})
	if err != nil {
		e.Logger.Warnf("%s: rejected record from %s: %v", e.DealerName, detailURL, err)
		return nil
	}
	return rec
}

func (e *Extractor) pageTitle(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		return strings.TrimSpace(h1.Text())
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (e *Extractor) vinFromKeywords(doc *goquery.Document) string {
	raw := extractFieldValue(doc, "vin")
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 17 {
		return b.String()
	}
	return ""
}

func (e *Extractor) extractMileage(doc *goquery.Document, pageText string) (*int, string) {
	if raw := patterns.ExtractMileage(pageText); raw != "" {
		if v, ok := patterns.ParsePriceInt(raw); ok {
			return &v, vehicle.UnitsMiles
		}
	}
	text := extractFieldValue(doc, "mileage")
	if text == "" {
		return nil, vehicle.UnitsMiles
	}
	return parseMileageText(text)
}

var mileageNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseMileageText reads a mileage figure plus its units from loose
// label text like "Odometer: 1,204 km".
func parseMileageText(text string) (*int, string) {
	m := mileageNumberRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return nil, vehicle.UnitsMiles
	}
	v, ok := patterns.ParsePriceInt(m)
	if !ok {
		return nil, vehicle.UnitsMiles
	}
	units := vehicle.UnitsMiles
	lower := strings.ToLower(text)
	if strings.Contains(lower, "km") || strings.Contains(lower, "kilometer") {
		units = vehicle.UnitsKilometers
	}
	return &v, units
}

func (e *Extractor) conditionText(doc *goquery.Document, pageText string) string {
	if raw := patterns.ExtractCondition(pageText); raw != "" {
		return raw
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		if raw := patterns.ExtractCondition(title); raw != "" {
			return raw
		}
	}
	return extractFieldValue(doc, "condition")
}

func (e *Extractor) extractAvailability(doc *goquery.Document, pageText string) string {
	if raw := patterns.ExtractAvailability(pageText); raw != "" {
		if status := patterns.NormalizeAvailability(raw); status != "" {
			return status
		}
	}
	if text := extractFieldValue(doc, "availability"); text != "" {
		if status := patterns.NormalizeAvailability(text); status != "" {
			return status
		}
	}
	// Status badges without a label structure.
	for _, sel := range findFieldElements(doc, "availability") {
		if status := patterns.NormalizeAvailability(sel.Text()); status != "" {
			return status
		}
	}
	return ""
}

// extractFuelType resolves fuel through the full priority chain.
// Structured data wins because dealer JSON-LD is the one field they
// reliably fill in.
func (e *Extractor) extractFuelType(doc *goquery.Document, pageText string) string {
	if ld := extractJSONLD(doc); ld != nil {
		if raw := jsonLDString(ld, "fuelType"); raw != "" {
			return patterns.NormalizeFuelType(raw)
		}
	}
	if raw := patterns.ExtractFuelTypeLabel(pageText); raw != "" {
		if fuel := patterns.NormalizeFuelType(raw); fuel != "" {
			return fuel
		}
	}
	if raw := patterns.ExtractFuelTypeValue(pageText); raw != "" {
		if fuel := patterns.NormalizeFuelType(raw); fuel != "" {
			return fuel
		}
	}
	if raw := patterns.ExtractEngine(pageText); raw != "" && patterns.IsElectricText(raw) {
		if fuel := patterns.NormalizeFuelType(raw); fuel != "" {
			return fuel
		}
	}
	if raw := extractFieldValue(doc, "fuel_type"); raw != "" {
		return patterns.NormalizeFuelType(raw)
	}
	return ""
}

func (e *Extractor) extractDrivetrain(pageText string) string {
	if raw := patterns.ExtractDrivetrainLabel(pageText); raw != "" {
		if dt := patterns.NormalizeDrivetrain(raw); dt != "" {
			return dt
		}
	}
	if raw := patterns.ExtractDrivetrainValue(pageText); raw != "" {
		if dt := patterns.NormalizeDrivetrain(raw); dt != "" {
			return dt
		}
	}
	return ""
}

func (e *Extractor) colorsFromKeywords(doc *goquery.Document) (string, string) {
	var exterior, interior string
	doc.Find("dt, th, label, span, td").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		lower := strings.ToLower(text)
		switch {
		case exterior == "" && (strings.Contains(lower, "exterior") || strings.Contains(lower, "ext.")):
			if v := patterns.ExtractExteriorColor(text); v != "" {
				exterior = patterns.CollapseSpaces(v)
			}
		case interior == "" && (strings.Contains(lower, "interior") || strings.Contains(lower, "int.")):
			if v := patterns.ExtractInteriorColor(text); v != "" {
				interior = patterns.CollapseSpaces(v)
			}
		}
	})
	return exterior, interior
}

// fallbackIdentity recovers year/make/model when the heading parse
// failed: keyword-classed name elements first, then a make-model scan
// of the whole page text.
func (e *Extractor) fallbackIdentity(doc *goquery.Document, pageText string, year int, make, model string) (int, string, string) {
	for _, sel := range findFieldElements(doc, "name") {
		parts := ParseTitle(strings.TrimSpace(sel.Text()))
		if make == "" && parts.Make != "" {
			make = parts.Make
		}
		if model == "" && parts.Model != "" {
			model = parts.Model
		}
		if year == 0 && parts.Year != 0 {
			year = parts.Year
		}
		if make != "" && model != "" {
			break
		}
	}
	if make == "" || model == "" {
		if m := makeModelFallbackRegex.FindStringSubmatch(pageText); m != nil {
			if make == "" {
				make = m[1]
			}
			if model == "" {
				model = strings.TrimSpace(m[2])
			}
		}
	}
	return year, make, model
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
var imagePathHints = []string{"vehicle", "inventory", "car"}

func (e *Extractor) extractImages(doc *goquery.Document) []string {
	base, _ := url.Parse(e.DealerWebsite)
	var images []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if len(images) >= maxImages {
			return
		}
		src, ok := s.Attr("src")
		if !ok || src == "" {
			if src, ok = s.Attr("data-src"); !ok || src == "" {
				if src, ok = s.Attr("data-lazy-src"); !ok {
					return
				}
			}
		}
		full := src
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				full = base.ResolveReference(ref).String()
			}
		}
		lower := strings.ToLower(full)
		if !containsAny(lower, imageExtensions) || !containsAny(lower, imagePathHints) {
			return
		}
		images = append(images, full)
	})
	return images
}

var descriptionClassHints = []string{"description", "details", "overview", "about"}

func (e *Extractor) extractDescription(doc *goquery.Document) string {
	var description string
	for _, hint := range descriptionClassHints {
		doc.Find("div, p, section").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if !strings.Contains(strings.ToLower(class), hint) {
				return true
			}
			text := strings.TrimSpace(s.Text())
			if len(text) > 50 {
				description = text
				return false
			}
			return true
		})
		if description != "" {
			break
		}
	}
	return description
}

var featureClassHints = []string{"feature", "option", "equipment", "standard", "included"}

func (e *Extractor) extractFeatures(doc *goquery.Document) []string {
	var features []string
	for _, hint := range featureClassHints {
		doc.Find("ul, div, dl").Each(func(_ int, container *goquery.Selection) {
			class, _ := container.Attr("class")
			if !strings.Contains(strings.ToLower(class), hint) {
				return
			}
			items := container.Find("li")
			if items.Length() == 0 {
				items = container.Find("span, div, dt, dd")
			}
			items.Each(func(_ int, item *goquery.Selection) {
				if len(features) >= maxFeatures {
					return
				}
				text := strings.TrimSpace(item.Text())
				if len(text) > 2 && len(text) < 100 {
					features = append(features, text)
				}
			})
		})
		if len(features) > 0 {
			break
		}
	}
	return features
}
