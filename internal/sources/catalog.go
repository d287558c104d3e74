// internal/sources/catalog.go

// Package sources loads the dealership catalog: the list of sites the
// pipeline treats as units of checkpointable work.
package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/evscout/evscout/internal/utils"
)

// Source describes one dealership website to scrape.
type Source struct {
	ID           string
	Name         string
	BaseURL      string
	InventoryURL string // optional direct link to the new-inventory page
	City         string
}

var idSanitizer = regexp.MustCompile(`[^a-z0-9_]`)

// sanitizeID derives a stable source id from a display name.
func sanitizeID(name string) string {
	id := strings.ToLower(name)
	for _, r := range []string{" ", "-", "/"} {
		id = strings.ReplaceAll(id, r, "_")
	}
	return idSanitizer.ReplaceAllString(id, "")
}

// LoadCSV reads a dealership catalog. Two header formats are accepted:
// the current one (id,name,base_url,new_inventory_url[,city]) and the
// legacy one (Dealership Name,Website,City). Rows with missing
// requireds or non-absolute URLs are skipped with a warning rather
// than failing the whole catalog.
func LoadCSV(path string, logger utils.Logger) ([]Source, error) {
	if logger == nil {
		logger = utils.NewLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return parseCatalog(f, logger)
}

func parseCatalog(r io.Reader, logger utils.Logger) ([]Source, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	_, hasID := col["id"]
	_, hasName := col["name"]
	_, hasBase := col["base_url"]
	newFormat := hasID && hasName && hasBase

	_, hasLegacyName := col["Dealership Name"]
	_, hasLegacySite := col["Website"]
	legacyFormat := hasLegacyName && hasLegacySite

	if !newFormat && !legacyFormat {
		return nil, fmt.Errorf("catalog must contain either (id,name,base_url) or (Dealership Name,Website) columns")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Source
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed parsing catalog row %d: %w", rowNum, err)
		}

		var src Source
		if newFormat {
			src = Source{
				ID:           field(row, "id"),
				Name:         field(row, "name"),
				BaseURL:      field(row, "base_url"),
				InventoryURL: field(row, "new_inventory_url"),
				City:         field(row, "city"),
			}
			if src.ID == "" || src.Name == "" || src.BaseURL == "" {
				logger.Warnf("Skipping catalog row %d: missing id, name, or base_url", rowNum)
				continue
			}
		} else {
			src = Source{
				Name:    field(row, "Dealership Name"),
				BaseURL: field(row, "Website"),
				City:    field(row, "City"),
			}
			if src.Name == "" || src.BaseURL == "" {
				logger.Warnf("Skipping catalog row %d: missing name or website", rowNum)
				continue
			}
			src.ID = sanitizeID(src.Name)
		}

		if !strings.HasPrefix(src.BaseURL, "http://") && !strings.HasPrefix(src.BaseURL, "https://") {
			logger.Warnf("Skipping catalog row %d: %q is not an absolute URL", rowNum, src.BaseURL)
			continue
		}
		src.BaseURL = strings.TrimRight(src.BaseURL, "/")
		if src.InventoryURL != "" {
			src.InventoryURL = strings.TrimRight(src.InventoryURL, "/")
		}
		out = append(out, src)
	}

	logger.Infof("Loaded %d sources from catalog", len(out))
	return out, nil
}

// ByName returns the first source whose name contains the query,
// case-insensitively, or nil.
func ByName(catalog []Source, name string) *Source {
	q := strings.ToLower(name)
	for i := range catalog {
		if strings.Contains(strings.ToLower(catalog[i].Name), q) {
			return &catalog[i]
		}
	}
	return nil
}

// ByCity returns every source located in the given city,
// case-insensitively.
func ByCity(catalog []Source, city string) []Source {
	q := strings.ToLower(city)
	var out []Source
	for _, src := range catalog {
		if strings.Contains(strings.ToLower(src.City), q) {
			out = append(out, src)
		}
	}
	return out
}

// State infers the US state for a source city. The catalog is
// Portland-area dealers, so Oregon is the default.
func (s Source) State() string {
	upper := strings.ToUpper(s.City)
	if strings.Contains(upper, "WA") || strings.Contains(s.City, "Washington") {
		return "WA"
	}
	return "OR"
}

// CityName strips any parenthetical qualifier from the catalog city,
// e.g. "Portland (Beaverton area)" becomes "Portland".
func (s Source) CityName() string {
	if i := strings.Index(s.City, "("); i >= 0 {
		return strings.TrimSpace(s.City[:i])
	}
	return s.City
}
