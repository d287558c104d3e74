// internal/extractor/structured.go
package extractor

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
)

// vehicleSchemaTypes are the schema.org @type values that mark a
// JSON-LD block as describing a vehicle.
var vehicleSchemaTypes = map[string]bool{
	"Vehicle":    true,
	"Car":        true,
	"Automotive": true,
}

// extractJSONLD returns the first embedded JSON-LD object with a
// vehicle schema type, or nil. Malformed script blocks are skipped.
func extractJSONLD(doc *goquery.Document) map[string]interface{} {
	var found map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		switch v := raw.(type) {
		case map[string]interface{}:
			if isVehicleSchema(v) {
				found = v
				return false
			}
		case []interface{}:
			for _, item := range v {
				if obj, ok := item.(map[string]interface{}); ok && isVehicleSchema(obj) {
					found = obj
					return false
				}
			}
		}
		return true
	})
	return found
}

func isVehicleSchema(obj map[string]interface{}) bool {
	t, _ := obj["@type"].(string)
	return vehicleSchemaTypes[t]
}

// jsonLDString reads a string property from a JSON-LD object.
func jsonLDString(obj map[string]interface{}, key string) string {
	if obj == nil {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}
