// internal/patterns/keywords.go
package patterns

import "strings"

// FieldKeywords are the label vocabularies used by the
// keyword-proximity fallback when regex extraction finds nothing.
// Dealer platforms vary wildly in markup but reuse these label texts.
var FieldKeywords = map[string][]string{
	"name": {
		"New",
		"Used",
		"Certified",
	},
	"price": {
		"MSRP",
		"Internet Price",
		"Sale Price",
		"Our Price",
		"Dealer Price",
		"No Bull Price",
		"One Price",
		"E-Price",
		"Request ePrice",
		"$",
	},
	"vin": {
		"VIN",
		"Vin:",
		"Vehicle Identification Number",
	},
	"stock_number": {
		"Stock #",
		"Stock:",
		"Stock Number",
		"Stk #",
	},
	"mileage": {
		"Mileage",
		"Odometer",
		"Miles",
		"mi.",
	},
	"condition": {
		"Condition",
		"New",
		"Used",
		"Pre-Owned",
		"Certified Pre-Owned",
		"CPO",
	},
	"fuel_type": {
		"Fuel Type",
		"Fuel",
		"Engine",
		"Hybrid",
		"Plug-In Hybrid",
		"PHEV",
		"Electric",
		"EV",
		"Battery Electric",
		"BEV",
	},
	"availability": {
		"In Stock",
		"Available",
		"In Transit",
		"On the Way",
		"Sold",
		"Reserved",
		"Order Yours",
	},
	"body_style": {
		"Body Style",
		"Body:",
		"Sedan",
		"SUV",
		"Truck",
		"Hatchback",
		"Wagon",
	},
	"colors": {
		"Exterior Color",
		"Interior Color",
		"Ext. Color",
		"Int. Color",
		"Exterior:",
		"Interior:",
	},
}

// Keywords returns the keyword list for a field, nil when unknown.
func Keywords(field string) []string {
	return FieldKeywords[field]
}

// ContainsKeyword reports whether text contains any keyword of the
// field, case-insensitively.
func ContainsKeyword(text, field string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range FieldKeywords[field] {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
