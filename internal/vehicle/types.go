// internal/vehicle/types.go

// Package vehicle defines the canonical record type produced by the
// extraction pipeline. A Record is constructed once per scraped detail
// page and is immutable afterwards, except for checkpoint round-tripping.
package vehicle

import (
	"fmt"
	"strings"
	"time"
)

// Condition is the three-way new/used classification.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
	ConditionCPO  Condition = "cpo"
)

// Availability is the stock status of a listing.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityInTransit Availability = "in_transit"
	AvailabilitySold      Availability = "sold"
	AvailabilityReserved  Availability = "reserved"
)

// Mileage units.
const (
	UnitsMiles      = "mi"
	UnitsKilometers = "km"
)

// Record is one extracted vehicle listing. Optional numeric fields use
// pointers so absence survives serialization; optional strings use the
// empty string.
type Record struct {
	// Identity
	DealerName    string `json:"dealer_name"`
	DealerWebsite string `json:"dealer_website"`
	VehicleURL    string `json:"vehicle_url"`

	// Description
	Year      int    `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Trim      string `json:"trim,omitempty"`
	BodyStyle string `json:"body_style,omitempty"`

	// Commercial
	Condition  Condition `json:"new_used"`
	MSRP       *float64  `json:"msrp,omitempty"`
	SalePrice  *float64  `json:"sale_price,omitempty"`
	TotalPrice *float64  `json:"total_price,omitempty"`
	Currency   string    `json:"currency"`
	PriceNote  string    `json:"price_note,omitempty"`

	// Mechanical
	FuelType     string `json:"fuel_type,omitempty"`
	Drivetrain   string `json:"drivetrain,omitempty"`
	Transmission string `json:"transmission,omitempty"`

	// Identification
	VIN         string `json:"vin,omitempty"`
	StockNumber string `json:"stock_number,omitempty"`

	// Physical
	Mileage       *int   `json:"mileage,omitempty"`
	MileageUnits  string `json:"mileage_units"`
	ExteriorColor string `json:"exterior_color,omitempty"`
	InteriorColor string `json:"interior_color,omitempty"`

	// Status
	Availability Availability `json:"in_stock_status,omitempty"`

	// Location
	DealerCity  string `json:"dealer_location_city,omitempty"`
	DealerState string `json:"dealer_location_state,omitempty"`

	// Media
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features"`

	// Provenance
	ScrapedAt time.Time `json:"scraped_at"`
}

// Validate checks construction invariants. Records failing these checks
// are meaningless and must be rejected before entering the pipeline.
func (r *Record) Validate() error {
	if r.DealerName == "" && r.DealerWebsite == "" && r.VehicleURL == "" && r.Make == "" && r.Model == "" {
		return fmt.Errorf("record carries no identifying fields")
	}
	maxYear := time.Now().Year() + 1
	if r.Year < 1900 || r.Year > maxYear {
		return fmt.Errorf("year %d outside [1900, %d]", r.Year, maxYear)
	}
	switch r.Condition {
	case ConditionNew, ConditionUsed, ConditionCPO:
	default:
		return fmt.Errorf("invalid condition %q", r.Condition)
	}
	if r.Mileage != nil && *r.Mileage < 0 {
		return fmt.Errorf("negative mileage %d", *r.Mileage)
	}
	for name, p := range map[string]*float64{"msrp": r.MSRP, "sale_price": r.SalePrice, "total_price": r.TotalPrice} {
		if p != nil && *p < 0 {
			return fmt.Errorf("negative %s %.2f", name, *p)
		}
	}
	return nil
}

// New fills defaults, validates, and returns the record. Currency
// defaults to USD, mileage units to miles, condition to new, and
// ScrapedAt to now when unset.
func New(r Record) (*Record, error) {
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if r.MileageUnits == "" {
		r.MileageUnits = UnitsMiles
	}
	if r.Condition == "" {
		r.Condition = ConditionNew
	}
	if r.ScrapedAt.IsZero() {
		r.ScrapedAt = time.Now()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Price returns the effective price: sale price, then total price,
// then MSRP, else zero.
func (r *Record) Price() float64 {
	switch {
	case r.SalePrice != nil && *r.SalePrice > 0:
		return *r.SalePrice
	case r.TotalPrice != nil && *r.TotalPrice > 0:
		return *r.TotalPrice
	case r.MSRP != nil && *r.MSRP > 0:
		return *r.MSRP
	}
	return 0
}

// IsElectric reports whether the normalized fuel type falls in the
// electric vocabulary.
func (r *Record) IsElectric() bool {
	switch strings.ToLower(r.FuelType) {
	case "electric", "ev", "bev", "phev", "plug-in", "plugin":
		return true
	}
	return false
}

// VINKey returns the normalized VIN identity key, or "" when absent.
func (r *Record) VINKey() string {
	return strings.ToUpper(strings.TrimSpace(r.VIN))
}

// URLKey returns the normalized URL identity key, or "" when absent.
func (r *Record) URLKey() string {
	return strings.ToLower(strings.TrimSpace(r.VehicleURL))
}

// IsNew reports whether the record looks like a genuinely new vehicle:
// condition new with mileage at or under maxMileage, or unknown mileage
// on a current-or-next model year.
func (r *Record) IsNew(maxMileage int) bool {
	if r.Condition != ConditionNew {
		return false
	}
	if r.Mileage == nil {
		return r.Year >= time.Now().Year()-1
	}
	return *r.Mileage <= maxMileage
}
