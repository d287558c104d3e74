// internal/output/types.go

// Package output persists scraped vehicle records. Every backend
// implements the same streaming Writer contract: Append is called per
// source as the run progresses, Close flushes and releases resources.
package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evscout/evscout/internal/vehicle"
)

// Format selects an output backend.
type Format string

const (
	FormatJSON       Format = "json"
	FormatJSONLines  Format = "jsonl"
	FormatCSV        Format = "csv"
	FormatSQLite     Format = "sqlite"
	FormatPostgreSQL Format = "postgresql"
	FormatMySQL      Format = "mysql"
	FormatMongoDB    Format = "mongodb"
	FormatExcel      Format = "excel"
)

// ValidFormats lists every supported backend.
func ValidFormats() []Format {
	return []Format{
		FormatJSON, FormatJSONLines, FormatCSV, FormatSQLite,
		FormatPostgreSQL, FormatMySQL, FormatMongoDB, FormatExcel,
	}
}

// IsValid reports whether the format names a supported backend.
func (f Format) IsValid() bool {
	for _, v := range ValidFormats() {
		if f == v {
			return true
		}
	}
	return false
}

// ConflictStrategy controls what the database backends do when an
// incoming VIN already exists.
type ConflictStrategy string

const (
	ConflictIgnore  ConflictStrategy = "ignore"
	ConflictReplace ConflictStrategy = "replace"
	ConflictError   ConflictStrategy = "error"
)

// Config selects and parameterizes a backend. File is the target path
// for file backends and the database path for SQLite; ConnString and
// Table drive the server databases.
type Config struct {
	Format     Format           `yaml:"format" json:"format"`
	File       string           `yaml:"file,omitempty" json:"file,omitempty"`
	ConnString string           `yaml:"conn_string,omitempty" json:"conn_string,omitempty"`
	Database   string           `yaml:"database,omitempty" json:"database,omitempty"`
	Table      string           `yaml:"table,omitempty" json:"table,omitempty"`
	BatchSize  int              `yaml:"batch_size,omitempty" json:"batch_size,omitempty"`
	OnConflict ConflictStrategy `yaml:"on_conflict,omitempty" json:"on_conflict,omitempty"`
}

// Writer is the streaming sink contract. Append may be called many
// times; records must be durable once Close returns nil.
type Writer interface {
	Append(records []*vehicle.Record) error
	Close() error
}

// fieldNames is the canonical column order shared by the CSV, Excel
// and SQL backends. It mirrors the record's JSON field names.
var fieldNames = []string{
	"dealer_name", "dealer_website", "vehicle_url",
	"year", "make", "model", "trim", "body_style",
	"new_used", "msrp", "sale_price", "total_price", "currency", "price_note",
	"fuel_type", "drivetrain", "transmission",
	"vin", "stock_number",
	"mileage", "mileage_units", "exterior_color", "interior_color",
	"in_stock_status", "dealer_location_city", "dealer_location_state",
	"images", "description", "features",
	"scraped_at",
}

// fieldValues renders one record into the fieldNames order. Optional
// numerics become nil; list fields are joined for the flat backends.
func fieldValues(r *vehicle.Record) []interface{} {
	return []interface{}{
		r.DealerName, r.DealerWebsite, r.VehicleURL,
		r.Year, r.Make, r.Model, r.Trim, r.BodyStyle,
		string(r.Condition), floatOrNil(r.MSRP), floatOrNil(r.SalePrice), floatOrNil(r.TotalPrice), r.Currency, r.PriceNote,
		r.FuelType, r.Drivetrain, r.Transmission,
		r.VIN, r.StockNumber,
		intOrNil(r.Mileage), r.MileageUnits, r.ExteriorColor, r.InteriorColor,
		string(r.Availability), r.DealerCity, r.DealerState,
		strings.Join(r.Images, "; "), r.Description, strings.Join(r.Features, "; "),
		r.ScrapedAt.Format(time.RFC3339),
	}
}

// fieldStrings renders one record as CSV cells in fieldNames order.
func fieldStrings(r *vehicle.Record) []string {
	values := fieldValues(r)
	out := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			out[i] = t
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[i] = fmt.Sprintf("%v", t)
		}
	}
	return out
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
