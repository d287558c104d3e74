// internal/output/manager.go
package output

import (
	"fmt"
)

// NewWriter builds the backend for cfg.Format.
func NewWriter(cfg Config) (Writer, error) {
	switch cfg.Format {
	case FormatJSON:
		return NewJSONWriter(cfg.File)
	case FormatJSONLines:
		return NewJSONLinesWriter(cfg.File)
	case FormatCSV:
		return NewCSVWriter(cfg.File)
	case FormatSQLite:
		return NewSQLiteWriter(cfg)
	case FormatPostgreSQL:
		return NewPostgreSQLWriter(cfg)
	case FormatMySQL:
		return NewMySQLWriter(cfg)
	case FormatMongoDB:
		return NewMongoDBWriter(cfg)
	case FormatExcel:
		return NewExcelWriter(cfg.File)
	default:
		return nil, fmt.Errorf("unsupported output format %q (valid: %v)", cfg.Format, ValidFormats())
	}
}
