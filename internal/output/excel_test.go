// internal/output/excel_test.go
package output

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/evscout/evscout/internal/vehicle"
)

func TestExcelWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.xlsx")
	w, err := NewExcelWriter(path)
	if err != nil {
		t.Fatalf("NewExcelWriter: %v", err)
	}
	if err := w.Append([]*vehicle.Record{
		testRecord(t, "KM8KN4AE5RU123456"),
		testRecord(t, "5YJ3E1EA7KF123456"),
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(excelSheetName)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "dealer_name" {
		t.Errorf("header starts with %q, want dealer_name", rows[0][0])
	}
	vinCol := -1
	for i, h := range rows[0] {
		if h == "vin" {
			vinCol = i
		}
	}
	if vinCol < 0 {
		t.Fatalf("vin column missing from header")
	}
	if rows[1][vinCol] != "KM8KN4AE5RU123456" {
		t.Errorf("row 1 vin = %q", rows[1][vinCol])
	}
	if rows[2][vinCol] != "5YJ3E1EA7KF123456" {
		t.Errorf("row 2 vin = %q", rows[2][vinCol])
	}
}
