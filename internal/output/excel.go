// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/evscout/evscout/internal/vehicle"
)

const excelSheetName = "Vehicles"

// ExcelWriter accumulates rows in an in-memory workbook and saves it
// on Close. Column order matches the CSV backend.
type ExcelWriter struct {
	file     *excelize.File
	filePath string
	nextRow  int
}

// NewExcelWriter creates the workbook with a styled header row.
func NewExcelWriter(filePath string) (*ExcelWriter, error) {
	if filePath == "" {
		return nil, fmt.Errorf("output file path is required")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(fieldNames))
	for i, name := range fieldNames {
		header[i] = name
	}
	if err := f.SetSheetRow(excelSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(fieldNames), 1)
		f.SetCellStyle(excelSheetName, "A1", end, style)
	}

	return &ExcelWriter{file: f, filePath: filePath, nextRow: 2}, nil
}

func (w *ExcelWriter) Append(records []*vehicle.Record) error {
	if w.file == nil {
		return fmt.Errorf("writer already closed")
	}
	for _, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, w.nextRow)
		if err != nil {
			return fmt.Errorf("computing row anchor: %w", err)
		}
		row := fieldValues(r)
		if err := w.file.SetSheetRow(excelSheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", w.nextRow, err)
		}
		w.nextRow++
	}
	return nil
}

// Close saves the workbook to disk.
func (w *ExcelWriter) Close() error {
	if w.file == nil {
		return nil
	}
	defer func() { w.file = nil }()
	if err := w.file.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return w.file.Close()
}
