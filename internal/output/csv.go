// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/evscout/evscout/internal/vehicle"
)

// CSVWriter streams records as CSV rows in the canonical column
// order. The header goes out when the file is opened.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates path and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("CSV output path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(fieldNames); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVWriter{file: f, writer: w}, nil
}

// Append writes one row per record and flushes.
func (w *CSVWriter) Append(records []*vehicle.Record) error {
	if w.writer == nil {
		return fmt.Errorf("writer already closed")
	}
	for _, r := range records {
		if err := w.writer.Write(fieldStrings(r)); err != nil {
			return fmt.Errorf("writing record row: %w", err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the file.
func (w *CSVWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
		w.writer = nil
	}
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
