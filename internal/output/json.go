// internal/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evscout/evscout/internal/vehicle"
)

// JSONWriter accumulates records and writes one indented JSON array on
// Close, matching the layout consumers of the nightly export expect.
type JSONWriter struct {
	path    string
	records []*vehicle.Record
	closed  bool
}

// NewJSONWriter returns a writer targeting path. The file is created
// on Close so a failed run leaves no half-written array behind.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("JSON output path is required")
	}
	return &JSONWriter{path: path}, nil
}

// Append buffers records for the final array.
func (w *JSONWriter) Append(records []*vehicle.Record) error {
	if w.closed {
		return fmt.Errorf("writer already closed")
	}
	w.records = append(w.records, records...)
	return nil
}

// Close writes the array and releases the writer.
func (w *JSONWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if w.records == nil {
		w.records = []*vehicle.Record{}
	}
	if err := enc.Encode(w.records); err != nil {
		f.Close()
		return fmt.Errorf("encoding records: %w", err)
	}
	return f.Close()
}

// JSONLinesWriter streams one JSON object per line as records arrive,
// so a crash mid-run still leaves every completed source on disk.
type JSONLinesWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewJSONLinesWriter opens path for line-delimited streaming.
func NewJSONLinesWriter(path string) (*JSONLinesWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("JSON-lines output path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &JSONLinesWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Append writes each record as its own line and syncs.
func (w *JSONLinesWriter) Append(records []*vehicle.Record) error {
	if w.file == nil {
		return fmt.Errorf("writer already closed")
	}
	for _, r := range records {
		if err := w.enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	return w.file.Sync()
}

// Close closes the underlying file.
func (w *JSONLinesWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
