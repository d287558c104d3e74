// internal/validator/report.go
package validator

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evscout/evscout/internal/vehicle"
)

var (
	dollarAmounts = regexp.MustCompile(`\$[\d,]+`)
	fourDigits    = regexp.MustCompile(`\d{4}`)
)

// Report aggregates validation outcomes across one scraping run.
// Issue messages are normalized (amounts and years replaced with
// placeholders) so recurring problems group together.
type Report struct {
	Total   int
	Valid   int
	Invalid int
	Issues  map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Issues: make(map[string]int)}
}

// Add records one validation outcome.
func (r *Report) Add(rec *vehicle.Record, valid bool, issues []string) {
	r.Total++
	if valid {
		r.Valid++
		return
	}
	r.Invalid++
	for _, issue := range issues {
		clean := dollarAmounts.ReplaceAllString(issue, "$$X")
		clean = fourDigits.ReplaceAllString(clean, "YYYY")
		r.Issues[clean]++
	}
}

// TopIssues returns the most frequent normalized issues, most common
// first, limited to n entries.
func (r *Report) TopIssues(n int) []string {
	type freq struct {
		msg   string
		count int
	}
	fs := make([]freq, 0, len(r.Issues))
	for msg, count := range r.Issues {
		fs = append(fs, freq{msg, count})
	}
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].count != fs[j].count {
			return fs[i].count > fs[j].count
		}
		return fs[i].msg < fs[j].msg
	})
	if n > len(fs) {
		n = len(fs)
	}
	out := make([]string, 0, n)
	for _, f := range fs[:n] {
		out = append(out, fmt.Sprintf("%s: %d occurrences", f.msg, f.count))
	}
	return out
}

// Write prints the human-readable run summary.
func (r *Report) Write(w io.Writer) {
	p := message.NewPrinter(language.AmericanEnglish)
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "DATA VALIDATION REPORT")
	fmt.Fprintln(w, line)
	p.Fprintf(w, "Total listings: %d\n", r.Total)
	if r.Total > 0 {
		p.Fprintf(w, "Valid: %d (%.1f%%)\n", r.Valid, float64(r.Valid)/float64(r.Total)*100)
		p.Fprintf(w, "Invalid: %d (%.1f%%)\n", r.Invalid, float64(r.Invalid)/float64(r.Total)*100)
	} else {
		fmt.Fprintln(w, "Valid: 0")
		fmt.Fprintln(w, "Invalid: 0")
	}
	if top := r.TopIssues(10); len(top) > 0 {
		fmt.Fprintln(w, "\nTop issues found:")
		for _, issue := range top {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	fmt.Fprintln(w, line)
}
