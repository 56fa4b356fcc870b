// Package quote resolves watchlist symbols into quote outcomes using a
// CSV quote endpoint and a single market-suffix fallback.
package quote

import "strings"

// Record maps header names to the raw values of one data row.
// A header with no matching data column maps to nil.
type Record map[string]*string

// ParseRecord builds a Record from a header line and a single data line of
// comma-separated text. It returns false when the text has fewer than two
// lines. Quoting is not supported: a comma inside a value shifts columns.
func ParseRecord(text string) (Record, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, false
	}
	headers := splitFields(lines[0])
	values := splitFields(lines[1])

	rec := make(Record, len(headers))
	for i, h := range headers {
		if i < len(values) {
			v := values[i]
			rec[h] = &v
		} else {
			rec[h] = nil
		}
	}
	return rec, true
}

// Field returns the raw value for name, or nil if the column is absent.
func (r Record) Field(name string) *string {
	if r == nil {
		return nil
	}
	return r[name]
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
