package domain

import (
	"regexp"
	"strings"
)

// surroundingQuotesRe matches plain or smart quotes wrapping a value, e.g.
// `"Port of Spain"` or `“Maraval”`.
var surroundingQuotesRe = regexp.MustCompile(`^["` + "“”" + `]+|["` + "“”" + `]+$`)

// ParseLine splits one CSV line into trimmed field values. A double quote
// toggles quoted state and commas inside a quoted region do not split.
// Escaped quotes are not supported; the spreadsheet export never produces
// them, and published slugs depend on these exact semantics.
//
// A line with no commas yields a single-element result, never an empty slice.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// ColumnMap maps lowercase header names to zero-based column indices.
type ColumnMap map[string]int

// NewColumnMap parses a CSV header line into a case-insensitive column map.
func NewColumnMap(headerLine string) ColumnMap {
	m := make(ColumnMap)
	for i, name := range ParseLine(headerLine) {
		m[strings.ToLower(strings.TrimSpace(StripQuotes(name)))] = i
	}
	return m
}

// Value returns the named column's cell from values. Lookup is
// case-insensitive; an unknown column or a row too short to hold it yields an
// empty string rather than an error.
func (m ColumnMap) Value(values []string, column string) string {
	idx, ok := m[strings.ToLower(column)]
	if !ok || idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

// StripQuotes removes surrounding plain and smart quotes plus whitespace.
// Sheet editors paste headlines from word processors, which smart-quote them.
func StripQuotes(s string) string {
	return strings.TrimSpace(surroundingQuotesRe.ReplaceAllString(s, ""))
}

// SplitLines breaks a CSV payload into lines, tolerating both \n and \r\n
// endings from the export.
func SplitLines(csvText string) []string {
	lines := strings.Split(csvText, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
