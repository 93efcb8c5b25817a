package domain

import "strings"

// ParseAreaAliases reads the RegionData sheet (Area, Region, Division,
// known_as) and returns canonical area name → locally-known name. An entry is
// materialized only when both names are non-empty and differ; an identical
// alias would render a pointless tooltip.
//
// Returns an empty map when the payload is missing either required column.
func ParseAreaAliases(csvText string) map[string]string {
	aliases := make(map[string]string)

	lines := SplitLines(strings.TrimSpace(csvText))
	if len(lines) < 2 {
		return aliases
	}

	cols := NewColumnMap(lines[0])
	if _, ok := cols["area"]; !ok {
		return aliases
	}
	if _, ok := cols["known_as"]; !ok {
		return aliases
	}

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := ParseLine(line)
		area := StripQuotes(cols.Value(values, "Area"))
		knownAs := StripQuotes(cols.Value(values, "known_as"))
		if area != "" && knownAs != "" && knownAs != area {
			aliases[area] = knownAs
		}
	}

	return aliases
}
