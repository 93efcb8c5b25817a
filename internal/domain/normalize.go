package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxSlugLen = 80

var (
	// nonAlnumRunRe collapses runs of anything outside [a-z0-9] for headline
	// slugs, matching the published URL scheme.
	nonAlnumRunRe = regexp.MustCompile(`[^a-z0-9]+`)

	// nonAlnumSpaceRe clears punctuation before word extraction for
	// story-id slugs, keeping whitespace as the word separator.
	nonAlnumSpaceRe = regexp.MustCompile(`[^a-z0-9\s]+`)
)

// fallbackDateLayouts cover hand-entered rows that bypass the spreadsheet's
// M/D/YYYY export format.
var fallbackDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a sheet Date cell. The primary shape is M/D/YYYY with a
// 1-based month; other shapes go through the fallback layouts. The returned
// time is midnight UTC at day granularity.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(StripQuotes(s))
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		month, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
		day, errD := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errM == nil && errD == nil && errY == nil &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 && year >= 1000 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Slugify lowercases, collapses non-alphanumeric runs to single hyphens,
// trims leading/trailing hyphens, and truncates to 80 characters. Truncation
// happens last and is not re-trimmed; existing published URLs were generated
// that way and must keep resolving.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// HeadlineSlug is the legacy slug form: slugified headline plus ISO date,
// e.g. "man-robbed-on-main-st-2026-01-05".
func HeadlineSlug(headline string, date time.Time) string {
	return Slugify(headline) + "-" + date.Format("2006-01-02")
}

// StoryIDSlug is the current slug form: the external id plus the first six
// whitespace-separated words of the cleaned headline.
func StoryIDSlug(storyID, headline string) string {
	cleaned := nonAlnumSpaceRe.ReplaceAllString(strings.ToLower(headline), " ")
	words := strings.Fields(cleaned)
	if len(words) > 6 {
		words = words[:6]
	}
	return storyID + "-" + strings.Join(words, "-")
}

// IncidentSlug picks the slug form based on whether an external id exists.
// Both forms are deterministic: the redirect map and SEO continuity depend on
// regenerating identical slugs from identical inputs.
func IncidentSlug(storyID, headline string, date time.Time) string {
	if storyID != "" {
		return StoryIDSlug(storyID, headline)
	}
	return HeadlineSlug(headline, date)
}

// SplitCrimeTypes splits a comma-separated crime-type cell into trimmed,
// non-empty entries. Returns nil for an empty cell.
func SplitCrimeTypes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var types []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// NormalizeRow converts a RawRow into an Incident or rejects it. Rejection
// means the row is skipped; ingestion always continues over the rest of the
// sheet. Rules:
//
//   - no headline or no parseable date → reject
//   - primaryCrimeType wins, legacy Crime Type is the fallback
//   - victimCount defaults to 1 when absent, malformed, or non-positive
//   - coordinates stay NaN when absent or malformed
func NormalizeRow(row RawRow) (Incident, error) {
	headline := strings.TrimSpace(StripQuotes(row.Headline))
	if headline == "" {
		return Incident{}, errors.New("missing headline")
	}

	date, err := ParseDate(row.Date)
	if err != nil {
		return Incident{}, fmt.Errorf("bad date: %w", err)
	}

	primary := strings.TrimSpace(row.PrimaryCrimeType)
	if primary == "" {
		primary = strings.TrimSpace(row.LegacyCrimeType)
	}

	victimCount := 1
	if n, convErr := strconv.Atoi(strings.TrimSpace(row.VictimCount)); convErr == nil && n >= 1 {
		victimCount = n
	}

	storyID := strings.TrimSpace(row.StoryID)

	return Incident{
		ID:                storyID,
		Date:              date,
		Headline:          headline,
		Summary:           strings.TrimSpace(row.Summary),
		PrimaryCrimeType:  primary,
		RelatedCrimeTypes: SplitCrimeTypes(row.RelatedCrimeTypes),
		VictimCount:       victimCount,
		Street:            strings.TrimSpace(row.Street),
		Area:              strings.TrimSpace(StripQuotes(row.Area)),
		Region:            strings.TrimSpace(StripQuotes(row.Region)),
		Latitude:          parseCoordinate(row.Latitude),
		Longitude:         parseCoordinate(row.Longitude),
		SourceURL:         strings.TrimSpace(row.URL),
		SourceName:        strings.TrimSpace(row.Source),
		Slug:              IncidentSlug(storyID, headline, date),
	}, nil
}

// parseCoordinate returns NaN for absent or malformed values. A 0,0 default
// would silently place incidents in the Gulf of Guinea.
func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseSheet parses a full CSV payload into normalized incidents, skipping
// blank lines and rejected rows. The skipped count covers rejected rows only.
func ParseSheet(csvText string) (incidents []Incident, skipped int) {
	lines := SplitLines(csvText)
	if len(lines) < 2 {
		return nil, 0
	}

	cols := NewColumnMap(lines[0])
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := RowFromValues(ParseLine(line), cols)
		incident, err := NormalizeRow(row)
		if err != nil {
			skipped++
			continue
		}
		incidents = append(incidents, incident)
	}
	return incidents, skipped
}
