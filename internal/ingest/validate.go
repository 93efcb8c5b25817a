// Package ingest orchestrates a full ingestion run: fetch every configured
// sheet with stale-cache fallback, validate, normalize, merge, aggregate, and
// write the JSON artifacts the site renderer consumes.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// driftThreshold is the fraction of the previous run's row count below which
// the drift detector warns. A sheet shrinking past this usually means a
// publishing accident upstream, not real data.
const driftThreshold = 0.9

// ValidationReport summarizes one sheet's raw rows. It is ephemeral: logged
// and exposed through the health output, never persisted.
type ValidationReport struct {
	RowCount     int    `json:"row_count"`
	WarningCount int    `json:"warning_count"`
	OldestDate   string `json:"oldest_date"`
	NewestDate   string `json:"newest_date"`
}

// ValidateSheet scans raw rows for missing required fields and duplicate
// story ids, returning a report and human-readable warnings. It never drops
// rows; dropping is the normalizer's job. Row numbers count the header as
// row 1 so they match what an editor sees in the spreadsheet.
//
// A missing story_id does not warn: legacy rows predate the id column.
func ValidateSheet(csvText string) (ValidationReport, []string) {
	var report ValidationReport
	var warnings []string

	lines := domain.SplitLines(csvText)
	if len(lines) < 2 {
		return report, nil
	}
	cols := domain.NewColumnMap(lines[0])

	var oldest, newest time.Time
	firstSeen := make(map[string]int)

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rowNum := i + 2
		report.RowCount++

		row := domain.RowFromValues(domain.ParseLine(line), cols)

		if strings.TrimSpace(row.Date) == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing Date", rowNum))
		} else if date, err := domain.ParseDate(row.Date); err == nil {
			if oldest.IsZero() || date.Before(oldest) {
				oldest = date
			}
			if newest.IsZero() || date.After(newest) {
				newest = date
			}
		}

		if strings.TrimSpace(domain.StripQuotes(row.Headline)) == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing Headline", rowNum))
		}
		if strings.TrimSpace(domain.StripQuotes(row.Area)) == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing Area", rowNum))
		}

		if id := strings.TrimSpace(row.StoryID); id != "" {
			if first, ok := firstSeen[id]; ok {
				warnings = append(warnings, fmt.Sprintf("row %d: duplicate story_id %q first seen at row %d", rowNum, id, first))
			} else {
				firstSeen[id] = rowNum
			}
		}
	}

	if !oldest.IsZero() {
		report.OldestDate = oldest.Format("2006-01-02")
		report.NewestDate = newest.Format("2006-01-02")
	}
	report.WarningCount = len(warnings)
	return report, warnings
}

// CheckDrift compares the current total row count against the previous run's.
// It warns when the current count falls below 90% of the previous, a
// build-health signal rather than a correctness gate.
func CheckDrift(previousCount, currentCount int) (string, bool) {
	if previousCount <= 0 {
		return "", false
	}
	if float64(currentCount) >= float64(previousCount)*driftThreshold {
		return "", false
	}
	drop := (1 - float64(currentCount)/float64(previousCount)) * 100
	return fmt.Sprintf("row count dropped %.1f%% from previous run (%d -> %d)", drop, previousCount, currentCount), true
}
