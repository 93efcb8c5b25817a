// Package stats computes derived crime statistics over normalized incident
// sets. Every function is pure: window cutoffs take an explicit "now" and
// crime-type policy arrives as injected lookups, so aggregations are fully
// table-testable.
package stats

import (
	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// VictimCountPolicy reports whether a primary crime type multiplies by victim
// count. Unconfigured types must return false.
type VictimCountPolicy func(crimeType string) bool

// RiskWeightFunc returns the severity weight for a crime type (>= 1).
type RiskWeightFunc func(crimeType string) int

// CountCrimeType counts incidents matching targetType. An incident counts via
// its primary type or via membership in its related-types list, never both in
// the same call:
//
//   - primary match: victimCount when the policy says so and victimCount > 1,
//     otherwise 1
//   - related match: always exactly 1, regardless of victim count
//
// Counting is not mutually exclusive across calls; one incident contributes
// to its primary type and to each related type.
func CountCrimeType(incidents []domain.Incident, targetType string, policy VictimCountPolicy) int {
	total := 0

	for _, in := range incidents {
		if in.PrimaryCrimeType == targetType {
			if policy != nil && policy(targetType) && in.VictimCount > 1 {
				total += in.VictimCount
			} else {
				total++
			}
			continue
		}

		for _, related := range in.RelatedCrimeTypes {
			if related == targetType {
				total++
				break
			}
		}
	}

	return total
}

// TotalCrimeCount is the number of crime events, not incident records: each
// record contributes 1 for its primary type plus 1 per related type. A
// multi-type record therefore represents several crimes.
func TotalCrimeCount(incidents []domain.Incident) int {
	total := 0
	for _, in := range incidents {
		if in.PrimaryCrimeType != "" {
			total++
		}
		total += len(in.RelatedCrimeTypes)
	}
	return total
}

// TotalVictims sums victim counts, computed once per record on the primary
// type only: victimCount when the primary type is victim-counted, else 1.
func TotalVictims(incidents []domain.Incident, policy VictimCountPolicy) int {
	total := 0
	for _, in := range incidents {
		if policy != nil && policy(in.PrimaryCrimeType) {
			total += in.VictimCount
		} else {
			total++
		}
	}
	return total
}

// CrimeTypeBreakdown returns counts for each tracked type, omitting zeros.
func CrimeTypeBreakdown(incidents []domain.Incident, trackedTypes []string, policy VictimCountPolicy) map[string]int {
	breakdown := make(map[string]int)
	for _, crimeType := range trackedTypes {
		if count := CountCrimeType(incidents, crimeType, policy); count > 0 {
			breakdown[crimeType] = count
		}
	}
	return breakdown
}
