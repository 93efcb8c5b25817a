package ingest

import (
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/config"
	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
	"github.com/crimehotspots/crime-data-pipeline/internal/stats"
)

// Summary is the derived-statistics artifact the dashboard renders directly,
// so the client never recomputes aggregates from the raw dataset.
type Summary struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	TotalCrimes  int                 `json:"total_crimes"`
	TotalVictims int                 `json:"total_victims"`
	Breakdown    map[string]int      `json:"breakdown"`
	HotAreas     []stats.HotArea     `json:"hot_areas"`
	AreaScores   []stats.AreaScore   `json:"area_scores"`
	AreaRisk     []stats.AreaRisk    `json:"area_risk"`
	YearOverYear []stats.Comparison  `json:"year_over_year"`
	TopRegions   []stats.RegionStats `json:"top_regions"`
	Insights     stats.Insights      `json:"insights"`
}

// BuildSummary runs every aggregation over the merged dataset. now drives the
// hot-area, risk-window, and year-to-date cutoffs.
func BuildSummary(incidents []domain.Incident, weights *config.Weights, now time.Time, hotAreaLimit, riskWindowDays int) Summary {
	policy := stats.VictimCountPolicy(weights.UsesVictimCount)
	weight := stats.RiskWeightFunc(weights.RiskWeight)

	currentYear := now.Year()
	var current, previous []domain.Incident
	for _, in := range incidents {
		switch in.Date.Year() {
		case currentYear:
			current = append(current, in)
		case currentYear - 1:
			previous = append(previous, in)
		}
	}

	return Summary{
		GeneratedAt:  now.UTC(),
		TotalCrimes:  stats.TotalCrimeCount(incidents),
		TotalVictims: stats.TotalVictims(incidents, policy),
		Breakdown:    stats.CrimeTypeBreakdown(incidents, weights.TrackedCrimeTypes, policy),
		HotAreas:     stats.HotAreas(incidents, now, hotAreaLimit),
		AreaScores:   stats.AreaScores(incidents, now, riskWindowDays),
		AreaRisk:     stats.AreaRiskShares(incidents, weight, policy),
		YearOverYear: stats.CompareYearToDate(current, previous, currentYear, currentYear-1, weights.TrackedCrimeTypes, policy, now),
		TopRegions:   stats.TopRegions(incidents, hotAreaLimit),
		Insights:     stats.CalculateInsights(incidents, policy),
	}
}
