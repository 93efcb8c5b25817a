package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

func areaIncident(area string, date time.Time) domain.Incident {
	return domain.Incident{Area: area, Date: date, PrimaryCrimeType: "Robbery", VictimCount: 1}
}

// withDensity builds a dataset where "Target" holds exactly pct percent of 200
// in-window incidents.
func withDensity(pct float64, now time.Time) []domain.Incident {
	const total = 200
	target := int(pct * total / 100)
	incidents := make([]domain.Incident, 0, total)
	for i := 0; i < target; i++ {
		incidents = append(incidents, areaIncident("Target", now.AddDate(0, 0, -1)))
	}
	for i := target; i < total; i++ {
		incidents = append(incidents, areaIncident("Elsewhere", now.AddDate(0, 0, -1)))
	}
	return incidents
}

func TestAreaCrimeScore(t *testing.T) {
	now := day(2026, time.June, 15)

	tests := []struct {
		name    string
		density float64
		want    float64
	}{
		{"zero density floors at one", 0, 1},
		{"half percent", 0.5, 1.5},
		{"one percent", 1, 3},
		{"two percent", 2, 4},
		{"five percent", 5, 7},
		{"seven percent", 7, 8},
		{"ten percent is nine not ten", 10, 9},
		{"twenty percent saturates at ten", 20, 10},
		{"beyond saturation stays at ten", 50, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incidents := withDensity(tt.density, now)
			assert.InDelta(t, tt.want, AreaCrimeScore("Target", incidents, now, DefaultRiskWindowDays), 0.001)
		})
	}
}

func TestAreaCrimeScoreFullDensity(t *testing.T) {
	now := day(2026, time.June, 15)

	// One area holding every in-window incident reaches 10.
	incidents := []domain.Incident{
		areaIncident("Only", now.AddDate(0, 0, -1)),
		areaIncident("Only", now.AddDate(0, 0, -2)),
	}
	assert.Equal(t, 10.0, AreaCrimeScore("Only", incidents, now, DefaultRiskWindowDays))
}

func TestAreaCrimeScoreWindow(t *testing.T) {
	now := day(2026, time.June, 15)

	incidents := []domain.Incident{
		areaIncident("Old Town", now.AddDate(0, 0, -91)), // outside the 90-day window
	}
	assert.Equal(t, 1.0, AreaCrimeScore("Old Town", incidents, now, DefaultRiskWindowDays))
}

func TestAreaCrimeScoreEmpty(t *testing.T) {
	now := day(2026, time.June, 15)
	assert.Equal(t, 1.0, AreaCrimeScore("Anywhere", nil, now, DefaultRiskWindowDays))
}

func TestAreaScores(t *testing.T) {
	now := day(2026, time.June, 15)

	// 200 in-window incidents: Target holds 10% (score 9.0), Minor 0.5%
	// (score 1.5), Elsewhere the rest (saturated at 10). Dormant's only
	// incident is outside the window; unnamed incidents are not rated.
	var incidents []domain.Incident
	for i := 0; i < 20; i++ {
		incidents = append(incidents, areaIncident("Target", now.AddDate(0, 0, -1)))
	}
	incidents = append(incidents, areaIncident("Minor", now.AddDate(0, 0, -2)))
	for len(incidents) < 200 {
		incidents = append(incidents, areaIncident("Elsewhere", now.AddDate(0, 0, -3)))
	}
	incidents = append(incidents, areaIncident("Dormant", now.AddDate(0, 0, -120)))
	incidents = append(incidents, areaIncident("", now.AddDate(0, 0, -150)))

	got := AreaScores(incidents, now, DefaultRiskWindowDays)

	assert.Equal(t, []AreaScore{
		{Area: "Elsewhere", Score: 10},
		{Area: "Target", Score: 9},
		{Area: "Minor", Score: 1.5},
		{Area: "Dormant", Score: 1},
	}, got)
}

func TestAreaScoresEmpty(t *testing.T) {
	assert.Empty(t, AreaScores(nil, day(2026, time.June, 15), DefaultRiskWindowDays))
}

func TestAreaRiskShares(t *testing.T) {
	weight := func(crimeType string) int {
		switch crimeType {
		case "Murder":
			return 10
		case "Robbery":
			return 4
		}
		return 1
	}
	policy := victimCounted("Murder")

	incidents := []domain.Incident{
		{Area: "Laventille", PrimaryCrimeType: "Murder", VictimCount: 2, Date: day(2026, time.May, 1)},
		{Area: "Arima", PrimaryCrimeType: "Robbery", VictimCount: 3, Date: day(2026, time.May, 2)},
		{Area: "", PrimaryCrimeType: "Murder", VictimCount: 1, Date: day(2026, time.May, 3)},
		{Area: "Chaguanas", PrimaryCrimeType: "", VictimCount: 1, Date: day(2026, time.May, 4)},
	}

	got := AreaRiskShares(incidents, weight, policy)

	// Laventille 10x2=20, Arima 4 (Robbery not victim counted); blank area and
	// blank type rows are excluded entirely.
	assert.Equal(t, []AreaRisk{
		{Area: "Laventille", Score: 20, Percentage: 20.0 / 24 * 100, Label: "Extremely Dangerous"},
		{Area: "Arima", Score: 4, Percentage: 4.0 / 24 * 100, Label: "High"},
	}, got)
}

func TestAreaRiskSharesEmpty(t *testing.T) {
	weight := func(string) int { return 1 }
	assert.Nil(t, AreaRiskShares(nil, weight, nil))
}

func TestRiskLabel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "Low"},
		{3, "Low"},
		{3.1, "Medium"},
		{8, "Medium"},
		{15, "Concerning"},
		{25, "High"},
		{40, "Dangerous"},
		{40.1, "Extremely Dangerous"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLabel(tt.pct), "pct %v", tt.pct)
	}
}
