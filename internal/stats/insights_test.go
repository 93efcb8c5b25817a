package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

func TestCalculateInsights(t *testing.T) {
	policy := victimCounted("Murder")

	incidents := []domain.Incident{
		// Mon 2 Mar, Tue 3 Mar, Tue 10 Mar, Wed 11 Mar 2026
		{Date: day(2026, time.March, 2), PrimaryCrimeType: "Murder", VictimCount: 2, Area: "Laventille"},
		{Date: day(2026, time.March, 3), PrimaryCrimeType: "Robbery", VictimCount: 1, Area: "Laventille"},
		{Date: day(2026, time.March, 10), PrimaryCrimeType: "Robbery", VictimCount: 1, Area: "Arima"},
		{Date: day(2026, time.March, 11), PrimaryCrimeType: "Assault", VictimCount: 1, Area: "Chaguanas"},
	}

	got := CalculateInsights(incidents, policy)

	assert.Equal(t, 10, got.DaySpan)
	assert.InDelta(t, 0.4, got.AvgCrimesPerDay, 0.001)
	assert.InDelta(t, 0.5, got.VictimsPerDay, 0.001)
	assert.Equal(t, "Tuesday", got.MostDangerousDay)
	assert.Equal(t, "March 2026", got.BusiestMonth)
	assert.Equal(t, "Laventille", got.TopArea)
	assert.Equal(t, 2, got.TopAreaCount)
	assert.Equal(t, "Chaguanas", got.SafestArea)
	assert.Equal(t, 1, got.SafestAreaCount)
	assert.InDelta(t, 100, got.Top3Concentration, 0.001)
}

func TestCalculateInsightsEmpty(t *testing.T) {
	assert.Equal(t, Insights{}, CalculateInsights(nil, nil))
}

func TestCalculateInsightsSafestSkipsUnknown(t *testing.T) {
	incidents := []domain.Incident{
		{Date: day(2026, time.March, 2), PrimaryCrimeType: "Robbery", VictimCount: 1, Area: "Arima"},
		{Date: day(2026, time.March, 3), PrimaryCrimeType: "Robbery", VictimCount: 1, Area: "Arima"},
		{Date: day(2026, time.March, 4), PrimaryCrimeType: "Robbery", VictimCount: 1, Area: ""},
	}

	got := CalculateInsights(incidents, nil)

	// The blank-area bucket has the lowest count but cannot be "safest".
	assert.Equal(t, "Arima", got.SafestArea)
	assert.Equal(t, "Arima", got.TopArea)
}

func TestTopRegions(t *testing.T) {
	incidents := []domain.Incident{
		{Date: day(2026, time.March, 1), Region: "North", VictimCount: 1},
		{Date: day(2026, time.March, 2), Region: "North", VictimCount: 1},
		{Date: day(2026, time.March, 3), Region: "South", VictimCount: 1},
		{Date: day(2026, time.March, 4), Region: "East", VictimCount: 1},
		{Date: day(2026, time.March, 5), Region: "", VictimCount: 1}, // excluded from the base
	}

	got := TopRegions(incidents, 2)

	assert.Equal(t, []RegionStats{
		{Region: "North", Count: 2, Percentage: 50},
		{Region: "East", Count: 1, Percentage: 25},
	}, got)
}

func TestTopRegionsEmpty(t *testing.T) {
	assert.Empty(t, TopRegions(nil, 5))
	assert.Empty(t, TopRegions([]domain.Incident{{Date: day(2026, time.March, 1)}}, 5))
}
