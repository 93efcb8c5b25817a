package stats

import (
	"math"
	"sort"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// Insights is the dashboard summary block computed over a full dataset.
type Insights struct {
	AvgCrimesPerDay   float64 `json:"avg_crimes_per_day"`
	VictimsPerDay     float64 `json:"victims_per_day"`
	MostDangerousDay  string  `json:"most_dangerous_day"`
	BusiestMonth      string  `json:"busiest_month"`
	SafestArea        string  `json:"safest_area"`
	SafestAreaCount   int     `json:"safest_area_count"`
	TopArea           string  `json:"top_area"`
	TopAreaCount      int     `json:"top_area_count"`
	Top3Concentration float64 `json:"top3_concentration"`
	DaySpan           int     `json:"day_span"`
}

// RegionStats is one region's share of incidents.
type RegionStats struct {
	Region     string  `json:"region"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CalculateInsights derives the dashboard summary. An empty dataset returns
// the zero value; callers render placeholders rather than failing the build.
func CalculateInsights(incidents []domain.Incident, policy VictimCountPolicy) Insights {
	if len(incidents) == 0 {
		return Insights{}
	}

	minDate := incidents[0].Date
	maxDate := incidents[0].Date
	dayCounts := make(map[string]int)
	monthCounts := make(map[string]int)
	areaCounts := make(map[string]int)

	for _, in := range incidents {
		if in.Date.Before(minDate) {
			minDate = in.Date
		}
		if in.Date.After(maxDate) {
			maxDate = in.Date
		}
		dayCounts[in.Date.Weekday().String()]++
		monthCounts[in.Date.Format("January 2006")]++

		area := in.Area
		if area == "" {
			area = "Unknown"
		}
		areaCounts[area]++
	}

	daySpan := int(maxDate.Sub(minDate).Hours()/24) + 1

	totalCrimes := TotalCrimeCount(incidents)
	totalVictims := TotalVictims(incidents, policy)

	type areaCount struct {
		area  string
		count int
	}
	areas := make([]areaCount, 0, len(areaCounts))
	for area, count := range areaCounts {
		areas = append(areas, areaCount{area, count})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].count != areas[j].count {
			return areas[i].count > areas[j].count
		}
		return areas[i].area < areas[j].area
	})

	insights := Insights{
		AvgCrimesPerDay:  round1(float64(totalCrimes) / float64(daySpan)),
		VictimsPerDay:    round1(float64(totalVictims) / float64(daySpan)),
		MostDangerousDay: topKey(dayCounts),
		BusiestMonth:     topKey(monthCounts),
		TopArea:          areas[0].area,
		TopAreaCount:     areas[0].count,
		DaySpan:          daySpan,
	}

	// Safest area excludes the Unknown bucket; an area we cannot name is not
	// a safety recommendation.
	for i := len(areas) - 1; i >= 0; i-- {
		if areas[i].area != "Unknown" {
			insights.SafestArea = areas[i].area
			insights.SafestAreaCount = areas[i].count
			break
		}
	}

	top3 := 0
	for i, a := range areas {
		if i == 3 {
			break
		}
		top3 += a.count
	}
	insights.Top3Concentration = round1(float64(top3) / float64(len(incidents)) * 100)

	return insights
}

// TopRegions ranks regions by incident count; incidents without a region are
// excluded from both counts and the percentage base.
func TopRegions(incidents []domain.Incident, limit int) []RegionStats {
	counts := make(map[string]int)
	total := 0
	for _, in := range incidents {
		if in.Region == "" {
			continue
		}
		counts[in.Region]++
		total++
	}

	regions := make([]RegionStats, 0, len(counts))
	for region, count := range counts {
		regions = append(regions, RegionStats{
			Region:     region,
			Count:      count,
			Percentage: round1(float64(count) / float64(total) * 100),
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return regions[i].Region < regions[j].Region
	})

	if limit > 0 && len(regions) > limit {
		regions = regions[:limit]
	}
	return regions
}

func topKey(counts map[string]int) string {
	best := ""
	bestCount := -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
