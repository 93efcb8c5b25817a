package stats

import (
	"math"
	"sort"
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// DefaultRiskWindowDays is the trailing window for area crime scores.
const DefaultRiskWindowDays = 90

// AreaCrimeScore rates an area 1–10 from its share of recent incidents.
// density is the area's percentage of all incidents inside the trailing
// window; the piecewise curve maps density breakpoints 0.5/1/2/3/4/5/7/10 to
// score anchors 1–9, with the last segment approaching 10 as density reaches
// 20. The result is rounded to one decimal and clamped to [1,10].
//
// No incidents in the window means no evidence of risk, so the minimum score
// is returned rather than an error.
func AreaCrimeScore(area string, incidents []domain.Incident, now time.Time, windowDays int) float64 {
	cutoff := now.AddDate(0, 0, -windowDays)

	areaCount := 0
	totalCount := 0
	for _, in := range incidents {
		if in.Date.Before(cutoff) {
			continue
		}
		totalCount++
		if in.Area == area {
			areaCount++
		}
	}

	if totalCount == 0 {
		return 1
	}

	density := float64(areaCount) / float64(totalCount) * 100
	score := densityToScore(density)

	score = math.Round(score*10) / 10
	return math.Max(1, math.Min(10, score))
}

func densityToScore(density float64) float64 {
	switch {
	case density <= 0.5:
		return 1 + density
	case density <= 1:
		return 2 + (density-0.5)*2
	case density <= 2:
		return 3 + (density - 1)
	case density <= 3:
		return 4 + (density - 2)
	case density <= 4:
		return 5 + (density - 3)
	case density <= 5:
		return 6 + (density - 4)
	case density <= 7:
		return 7 + (density-5)/2
	case density <= 10:
		return 8 + (density-7)/3
	default:
		return 9 + math.Min((density-10)/10, 1)
	}
}

// AreaScore is one area's 1-10 safety rating.
type AreaScore struct {
	Area  string  `json:"area"`
	Score float64 `json:"score"`
}

// AreaScores rates every named area in the dataset, sorted by score
// descending, ties by area name. Areas with no in-window incidents still
// appear with the minimum score so the renderer can show them.
func AreaScores(incidents []domain.Incident, now time.Time, windowDays int) []AreaScore {
	seen := make(map[string]bool)
	for _, in := range incidents {
		if in.Area != "" {
			seen[in.Area] = true
		}
	}

	scores := make([]AreaScore, 0, len(seen))
	for area := range seen {
		scores = append(scores, AreaScore{
			Area:  area,
			Score: AreaCrimeScore(area, incidents, now, windowDays),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Area < scores[j].Area
	})

	return scores
}

// AreaRisk is one area's weighted share of the overall crime burden.
type AreaRisk struct {
	Area       string  `json:"area"`
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
}

// AreaRiskShares computes severity-weighted risk points per area and each
// area's share of the total. An incident contributes weight x victimCount
// when its primary type is victim-counted, otherwise weight x 1. Results are
// sorted by points descending, ties by area name.
func AreaRiskShares(incidents []domain.Incident, weight RiskWeightFunc, policy VictimCountPolicy) []AreaRisk {
	points := make(map[string]int)
	total := 0

	for _, in := range incidents {
		if in.Area == "" || in.PrimaryCrimeType == "" {
			continue
		}
		contribution := weight(in.PrimaryCrimeType)
		if policy != nil && policy(in.PrimaryCrimeType) {
			contribution *= in.VictimCount
		}
		points[in.Area] += contribution
		total += contribution
	}

	if total == 0 {
		return nil
	}

	risks := make([]AreaRisk, 0, len(points))
	for area, score := range points {
		pct := float64(score) / float64(total) * 100
		risks = append(risks, AreaRisk{
			Area:       area,
			Score:      score,
			Percentage: pct,
			Label:      riskLabel(pct),
		})
	}

	sort.Slice(risks, func(i, j int) bool {
		if risks[i].Score != risks[j].Score {
			return risks[i].Score > risks[j].Score
		}
		return risks[i].Area < risks[j].Area
	})

	return risks
}

// riskLabel buckets a percentage share into the site's risk vocabulary.
func riskLabel(pct float64) string {
	switch {
	case pct <= 3:
		return "Low"
	case pct <= 8:
		return "Medium"
	case pct <= 15:
		return "Concerning"
	case pct <= 25:
		return "High"
	case pct <= 40:
		return "Dangerous"
	default:
		return "Extremely Dangerous"
	}
}
