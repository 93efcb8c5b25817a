package stats

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// DefaultHotAreaLimit is the number of areas the "hot areas this week"
// ranking returns.
const DefaultHotAreaLimit = 5

const hotAreaWindowDays = 7

// HotArea is one entry in the trailing-week area ranking.
type HotArea struct {
	Area     string `json:"area"`
	AreaSlug string `json:"area_slug"`
	Count    int    `json:"count"`
	Rank     int    `json:"rank"`
}

var areaSlugStripRe = regexp.MustCompile(`[^a-z0-9-]`)

// areaSlug matches the site's area URL scheme: lowercase, spaces to hyphens,
// everything else dropped. Distinct from incident slugs, which collapse runs.
func areaSlug(area string) string {
	s := strings.ToLower(area)
	s = strings.Join(strings.Fields(s), "-")
	return areaSlugStripRe.ReplaceAllString(s, "")
}

// HotAreas returns the top areas by incident count over the trailing seven
// days, ranked from 1. The cutoff is midnight seven days before now, so a
// build at 09:00 and one at 21:00 rank the same window. Areas without a name
// group under "Unknown". An empty window yields an empty ranking.
func HotAreas(incidents []domain.Incident, now time.Time, limit int) []HotArea {
	cutoffDay := now.AddDate(0, 0, -hotAreaWindowDays)
	cutoff := time.Date(cutoffDay.Year(), cutoffDay.Month(), cutoffDay.Day(), 0, 0, 0, 0, cutoffDay.Location())

	counts := make(map[string]int)
	for _, in := range incidents {
		if in.Date.Before(cutoff) {
			continue
		}
		area := in.Area
		if area == "" {
			area = "Unknown"
		}
		counts[area]++
	}

	areas := make([]HotArea, 0, len(counts))
	for area, count := range counts {
		areas = append(areas, HotArea{Area: area, AreaSlug: areaSlug(area), Count: count})
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Count != areas[j].Count {
			return areas[i].Count > areas[j].Count
		}
		return areas[i].Area < areas[j].Area
	})

	if limit > 0 && len(areas) > limit {
		areas = areas[:limit]
	}
	for i := range areas {
		areas[i].Rank = i + 1
	}

	return areas
}
