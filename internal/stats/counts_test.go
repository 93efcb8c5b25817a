package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func incident(primary string, victims int, related ...string) domain.Incident {
	return domain.Incident{
		Date:              day(2026, time.March, 10),
		PrimaryCrimeType:  primary,
		RelatedCrimeTypes: related,
		VictimCount:       victims,
	}
}

func victimCounted(types ...string) VictimCountPolicy {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(crimeType string) bool { return set[crimeType] }
}

func TestCountCrimeType(t *testing.T) {
	policy := victimCounted("Murder", "Shooting")

	tests := []struct {
		name      string
		incidents []domain.Incident
		target    string
		want      int
	}{
		{
			name:      "primary match counts once",
			incidents: []domain.Incident{incident("Robbery", 1)},
			target:    "Robbery",
			want:      1,
		},
		{
			name:      "victim counted primary uses victim count",
			incidents: []domain.Incident{incident("Murder", 3)},
			target:    "Murder",
			want:      3,
		},
		{
			name:      "victim count of one counts once",
			incidents: []domain.Incident{incident("Murder", 1)},
			target:    "Murder",
			want:      1,
		},
		{
			name:      "non victim counted type ignores victim count",
			incidents: []domain.Incident{incident("Robbery", 4)},
			target:    "Robbery",
			want:      1,
		},
		{
			name:      "related match counts exactly once even with victims",
			incidents: []domain.Incident{incident("Robbery", 5, "Murder")},
			target:    "Murder",
			want:      1,
		},
		{
			name:      "duplicate related entries still count once",
			incidents: []domain.Incident{incident("Robbery", 1, "Assault", "Assault")},
			target:    "Assault",
			want:      1,
		},
		{
			name: "primary and related accumulate across records",
			incidents: []domain.Incident{
				incident("Murder", 2),
				incident("Robbery", 1, "Murder"),
				incident("Assault", 1),
			},
			target: "Murder",
			want:   3,
		},
		{
			name:      "no match",
			incidents: []domain.Incident{incident("Robbery", 1, "Assault")},
			target:    "Kidnapping",
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountCrimeType(tt.incidents, tt.target, policy))
		})
	}
}

func TestCountCrimeTypeNilPolicy(t *testing.T) {
	incidents := []domain.Incident{incident("Murder", 4)}
	assert.Equal(t, 1, CountCrimeType(incidents, "Murder", nil))
}

func TestTotalCrimeCount(t *testing.T) {
	incidents := []domain.Incident{
		incident("Murder", 1),
		incident("Robbery", 1, "Shooting", "Assault"),
		{Date: day(2026, time.March, 1), VictimCount: 1}, // no primary type
	}
	// 1 + (1+2) + 0
	assert.Equal(t, 4, TotalCrimeCount(incidents))
}

func TestTotalVictims(t *testing.T) {
	policy := victimCounted("Murder")
	incidents := []domain.Incident{
		incident("Murder", 3),
		incident("Robbery", 5),
		incident("Murder", 1, "Robbery"),
	}
	// 3 + 1 + 1; related types never add victims
	assert.Equal(t, 5, TotalVictims(incidents, policy))
}

func TestCrimeTypeBreakdown(t *testing.T) {
	policy := victimCounted("Murder")
	incidents := []domain.Incident{
		incident("Murder", 2),
		incident("Robbery", 1, "Murder"),
	}

	got := CrimeTypeBreakdown(incidents, []string{"Murder", "Robbery", "Kidnapping"}, policy)

	assert.Equal(t, map[string]int{"Murder": 3, "Robbery": 1}, got)
	assert.NotContains(t, got, "Kidnapping")
}
