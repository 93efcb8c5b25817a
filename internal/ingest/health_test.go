package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

func TestBuildHealth(t *testing.T) {
	fetched := time.Date(2026, time.August, 20, 6, 0, 0, 0, time.UTC)
	built := time.Date(2026, time.August, 20, 7, 30, 0, 0, time.UTC)

	incidents := []domain.Incident{
		{Date: time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC), Headline: "b", VictimCount: 1},
		{Date: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), Headline: "a", VictimCount: 1},
	}

	h := BuildHealth(StatusOK, incidents, 120, fetched, built)

	assert.Equal(t, HealthStatus{
		Status:             StatusOK,
		CSVLastFetched:     "2026-08-20T06:00:00Z",
		CSVRowCount:        120,
		OldestStory:        "2026-01-02",
		NewestStory:        "2026-08-19",
		BuildTime:          "2026-08-20T07:30:00Z",
		CSVCacheAgeMinutes: 90,
	}, h)
}

func TestBuildHealthNeverFetched(t *testing.T) {
	built := time.Date(2026, time.August, 20, 7, 0, 0, 0, time.UTC)

	h := BuildHealth(StatusDegraded, nil, 0, time.Time{}, built)

	assert.Equal(t, StatusDegraded, h.Status)
	assert.Empty(t, h.CSVLastFetched)
	assert.Zero(t, h.CSVCacheAgeMinutes)
	assert.Empty(t, h.OldestStory)
}

// Monitoring treats a missing field as a hard failure, so every field must
// serialize even at its zero value.
func TestHealthStatusAllFieldsAlwaysPresent(t *testing.T) {
	data, err := json.Marshal(FailureHealth(time.Date(2026, time.August, 20, 7, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, field := range []string{
		"status", "csv_last_fetched", "csv_row_count",
		"oldest_story", "newest_story", "build_time", "csv_cache_age_minutes",
	} {
		assert.Contains(t, fields, field)
	}
	assert.Equal(t, StatusDegraded, fields["status"])
}
