package ingest

import (
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// HealthStatus is the freshness record consumed by external monitoring. Every
// field is always present; the monitor treats a missing field as a hard
// failure, so zero values stand in on total failure rather than omission.
type HealthStatus struct {
	Status             string `json:"status"`
	CSVLastFetched     string `json:"csv_last_fetched"`
	CSVRowCount        int    `json:"csv_row_count"`
	OldestStory        string `json:"oldest_story"`
	NewestStory        string `json:"newest_story"`
	BuildTime          string `json:"build_time"`
	CSVCacheAgeMinutes int    `json:"csv_cache_age_minutes"`
}

// StatusOK and StatusDegraded are the two run outcomes. Degraded means at
// least one sheet served stale or no data; the site still publishes.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// BuildHealth assembles the health record for a completed run.
func BuildHealth(status string, incidents []domain.Incident, rowCount int, fetchedAt, buildTime time.Time) HealthStatus {
	h := HealthStatus{
		Status:      status,
		CSVRowCount: rowCount,
		BuildTime:   buildTime.UTC().Format(time.RFC3339),
	}

	if !fetchedAt.IsZero() {
		h.CSVLastFetched = fetchedAt.UTC().Format(time.RFC3339)
		h.CSVCacheAgeMinutes = int(buildTime.Sub(fetchedAt).Minutes())
	}

	var oldest, newest time.Time
	for _, in := range incidents {
		if oldest.IsZero() || in.Date.Before(oldest) {
			oldest = in.Date
		}
		if newest.IsZero() || in.Date.After(newest) {
			newest = in.Date
		}
	}
	if !oldest.IsZero() {
		h.OldestStory = oldest.Format("2006-01-02")
		h.NewestStory = newest.Format("2006-01-02")
	}

	return h
}

// FailureHealth is the record written when a run aborts before producing a
// dataset. Monitoring still gets every field, with empty defaults.
func FailureHealth(buildTime time.Time) HealthStatus {
	return HealthStatus{
		Status:    StatusDegraded,
		BuildTime: buildTime.UTC().Format(time.RFC3339),
	}
}
