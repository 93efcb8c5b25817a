package domain

import (
	"encoding/json"
	"math"
	"time"
)

// RawRow is one sheet row addressed by column name, before validation. Every
// field is an optional string; the normalizer decides what is usable.
type RawRow struct {
	StoryID           string
	Date              string
	Headline          string
	Summary           string
	PrimaryCrimeType  string
	RelatedCrimeTypes string
	LegacyCrimeType   string
	VictimCount       string
	Street            string
	Area              string
	Region            string
	URL               string
	Source            string
	Latitude          string
	Longitude         string
}

// RowFromValues extracts a RawRow from parsed CSV values. Column aliases
// cover the historical sheet layouts: the 2026 schema, the legacy single
// crime-type column, and the pre-2026 "Street"/"Location" names.
func RowFromValues(values []string, cols ColumnMap) RawRow {
	col := func(names ...string) string {
		for _, name := range names {
			if v := cols.Value(values, name); v != "" {
				return v
			}
		}
		return ""
	}

	return RawRow{
		StoryID:           col("story_id"),
		Date:              col("Date"),
		Headline:          col("Headline"),
		Summary:           col("Summary"),
		PrimaryCrimeType:  col("primaryCrimeType"),
		RelatedCrimeTypes: col("relatedCrimeType", "relatedCrimeTypes"),
		LegacyCrimeType:   col("Crime Type", "crimeType"),
		VictimCount:       col("victimCount", "Victim Count"),
		Street:            col("Street Address", "Street"),
		Area:              col("Area", "Location"),
		Region:            col("Region"),
		URL:               col("URL"),
		Source:            col("Source"),
		Latitude:          col("Latitude"),
		Longitude:         col("Longitude"),
	}
}

// Incident is the normalized representation of one reported crime.
//
// Latitude and Longitude are NaN when the source row carried no usable
// coordinates; such incidents still count toward statistics but are excluded
// from map rendering. They are never defaulted to 0,0.
type Incident struct {
	ID                string    `json:"id,omitempty"`
	Date              time.Time `json:"date"`
	Headline          string    `json:"headline"`
	Summary           string    `json:"summary,omitempty"`
	PrimaryCrimeType  string    `json:"primary_crime_type,omitempty"`
	RelatedCrimeTypes []string  `json:"related_crime_types,omitempty"`
	VictimCount       int       `json:"victim_count"`
	Street            string    `json:"street,omitempty"`
	Area              string    `json:"area,omitempty"`
	Region            string    `json:"region,omitempty"`
	Latitude          float64   `json:"-"`
	Longitude         float64   `json:"-"`
	SourceURL         string    `json:"source_url,omitempty"`
	SourceName        string    `json:"source,omitempty"`
	Slug              string    `json:"slug"`
}

// HasCoordinates reports whether the incident can be placed on a map.
func (in Incident) HasCoordinates() bool {
	return isFinite(in.Latitude) && isFinite(in.Longitude)
}

// MarshalJSON emits latitude/longitude only when finite, since encoding/json
// rejects NaN and the renderer treats absent coordinates as "not mappable".
func (in Incident) MarshalJSON() ([]byte, error) {
	type plain Incident
	aux := struct {
		plain
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
	}{plain: plain(in)}

	if in.HasCoordinates() {
		aux.Latitude = &in.Latitude
		aux.Longitude = &in.Longitude
	}
	return json.Marshal(aux)
}

// UnmarshalJSON restores NaN coordinates for incidents serialized without them.
func (in *Incident) UnmarshalJSON(data []byte) error {
	type plain Incident
	aux := struct {
		*plain
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{plain: (*plain)(in)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Latitude = math.NaN()
	in.Longitude = math.NaN()
	if aux.Latitude != nil {
		in.Latitude = *aux.Latitude
	}
	if aux.Longitude != nil {
		in.Longitude = *aux.Longitude
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
