package stats

import (
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

// Direction classifications for year-over-year changes.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionSame = "same"
)

// directionDeadband keeps noise-level changes from flapping between up and
// down on successive builds.
const directionDeadband = 0.5

// Comparison is a year-over-year result for one crime type.
type Comparison struct {
	Type          string  `json:"type"`
	CurrentCount  int     `json:"current_count"`
	PreviousCount int     `json:"previous_count"`
	PercentChange float64 `json:"percent_change"`
	Direction     string  `json:"direction"`
}

// PercentChange returns the percentage change from oldValue to newValue.
// A zero previous value maps to 100 when the new value is positive and 0
// otherwise, avoiding a division by zero.
func PercentChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		if newValue > 0 {
			return 100
		}
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}

// FilterToSamePeriod restricts incidents to targetYear up to now's month and
// day, producing matched calendar windows: comparing Jan 1–23 of this year
// against Jan 1–23 of last year rather than a full prior year.
func FilterToSamePeriod(incidents []domain.Incident, targetYear int, now time.Time) []domain.Incident {
	nowMonth := now.Month()
	nowDay := now.Day()

	var filtered []domain.Incident
	for _, in := range incidents {
		if in.Date.Year() != targetYear {
			continue
		}
		if in.Date.Month() < nowMonth ||
			(in.Date.Month() == nowMonth && in.Date.Day() <= nowDay) {
			filtered = append(filtered, in)
		}
	}
	return filtered
}

// CompareYearToDate compares each tracked crime type between the current and
// previous year on matched year-to-date windows. Direction uses a ±0.5%
// deadband around zero.
func CompareYearToDate(current, previous []domain.Incident, currentYear, previousYear int, trackedTypes []string, policy VictimCountPolicy, now time.Time) []Comparison {
	currentYTD := FilterToSamePeriod(current, currentYear, now)
	previousYTD := FilterToSamePeriod(previous, previousYear, now)

	comparisons := make([]Comparison, 0, len(trackedTypes))
	for _, crimeType := range trackedTypes {
		currentCount := CountCrimeType(currentYTD, crimeType, policy)
		previousCount := CountCrimeType(previousYTD, crimeType, policy)
		change := PercentChange(float64(previousCount), float64(currentCount))

		direction := DirectionSame
		if change > directionDeadband {
			direction = DirectionUp
		} else if change < -directionDeadband {
			direction = DirectionDown
		}

		comparisons = append(comparisons, Comparison{
			Type:          crimeType,
			CurrentCount:  currentCount,
			PreviousCount: previousCount,
			PercentChange: change,
			Direction:     direction,
		})
	}

	return comparisons
}
