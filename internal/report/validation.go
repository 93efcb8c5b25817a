// Package report validates anonymous citizen-submitted crime reports before
// they are forwarded to the moderation queue.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Country is a coverage region citizens can report incidents for.
type Country struct {
	ID        string
	Name      string
	Available bool
}

// Countries is the coverage list. Only Trinidad & Tobago accepts live data;
// the rest are announced but not yet ingested.
var Countries = []Country{
	{ID: "tt", Name: "Trinidad & Tobago", Available: true},
	{ID: "gy", Name: "Guyana"},
	{ID: "bb", Name: "Barbados"},
	{ID: "jm", Name: "Jamaica"},
}

// validCrimeTypes are the selectable classifications on the report form.
var validCrimeTypes = []string{
	"Assault",
	"Burglary",
	"Home Invasion",
	"Kidnapping",
	"Murder",
	"Robbery",
	"Shooting",
	"Seizures",
	"Theft",
	"Other",
}

const (
	headlineMinLen = 10
	headlineMaxLen = 120
	detailsMinLen  = 20
	detailsMaxLen  = 5000
)

// scriptPayloadRe catches the obvious injection vectors in free text. Full
// sanitization happens at render time; this just rejects hostile input early.
var scriptPayloadRe = regexp.MustCompile(`(?i)<script|javascript:|data:|vbscript:`)

// Form is one submitted report.
type Form struct {
	Date      string
	Headline  string
	Details   string
	CountryID string
	CrimeType string
}

// ValidateForm checks every field and returns all error messages, so the
// submitter can fix the whole form in one pass. An empty result means valid.
func ValidateForm(form Form, now time.Time) []string {
	var errs []string
	errs = append(errs, ValidateDate(form.Date, now)...)
	errs = append(errs, ValidateHeadline(form.Headline)...)
	errs = append(errs, ValidateDetails(form.Details)...)
	errs = append(errs, ValidateCountry(form.CountryID)...)
	errs = append(errs, ValidateCrimeType(form.CrimeType)...)
	return errs
}

// ValidateDate accepts ISO dates within the past year: not in the future and
// no older than one year before now.
func ValidateDate(dateStr string, now time.Time) []string {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return []string{"Invalid date format"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return []string{"Date cannot be in the future"}
	}
	if date.Before(today.AddDate(-1, 0, 0)) {
		return []string{"Please report incidents from the past year only"}
	}
	return nil
}

// ValidateHeadline enforces length bounds and rejects script payloads.
func ValidateHeadline(headline string) []string {
	var errs []string
	if len(strings.TrimSpace(headline)) < headlineMinLen {
		errs = append(errs, fmt.Sprintf("Headline must be at least %d characters", headlineMinLen))
	}
	if len(headline) > headlineMaxLen {
		errs = append(errs, fmt.Sprintf("Headline must be under %d characters", headlineMaxLen))
	}
	if headline != "" && scriptPayloadRe.MatchString(headline) {
		errs = append(errs, "Headline contains invalid characters")
	}
	return errs
}

// ValidateDetails enforces the description length bounds.
func ValidateDetails(details string) []string {
	var errs []string
	if len(strings.TrimSpace(details)) < detailsMinLen {
		errs = append(errs, fmt.Sprintf("Please provide at least %d characters of details", detailsMinLen))
	}
	if len(details) > detailsMaxLen {
		errs = append(errs, fmt.Sprintf("Details must be under %d characters", detailsMaxLen))
	}
	return errs
}

// ValidateCountry requires a known coverage country id.
func ValidateCountry(countryID string) []string {
	for _, c := range Countries {
		if c.ID == countryID {
			return nil
		}
	}
	return []string{"Invalid country selection"}
}

// ValidateCrimeType requires one of the selectable classifications.
func ValidateCrimeType(crimeType string) []string {
	for _, valid := range validCrimeTypes {
		if crimeType == valid {
			return nil
		}
	}
	return []string{"Invalid crime type"}
}
