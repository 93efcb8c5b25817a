package ingest

import (
	"fmt"

	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
)

const crimePathPrefix = "/trinidad/crime/"

// BuildRedirectMap maps the headline-derived path of each incident to its
// story-id path, for incidents whose slug changed when the id column was
// introduced. Entries exist only where the two differ, so legacy incidents
// without an id produce none.
//
// A slug shared by two incidents breaks routing for both, so collisions are
// the one defect that aborts an ingestion run.
func BuildRedirectMap(incidents []domain.Incident) (map[string]string, error) {
	seen := make(map[string]string, len(incidents))
	redirects := make(map[string]string)

	for _, in := range incidents {
		if prev, ok := seen[in.Slug]; ok && prev != in.Headline {
			return nil, fmt.Errorf("duplicate slug %q: %q collides with %q", in.Slug, in.Headline, prev)
		}
		seen[in.Slug] = in.Headline

		oldSlug := domain.HeadlineSlug(in.Headline, in.Date)
		if oldSlug == in.Slug {
			continue
		}
		redirects[crimePathPrefix+oldSlug+"/"] = crimePathPrefix + in.Slug + "/"
	}

	return redirects, nil
}
