// Package domain models crime incident data published through spreadsheet CSV
// exports.
//
// # Data Source
//
// Incident rows originate from Google Sheets documents published as CSV, one
// sheet per calendar year plus a "current" production sheet. The first line is
// a header; columns are addressed by case-insensitive name because the editors
// reorder and add columns between years. Known columns:
//
//	Date, Headline, Summary, primaryCrimeType, relatedCrimeType(s),
//	victimCount / Victim Count, Street Address / Street, Area, Region,
//	URL, Source, Latitude, Longitude, story_id
//
// # Sheet Conventions
//
// Dates are M/D/YYYY as exported by the spreadsheet ("1/5/2026"). A handful of
// hand-entered rows use ISO or month-name shapes, which the normalizer accepts
// through fallback layouts. Rows without a parseable date or a headline are
// skipped.
//
// Crime types use the 2026 schema (primaryCrimeType plus a comma-separated
// relatedCrimeTypes list) with the legacy single "Crime Type" column as
// fallback for older rows. victimCount applies to the primary crime type only;
// related types always count as one incident each.
//
// story_id is a stable external identifier introduced in February 2026. Older
// rows have none, which is expected and does not warn.
//
// # Slug Generation
//
// Slugs are the site's URL identity and must be reproducible bit for bit: the
// redirect map from old to new URLs is derived by generating both forms for the
// same row. Rows with a story_id get "<id>-<first six headline words>"; rows
// without get "<slugified headline>-<YYYY-MM-DD>". See [IncidentSlug].
package domain
