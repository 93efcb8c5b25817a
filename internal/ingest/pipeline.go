package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crimehotspots/crime-data-pipeline/internal/adapter/cache"
	"github.com/crimehotspots/crime-data-pipeline/internal/config"
	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
	"github.com/crimehotspots/crime-data-pipeline/internal/observability"
)

// Fetcher retrieves a complete CSV payload for a URL.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, url string) (string, error)
}

// Pipeline runs one ingestion pass. Each run is a fresh process invocation;
// there is no state carried between runs except the cache file.
type Pipeline struct {
	cfg     *config.Config
	weights *config.Weights
	fetcher Fetcher
	store   *cache.Store
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPipeline wires an ingestion pass from its collaborators.
func NewPipeline(cfg *config.Config, weights *config.Weights, fetcher Fetcher, store *cache.Store, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		weights: weights,
		fetcher: fetcher,
		store:   store,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Result is everything one ingestion pass produced.
type Result struct {
	Incidents   []domain.Incident
	Redirects   map[string]string
	AreaAliases map[string]string
	Summary     Summary

	Status    string
	Warnings  []string
	RowCount  int
	FetchedAt time.Time

	// Texts holds the raw CSV per sheet key (live or fallen-back) for the
	// next run's cache.
	Texts map[string]string
}

// sheet fetch outcomes, also used as metric label values.
const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeEmpty    = "empty"
)

type sheetResult struct {
	key       string
	outcome   string
	text      string
	incidents []domain.Incident
	skipped   int
	report    ValidationReport
	warnings  []string
}

// Run fetches every configured sheet concurrently, validates and normalizes
// the rows, merges across sheets, and computes redirects and statistics. The
// only error it returns is a slug collision; every other defect degrades the
// result instead of failing it.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock.Now()
	prev := p.store.Read()

	sheets := dedupeSheets(p.cfg.Sheets, p.logger)

	results := make([]sheetResult, len(sheets))
	var wg sync.WaitGroup
	for i, sheet := range sheets {
		wg.Add(1)
		go func(i int, sheet config.Sheet) {
			defer wg.Done()
			results[i] = p.ingestSheet(ctx, sheet, prev)
		}(i, sheet)
	}
	wg.Wait()

	res := &Result{
		Status: StatusOK,
		Texts:  make(map[string]string),
	}

	anyLive := false
	for _, sr := range results {
		p.metrics.SheetFetches.WithLabelValues(sr.key, sr.outcome).Inc()
		p.metrics.RowsParsed.Add(float64(len(sr.incidents)))
		p.metrics.RowsSkipped.Add(float64(sr.skipped))
		p.metrics.Warnings.Add(float64(len(sr.warnings)))

		switch sr.outcome {
		case outcomeOK:
			anyLive = true
		default:
			res.Status = StatusDegraded
		}
		if sr.text != "" {
			res.Texts[sr.key] = sr.text
		}
		res.RowCount += sr.report.RowCount
		res.Warnings = append(res.Warnings, sr.warnings...)

		p.logger.Info("sheet ingested",
			"sheet", sr.key,
			"outcome", sr.outcome,
			"rows", sr.report.RowCount,
			"incidents", len(sr.incidents),
			"skipped", sr.skipped,
			"warnings", len(sr.warnings),
			"oldest", sr.report.OldestDate,
			"newest", sr.report.NewestDate,
		)
	}

	res.Incidents = mergeSheets(results)

	if warning, drifted := CheckDrift(prevRowCount(prev), res.RowCount); drifted {
		res.Warnings = append(res.Warnings, warning)
		p.metrics.Warnings.Inc()
		p.logger.Warn("row count drift", "warning", warning)
	}

	redirects, err := BuildRedirectMap(res.Incidents)
	if err != nil {
		p.metrics.IngestRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("build redirect map: %w", err)
	}
	res.Redirects = redirects

	res.AreaAliases = p.fetchAreaAliases(ctx)

	switch {
	case anyLive:
		res.FetchedAt = start
	case prev != nil:
		res.FetchedAt = prev.Timestamp
	}

	res.Summary = BuildSummary(res.Incidents, p.weights, start, p.cfg.HotAreaLimit, p.cfg.RiskWindowDays)

	p.metrics.IngestRuns.WithLabelValues(res.Status).Inc()
	if res.Status == StatusDegraded {
		p.metrics.IngestDegraded.Set(1)
	} else {
		p.metrics.IngestDegraded.Set(0)
	}
	p.metrics.IncidentCount.Set(float64(len(res.Incidents)))
	p.metrics.IngestDuration.Observe(p.clock.Since(start).Seconds())

	p.logger.Info("ingestion complete",
		"status", res.Status,
		"incidents", len(res.Incidents),
		"rows", res.RowCount,
		"warnings", len(res.Warnings),
		"redirects", len(res.Redirects),
	)
	return res, nil
}

// ingestSheet runs one sheet's fetch-validate-parse sequence. A failed fetch
// falls back to the previous cache entry when one exists; otherwise the sheet
// contributes zero rows. Neither case fails the run.
func (p *Pipeline) ingestSheet(ctx context.Context, sheet config.Sheet, prev *cache.Snapshot) sheetResult {
	sr := sheetResult{key: sheet.Key, outcome: outcomeOK}

	text, err := p.fetcher.FetchWithRetry(ctx, sheet.URL)
	if err != nil {
		if cached := prev.Text(sheet.Key); cached != "" {
			p.logger.Warn("fetch failed, serving stale cache", "sheet", sheet.Key, "error", err)
			sr.outcome = outcomeFallback
			text = cached
		} else {
			p.logger.Error("fetch failed with no cache to fall back on", "sheet", sheet.Key, "error", err)
			sr.outcome = outcomeEmpty
			return sr
		}
	}

	sr.text = text
	sr.report, sr.warnings = ValidateSheet(text)
	sr.incidents, sr.skipped = domain.ParseSheet(text)
	return sr
}

// fetchAreaAliases loads the region-data sheet. Aliases are decoration for
// the renderer; a failed fetch logs and returns nil rather than degrading.
func (p *Pipeline) fetchAreaAliases(ctx context.Context) map[string]string {
	if p.cfg.RegionDataURL == "" {
		return nil
	}
	text, err := p.fetcher.FetchWithRetry(ctx, p.cfg.RegionDataURL)
	if err != nil {
		p.logger.Warn("region data fetch failed", "error", err)
		return nil
	}
	return domain.ParseAreaAliases(text)
}

// dedupeSheets drops sheets whose URL repeats an earlier one. The spreadsheet
// rotates yearly and a misconfigured rotation can point two keys at the same
// export, which would double-count every incident.
func dedupeSheets(sheets []config.Sheet, logger *slog.Logger) []config.Sheet {
	seen := make(map[string]string, len(sheets))
	out := make([]config.Sheet, 0, len(sheets))
	for _, sheet := range sheets {
		if firstKey, ok := seen[sheet.URL]; ok {
			logger.Warn("skipping sheet with duplicate URL", "sheet", sheet.Key, "duplicate_of", firstKey)
			continue
		}
		seen[sheet.URL] = sheet.Key
		out = append(out, sheet)
	}
	return out
}

// mergeSheets combines per-sheet incidents into one dataset sorted newest
// first. The same story republished across year-sheets (identical slug and
// headline) keeps the later sheet's version; colliding slugs with different
// headlines survive the merge so BuildRedirectMap can abort on them.
func mergeSheets(results []sheetResult) []domain.Incident {
	type identity struct {
		slug     string
		headline string
	}
	index := make(map[identity]int)
	var merged []domain.Incident

	for _, sr := range results {
		for _, in := range sr.incidents {
			id := identity{in.Slug, in.Headline}
			if at, ok := index[id]; ok {
				merged[at] = in
				continue
			}
			index[id] = len(merged)
			merged = append(merged, in)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].Slug < merged[j].Slug
	})
	return merged
}

func prevRowCount(prev *cache.Snapshot) int {
	if prev == nil {
		return 0
	}
	return prev.RowCount
}

// Artifact file names under the data directory.
const (
	IncidentsFile   = "incidents.json"
	RedirectMapFile = "redirect-map.json"
	HealthFile      = "health.json"
	StatsFile       = "stats.json"
	AreaAliasFile   = "area-aliases.json"
)

// WriteArtifacts persists everything a run produced: the stale cache for the
// next run plus the JSON files the renderer and monitoring read.
func (p *Pipeline) WriteArtifacts(res *Result) error {
	if err := p.store.Write(&cache.Snapshot{
		Timestamp: res.FetchedAt,
		RowCount:  res.RowCount,
		CSVTexts:  res.Texts,
	}); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}

	health := BuildHealth(res.Status, res.Incidents, res.RowCount, res.FetchedAt, p.clock.Now())

	// The renderer expects arrays and objects, never null.
	incidents := res.Incidents
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	aliases := res.AreaAliases
	if aliases == nil {
		aliases = map[string]string{}
	}

	artifacts := map[string]any{
		IncidentsFile:   incidents,
		RedirectMapFile: res.Redirects,
		HealthFile:      health,
		StatsFile:       res.Summary,
		AreaAliasFile:   aliases,
	}
	for name, v := range artifacts {
		if err := writeJSON(filepath.Join(p.cfg.DataDir, name), v); err != nil {
			return err
		}
	}
	return nil
}

// WriteFailureHealth records an aborted run so monitoring sees a fresh,
// degraded record instead of a stale "ok" one.
func (p *Pipeline) WriteFailureHealth() error {
	return writeJSON(filepath.Join(p.cfg.DataDir, HealthFile), FailureHealth(p.clock.Now()))
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
