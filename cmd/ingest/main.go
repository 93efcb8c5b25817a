// Command ingest runs one build-time ingestion pass: fetch every configured
// sheet, normalize and merge the rows, compute statistics, and write the JSON
// artifacts the site renderer consumes. Exits non-zero only on a slug
// collision or unwritable artifacts; upstream outages degrade instead.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/crimehotspots/crime-data-pipeline/internal/adapter/cache"
	"github.com/crimehotspots/crime-data-pipeline/internal/adapter/sheets"
	"github.com/crimehotspots/crime-data-pipeline/internal/config"
	"github.com/crimehotspots/crime-data-pipeline/internal/ingest"
	"github.com/crimehotspots/crime-data-pipeline/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	weights, err := config.LoadWeights(cfg.WeightsPath)
	if err != nil {
		logger.Error("failed to load weights", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	fetcher := sheets.NewClient(cfg.FetchTimeout, cfg.FetchRetries, clock, logger, metrics)
	store := cache.NewStore(cfg.CachePath)

	p := ingest.NewPipeline(cfg, weights, fetcher, store, clock, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := p.Run(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		if healthErr := p.WriteFailureHealth(); healthErr != nil {
			logger.Error("failed to record failure health", "error", healthErr)
		}
		os.Exit(1)
	}

	if err := p.WriteArtifacts(res); err != nil {
		logger.Error("failed to write artifacts", "error", err)
		os.Exit(1)
	}

	logger.Info("build complete",
		"status", res.Status,
		"incidents", len(res.Incidents),
		"redirects", len(res.Redirects),
		"area_aliases", len(res.AreaAliases),
		"hot_areas", len(res.Summary.HotAreas),
		"data_dir", cfg.DataDir,
	)
}
