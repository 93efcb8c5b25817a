// Package http serves the published ingestion artifacts and Prometheus
// metrics. It reads artifact files per request, so a completed build is
// visible without restarting the daemon.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimehotspots/crime-data-pipeline/internal/ingest"
)

// Server exposes health, dataset, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	dataDir    string
	logger     *slog.Logger
}

// NewServer creates an HTTP server over the artifact directory.
func NewServer(addr, dataDir string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dataDir: dataDir,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleLiveness)
	mux.HandleFunc("GET /api/health.json", s.handleArtifact(ingest.HealthFile))
	mux.HandleFunc("GET /api/incidents.json", s.handleArtifact(ingest.IncidentsFile))
	mux.HandleFunc("GET /api/stats.json", s.handleArtifact(ingest.StatsFile))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "data_dir", s.dataDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleArtifact serves one JSON artifact from the data directory. A missing
// artifact means no ingestion run has completed yet.
func (s *Server) handleArtifact(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := os.ReadFile(filepath.Join(s.dataDir, name))
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "no ingestion run has published " + name,
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data) //nolint:errcheck // best-effort response
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
