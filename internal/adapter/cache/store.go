// Package cache persists the last successfully fetched CSV payloads so a
// failed upstream fetch never publishes an empty site.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the persisted cache state: the raw CSV text of every sheet from
// the last successful run plus freshness metadata. It is replaced whole on
// each write, never mutated in place.
type Snapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	RowCount  int               `json:"rowCount"`
	CSVTexts  map[string]string `json:"csvTexts"`
}

// Text returns the cached payload for a sheet key, or "" when none exists.
func (s *Snapshot) Text(sheetKey string) string {
	if s == nil {
		return ""
	}
	return s.CSVTexts[sheetKey]
}

// Store reads and writes the cache file. Each ingestion run is a fresh
// process with no overlapping runs, so no locking is needed.
type Store struct {
	path string
}

// NewStore creates a store for the given cache file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the previous snapshot, or nil when the file is missing or
// unreadable. A corrupt cache is indistinguishable from no cache: the run
// proceeds without fallback data rather than failing.
func (s *Store) Read() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// Write atomically replaces the cache file, creating the parent directory if
// needed. The temp-file rename keeps a crashed run from leaving a truncated
// cache for the next build to trip over.
func (s *Store) Write(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "csv-cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
