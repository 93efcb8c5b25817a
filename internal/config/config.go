package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Published CSV endpoints for the Trinidad & Tobago sheets. These are the
// defaults; deployments override them through CSV_SHEET_URLS when the
// spreadsheet rotates to a new year.
const (
	defaultSheetURLs = "2025=https://docs.google.com/spreadsheets/d/e/2PACX-1vTB-ktijzh1ySAy3NpfrcPEEEEs90q-0F0V8UxZxCTlTTbk4Qsa1cbLhlPwh38ie2_bGJYQX8n5vy8v/pub?gid=1749261532&single=true&output=csv;" +
		"current=https://docs.google.com/spreadsheets/d/e/2PACX-1vTB-ktijzh1ySAy3NpfrcPEEEEs90q-0F0V8UxZxCTlTTbk4Qsa1cbLhlPwh38ie2_bGJYQX8n5vy8v/pub?gid=1963637925&single=true&output=csv"

	defaultRegionDataURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTB-ktijzh1ySAy3NpfrcPEEEEs90q-0F0V8UxZxCTlTTbk4Qsa1cbLhlPwh38ie2_bGJYQX8n5vy8v/pub?gid=910363151&single=true&output=csv"
)

// Sheet identifies one remote CSV source. Key doubles as the cache-entry key,
// so renaming a key orphans its stale-cache fallback.
type Sheet struct {
	Key string
	URL string
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	Sheets        []Sheet
	RegionDataURL string

	DataDir   string
	CachePath string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	FetchTimeout   time.Duration
	FetchRetries   int
	HotAreaLimit   int
	RiskWindowDays int

	// Optional YAML file overriding the embedded risk-weight defaults.
	WeightsPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	sheets, err := parseSheetURLs(envOrDefault("CSV_SHEET_URLS", defaultSheetURLs))
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchRetries, err := parseBoundedInt("FETCH_MAX_RETRIES", 3, 0, 10)
	if err != nil {
		return nil, err
	}

	hotAreaLimit, err := parseBoundedInt("HOT_AREA_LIMIT", 5, 1, 100)
	if err != nil {
		return nil, err
	}

	riskWindowDays, err := parseBoundedInt("RISK_WINDOW_DAYS", 90, 1, 3650)
	if err != nil {
		return nil, err
	}

	dataDir := envOrDefault("DATA_DIR", "data")

	cfg := &Config{
		Sheets:        sheets,
		RegionDataURL: envOrDefault("REGION_DATA_URL", defaultRegionDataURL),

		DataDir:   dataDir,
		CachePath: envOrDefault("CSV_CACHE_PATH", dataDir+"/csv-cache.json"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FetchTimeout:   fetchTimeout,
		FetchRetries:   fetchRetries,
		HotAreaLimit:   hotAreaLimit,
		RiskWindowDays: riskWindowDays,

		WeightsPath: os.Getenv("WEIGHTS_PATH"),
	}

	if len(cfg.Sheets) == 0 {
		return nil, fmt.Errorf("CSV_SHEET_URLS must define at least one sheet")
	}

	return cfg, nil
}

// parseSheetURLs parses "key=url;key=url" preserving declaration order, since
// later sheets override earlier incidents during the merge.
func parseSheetURLs(raw string) ([]Sheet, error) {
	var sheets []Sheet
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, url, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		url = strings.TrimSpace(url)
		if !ok || key == "" || url == "" {
			return nil, fmt.Errorf("CSV_SHEET_URLS entry %q is not key=url", part)
		}
		if seen[key] {
			return nil, fmt.Errorf("CSV_SHEET_URLS has duplicate sheet key %q", key)
		}
		seen[key] = true
		sheets = append(sheets, Sheet{Key: key, URL: url})
	}

	return sheets, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBoundedInt(key string, fallback, min, max int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d,%d]", key, min, max)
	}
	return n, nil
}
