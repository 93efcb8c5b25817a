// Command validate is an operator tool: it runs the parser, validator, and
// normalizer over a CSV file or URL and prints a per-sheet report.
//
// Usage:
//
//	go run ./cmd/validate -file data/export.csv
//	go run ./cmd/validate -url "https://docs.google.com/...output=csv" -max-warnings 10
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crimehotspots/crime-data-pipeline/internal/adapter/sheets"
	"github.com/crimehotspots/crime-data-pipeline/internal/domain"
	"github.com/crimehotspots/crime-data-pipeline/internal/ingest"
	"github.com/crimehotspots/crime-data-pipeline/internal/observability"
)

func main() {
	file := flag.String("file", "", "path to a CSV file to validate")
	url := flag.String("url", "", "URL of a published CSV to fetch and validate")
	maxWarnings := flag.Int("max-warnings", -1, "exit non-zero when warnings exceed this count (-1 disables)")
	flag.Parse()

	if (*file == "") == (*url == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	csvText, err := loadCSV(*file, *url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(csvText, *maxWarnings))
}

func loadCSV(file, url string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := sheets.NewClient(30*time.Second, 3, clockwork.NewRealClock(), logger, observability.NewMetrics())
	return client.FetchWithRetry(context.Background(), url)
}

func run(csvText string, maxWarnings int) int {
	report, warnings := ingest.ValidateSheet(csvText)
	incidents, skipped := domain.ParseSheet(csvText)

	fmt.Println("=== Sheet Validation Report ===")
	fmt.Println()
	fmt.Printf("  Rows:       %d\n", report.RowCount)
	fmt.Printf("  Incidents:  %d\n", len(incidents))
	fmt.Printf("  Skipped:    %d\n", skipped)
	fmt.Printf("  Warnings:   %d\n", report.WarningCount)
	if report.OldestDate != "" {
		fmt.Printf("  Date range: %s to %s\n", report.OldestDate, report.NewestDate)
	}

	if len(warnings) > 0 {
		fmt.Println()
		fmt.Println("--- Warnings ---")
		for i, w := range warnings {
			fmt.Printf("  [%d] %s\n", i+1, w)
		}
	}

	fmt.Println()
	if maxWarnings >= 0 && len(warnings) > maxWarnings {
		fmt.Printf("FAILED: %d warnings exceed the limit of %d.\n", len(warnings), maxWarnings)
		return 1
	}
	fmt.Println("OK.")
	return 0
}
