// Package sheets fetches published spreadsheet CSV exports over HTTP with
// bounded retries.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/crimehotspots/crime-data-pipeline/internal/observability"
	"github.com/jonboulle/clockwork"
)

// retryDelays is the fixed backoff schedule between attempts. Attempts past
// the schedule reuse the final delay. Not jittered: build runs are serial and
// never stampede the spreadsheet endpoint.
var retryDelays = []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}

// Client fetches CSV payloads with retry. Delays run on the injected clock so
// tests can drive them without waiting.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a fetcher. timeout bounds each individual attempt;
// maxRetries is the number of retries after the initial attempt.
func NewClient(timeout time.Duration, maxRetries int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		maxRetries: maxRetries,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchWithRetry returns the full response body for url, retrying failed
// attempts on the fixed delay schedule. A non-2xx status counts as a failure
// like any network error, and the terminal error preserves the last attempt's
// cause. Only a complete body counts as success.
func (c *Client) FetchWithRetry(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelays[min(attempt-1, len(retryDelays)-1)]
			c.logger.Warn("retrying fetch",
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"delay", delay,
			)
			c.metrics.FetchRetries.Inc()
			if !c.sleep(ctx, delay) {
				return "", ctx.Err()
			}
		}

		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.logger.Warn("fetch attempt failed",
			"attempt", attempt+1,
			"total_attempts", c.maxRetries+1,
			"error", err,
		)
	}

	return "", fmt.Errorf("all %d attempts failed: %w", c.maxRetries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := c.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
