// Package httpclient provides the bounded-retry HTTP GET used by every
// provider adapter. Each attempt carries its own timeout; failed attempts
// back off linearly by attempt number. Exhaustion surfaces as a
// PROVIDER_UNAVAILABLE StandardError that adapters absorb.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/common/metrics"
)

type Client struct {
	provider   string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a client for one provider. The provider name labels metrics
// and log entries; timeout bounds each individual attempt.
func New(provider string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		provider: provider,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Get performs a single GET attempt. A non-2xx status counts as a failure.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}

// GetWithRetry performs up to maxRetries attempts against url, waiting
// baseDelay×attempt between failures (no wait after the final attempt).
// All failures stay inside this boundary: callers receive a
// PROVIDER_UNAVAILABLE error on exhaustion and must treat it as "provider
// absent this run".
func (c *Client) GetWithRetry(ctx context.Context, url string, maxRetries int, baseDelay time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		metrics.ProviderFetchAttempts.WithLabelValues(c.provider).Inc()

		body, err := c.Get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.Warn("Fetch attempt failed", map[string]interface{}{
			"provider": c.provider,
			"url":      url,
			"attempt":  attempt,
			"max":      maxRetries,
			"error":    err.Error(),
		})

		if attempt < maxRetries {
			select {
			case <-time.After(baseDelay * time.Duration(attempt)):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = maxRetries // stop retrying
			}
		}
	}

	metrics.ProviderFetchFailures.WithLabelValues(c.provider).Inc()
	c.logger.Error("All fetch attempts exhausted", map[string]interface{}{
		"provider": c.provider,
		"url":      url,
		"attempts": maxRetries,
		"error":    lastErr.Error(),
	})

	return nil, errors.NewProviderUnavailableError(c.provider, url, lastErr)
}
