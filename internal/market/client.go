package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	requestTimeout = 15 * time.Second

	// Rate-limit recovery: fixed delay, at most 2 retries beyond the first
	// attempt. No backoff, no jitter.
	rateLimitRetries = 2
	rateLimitDelay   = 5 * time.Second
)

// apiClient is the shared HTTP plumbing for all provider implementations:
// one request per call through a client-side rate limiter, JSON decoding,
// and fixed-delay retry on HTTP 429.
type apiClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	retryDelay time.Duration
}

func newAPIClient(proxyURL string, rps float64, logger *slog.Logger) *apiClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &apiClient{
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		retryDelay: rateLimitDelay,
	}
}

// getJSON issues a GET and decodes the response body into v. On HTTP 429 it
// sleeps for the fixed delay and retries, bounded by rateLimitRetries. Any
// other non-2xx status fails immediately.
func (c *apiClient) getJSON(ctx context.Context, endpoint string, headers map[string]string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= rateLimitRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "crypto-dashboard/1.0")
		for k, val := range headers {
			req.Header.Set(k, val)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
			c.logger.Warn("rate limited, retrying after fixed delay",
				"endpoint", endpoint, "attempt", attempt+1, "delay", c.retryDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("fetch %s: status %d, body: %s", endpoint, resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return nil
	}
	return fmt.Errorf("rate limit retries exhausted: %w", lastErr)
}
