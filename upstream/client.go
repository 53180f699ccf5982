// File: upstream/client.go
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"clinicvoice/config"
)

// ErrNotFound is returned when the provider has no such resource.
var ErrNotFound = errors.New("upstream: resource not found")

// RateLimitError is returned when retries are exhausted against a throttling
// provider.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("upstream: rate limited, retry after %s", e.RetryAfter)
}

// Client talks to the upstream scheduling provider. All requests pass through
// a client-side rate limiter; 429 responses are retried with the provider's
// Retry-After hint up to MaxRetries times.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

// NewClient constructs a provider client from config.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	burst := int(cfg.UpstreamRatePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: cfg.UpstreamBaseURL,
		apiKey:  cfg.UpstreamAPIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.UpstreamRatePerSecond), burst),
		maxRetries: cfg.UpstreamMaxRetries,
		logger:     logger,
	}
}

// getJSON performs a throttled GET against an absolute URL and decodes the
// JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	var lastRetryAfter time.Duration

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("upstream request failed: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode upstream response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastRetryAfter = retryAfter
			if attempt == c.maxRetries {
				break
			}
			c.logger.Warn("upstream throttled, backing off",
				zap.String("url", url),
				zap.Duration("retryAfter", retryAfter),
				zap.Int("attempt", attempt+1))
			select {
			case <-time.After(retryAfter):
			case <-ctx.Done():
				return ctx.Err()
			}

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return &RateLimitError{RetryAfter: lastRetryAfter}
}

func parseRetryAfter(header string) time.Duration {
	if header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 2 * time.Second
}
