package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/BadgerOps/fxsnap/internal/safety"
)

// Defaults used when Options leaves a field zero. A zero BackoffUnit
// disables the delay; a negative one selects DefaultBackoffUnit.
const (
	DefaultRetryAttempts = 3
	DefaultBackoffUnit   = 2 * time.Second
	DefaultTimeout       = 90 * time.Second
	DefaultMaxBodySize   = 50 << 20
)

// Options configures a Client.
type Options struct {
	Headers       map[string]string
	Timeout       time.Duration
	RetryAttempts int           // total attempts; 1 disables retry
	BackoffUnit   time.Duration // sleep after attempt n is BackoffUnit*n; 0 disables, negative selects the default
	MaxBodySize   int64
}

// FetchResult contains the result of a successful fetch.
type FetchResult struct {
	Body        []byte
	StatusCode  int
	ContentType string
	Attempts    int
	Duration    time.Duration
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client performs HTTP GETs with a fixed header set and linear-backoff retry.
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	headers     map[string]string
	attempts    int
	backoffUnit time.Duration
	maxBody     int64
	sleep       SleepFunc
}

// NewClient creates a new fetch client with the given options and logger.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = DefaultRetryAttempts
	}
	if opts.BackoffUnit < 0 {
		opts.BackoffUnit = DefaultBackoffUnit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		httpClient:  safety.NewHTTPClient(opts.Timeout),
		logger:      logger,
		headers:     headers,
		attempts:    opts.RetryAttempts,
		backoffUnit: opts.BackoffUnit,
		maxBody:     opts.MaxBodySize,
		sleep:       sleepContext,
	}
}

// Fetch downloads url and returns the raw body.
// Any failure (transport error, non-2xx status, oversized body) is retried
// until the attempt budget is spent, sleeping BackoffUnit*attempt after each
// failed attempt. The last error is returned once attempts are exhausted.
func (c *Client) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", err)
		}

		result, err := c.fetchAttempt(ctx, url)
		if err == nil {
			result.Attempts = attempt
			result.Duration = time.Since(startTime)
			return result, nil
		}

		lastErr = err
		c.logger.Warn("fetch attempt failed",
			"url", url, "try", fmt.Sprintf("%d/%d", attempt, c.attempts), "error", err)

		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		delay := Backoff(c.backoffUnit, attempt)
		if delay > 0 {
			c.logger.Debug("backing off", "url", url, "delay", delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("fetch cancelled during backoff: %w", err)
			}
		}
	}

	return nil, fmt.Errorf("download failed after %d attempts: %w", c.attempts, lastErr)
}

// fetchAttempt performs a single GET.
func (c *Client) fetchAttempt(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Keep a short excerpt of the error page for logs.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := safety.ReadAllWithLimit(resp.Body, c.maxBody)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Backoff returns the linear delay after the given failed attempt.
func Backoff(unit time.Duration, attempt int) time.Duration {
	if attempt < 1 || unit <= 0 {
		return 0
	}
	return unit * time.Duration(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTTPError represents a non-2xx HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error %d: %s", e.StatusCode, e.Status)
}
