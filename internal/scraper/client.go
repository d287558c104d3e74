// internal/scraper/client.go

// Package scraper is the fetch boundary: a paced, retrying HTTP client,
// a robots.txt policy gate, and site adapters that turn dealership
// inventory pages into detail-page URLs and vehicle records.
package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/evscout/evscout/internal/utils"
)

// Fetcher retrieves one URL and returns the page body. The HTTP client
// below and the chromedp fetcher both satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ClientConfig holds the tunables of the HTTP client.
type ClientConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	UserAgents    []string
	RateLimit     float64 // requests per second
	RateBurst     int
	MinDelay      time.Duration // random pause between requests
	MaxDelay      time.Duration
	Logger        utils.Logger
}

// HTTPClient fetches dealer pages politely: rotating user agents, a
// shared rate limiter, a randomized inter-request pause, and retries
// with exponential backoff on transient failures.
type HTTPClient struct {
	httpClient    *http.Client
	userAgents    []string
	currentUA     int
	uaMutex       sync.Mutex
	limiter       *utils.RateLimiter
	retryAttempts int
	retryDelay    time.Duration
	minDelay      time.Duration
	maxDelay      time.Duration
	logger        utils.Logger
}

// NewHTTPClient builds a client, filling unset config fields with the
// defaults used against production dealer sites.
func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1.0
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = defaultUserAgents()
	}
	if cfg.Logger == nil {
		cfg.Logger = utils.NewLogger()
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgents:    cfg.UserAgents,
		limiter:       utils.NewRateLimiterWithBurst(cfg.RateLimit, cfg.RateBurst),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		minDelay:      cfg.MinDelay,
		maxDelay:      cfg.MaxDelay,
		logger:        cfg.Logger,
	}
}

// Fetch retrieves pageURL and returns the decoded body. Transient
// failures (network errors, 429, 5xx) are retried with exponential
// backoff and jitter; other status codes fail immediately.
func (c *HTTPClient) Fetch(ctx context.Context, pageURL string) (string, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	if err := c.pause(ctx); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", fmt.Errorf("building request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt+1, c.retryAttempts+1, err)
			if ctx.Err() != nil {
				return "", lastErr
			}
			if attempt < c.retryAttempts {
				if werr := c.backoff(ctx, attempt); werr != nil {
					return "", werr
				}
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("reading body of %s: %w", pageURL, err)
			}
			return string(body), nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("HTTP %d fetching %s (attempt %d/%d)", resp.StatusCode, pageURL, attempt+1, c.retryAttempts+1)
		if !retryableStatus(resp.StatusCode) {
			break
		}
		if attempt < c.retryAttempts {
			if werr := c.backoff(ctx, attempt); werr != nil {
				return "", werr
			}
		}
	}
	return "", lastErr
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (c *HTTPClient) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()
	ua := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return ua
}

// pause sleeps a random duration in [minDelay, maxDelay] so request
// spacing does not form a fixed cadence.
func (c *HTTPClient) pause(ctx context.Context) error {
	if c.maxDelay <= 0 || c.maxDelay < c.minDelay {
		return nil
	}
	d := c.minDelay
	if span := c.maxDelay - c.minDelay; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	return sleepCtx(ctx, d)
}

// backoff waits retryDelay * 2^attempt plus jitter, capped at 30s.
func (c *HTTPClient) backoff(ctx context.Context, attempt int) error {
	d := c.retryDelay * time.Duration(1<<uint(attempt))
	d += time.Duration(rand.Int63n(int64(d/2) + 1))
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return sleepCtx(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		520, 521, 522, 523, 524: // CloudFlare
		return true
	}
	return false
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
	}
}
