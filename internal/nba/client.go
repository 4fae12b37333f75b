package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// BaseURL for the public stats API.
	BaseURL = "https://stats.nba.com/stats"

	requestTimeout = 15 * time.Second
	maxRetries     = 3
)

// Client handles stats API requests.
// The API rejects requests without browser-like headers, so every request
// carries a Referer and User-Agent.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rateLimiter
}

// NewClient creates a stats API client limited to requestsPerMinute.
func NewClient(baseURL string, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: newRateLimiter(requestsPerMinute),
	}
}

// get fetches an endpoint with the given query parameters and decodes the
// resultSets envelope. Rate limited, with bounded retries on 429/5xx.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Referer", "https://www.nba.com/")
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !sleepCtx(ctx, backoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%s returned %d", endpoint, resp.StatusCode)
			if !sleepCtx(ctx, backoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%s returned unexpected status %d", endpoint, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
		}

		var decoded response
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
		return &decoded, nil
	}

	return nil, fmt.Errorf("max retries exceeded for %s: %w", endpoint, lastErr)
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 500 * time.Millisecond
}

// sleepCtx sleeps for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// rateLimiter is a token bucket refilled at requestsPerMinute.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	burst := requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		rl.mu.Lock()

		now := time.Now()
		elapsed := now.Sub(rl.lastRefill)
		if add := int(elapsed / rl.refillRate); add > 0 {
			rl.tokens = min(rl.tokens+add, rl.maxTokens)
			rl.lastRefill = now
		}

		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}

		waitTime := rl.refillRate
		rl.mu.Unlock()
		if !sleepCtx(ctx, waitTime) {
			return ctx.Err()
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
