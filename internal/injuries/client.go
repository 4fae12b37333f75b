package injuries

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultURL is the injury report page.
	DefaultURL = "https://www.cbssports.com/nba/injuries/"

	// UserAgent for requests; the page serves a bot wall to default clients.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to avoid hammering the page between cache expiries.
	MinRequestInterval = 2 * time.Second
)

// Client fetches the injury report page. The plain HTTP path is tried first;
// when it is blocked or yields no injury tables, a headless browser fetch is
// used as fallback.
type Client struct {
	url         string
	httpClient  *http.Client
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a new injury page client.
func NewClient(url string) (*Client, error) {
	if url == "" {
		url = DefaultURL
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		interval:   MinRequestInterval,
		allocCtx:   allocCtx,
		cancel:     cancel,
	}, nil
}

// Close releases the headless browser resources.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchDocument fetches the injury page and returns it parsed.
func (c *Client) FetchDocument(ctx context.Context) (*goquery.Document, error) {
	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.interval {
			time.Sleep(c.interval - elapsed)
		}
	}
	c.lastRequest = time.Now()

	html, err := c.fetchHTTP(ctx)
	if err != nil {
		log.Printf("[injuries] HTTP fetch failed (%v), falling back to headless browser", err)
		html, err = c.fetchBrowser(ctx)
		if err != nil {
			return nil, err
		}
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// fetchHTTP fetches the page with a plain HTTP GET.
func (c *Client) fetchHTTP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching injury page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("injury page returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading injury page: %w", err)
	}

	html := string(body)
	if !strings.Contains(html, "<table") {
		return "", fmt.Errorf("injury page contained no tables (likely bot wall)")
	}
	return html, nil
}

// fetchBrowser fetches the page with headless Chrome, letting any JS render.
func (c *Client) fetchBrowser(ctx context.Context) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(c.url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}
