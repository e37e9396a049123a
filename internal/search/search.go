// Package search implements best-effort scraping of public search
// engines. Each engine's markup-to-result mapping lives behind the
// Engine interface so page-structure drift is contained to a single
// Parse function.
package search

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// MaxResults caps how many results a single engine query may return.
const MaxResults = 8

// fetchBodyLimit bounds how much of a result page is read into memory.
const fetchBodyLimit = 2 << 20 // 2MB

// Result is a single scraped search hit. It is never persisted as a
// structured type; the research aggregator folds it into prose.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Engine maps one search provider's HTML to results.
type Engine interface {
	// Name identifies the engine in logs and search history rows.
	Name() string
	// SearchURL builds the query URL for the given topic.
	SearchURL(query string) string
	// Parse extracts results from the engine's response markup.
	Parse(r io.Reader) ([]Result, error)
}

// Client issues queries against search engines. All failures (non-200,
// timeout, parse error, zero matches) collapse to an empty result list;
// search availability is best-effort and never aborts a request.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a search client with browser-like defaults.
// TLS verification is disabled to match the lax posture the scraped
// engines tolerate; these responses are untrusted input either way.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // scraping endpoints, responses treated as untrusted
			},
		},
		logger: logger.With("component", "search_client"),
	}
}

// Search runs one query against one engine and returns at most
// MaxResults entries. It never returns an error: any failure is logged
// and swallowed, yielding an empty slice.
func (c *Client) Search(ctx context.Context, engine Engine, query string) []Result {
	body, err := c.fetch(ctx, engine.SearchURL(query))
	if err != nil {
		c.logger.WarnContext(ctx, "Search fetch failed", "engine", engine.Name(), "query", query, "error", err)
		return nil
	}
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			c.logger.DebugContext(ctx, "Error closing search response body", "error", closeErr)
		}
	}()

	results, err := engine.Parse(io.LimitReader(body, fetchBodyLimit))
	if err != nil {
		c.logger.WarnContext(ctx, "Search parse failed", "engine", engine.Name(), "query", query, "error", err)
		return nil
	}

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	c.logger.DebugContext(ctx, "Search completed", "engine", engine.Name(), "query", query, "results", len(results))
	return results
}

// Fetch retrieves a raw page with the same browser-like headers used
// for engine queries. Used by the research aggregator for encyclopedia
// pages.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, fetchBodyLimit))
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}
	return string(data), nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}
