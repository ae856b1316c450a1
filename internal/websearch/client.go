// Package websearch looks game topics up on the community wiki.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ddadvisor/internal/domain"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/metrics"
)

const (
	DefaultBaseURL   = "https://darkestdungeon.wiki.gg"
	DefaultUserAgent = "PartyKeeperBot/1.0 (+https://example.local)"

	// WebSearchToolName is the name the agent and fallback chain use.
	WebSearchToolName = "web_search"

	webSearchDescription = "Executes a web search using only the provided keywords, focusing on " +
		"gathering broad, general information rather than precise or detailed results. " +
		"Example: Instead of searching for 'Darkest Dungeon Crate interaction without cleansing effects details,' " +
		"it simply searches for 'crate.'"
)

// Config configures the wiki client.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	MaxChars   int
	// Backoff is the base retry delay; it doubles per attempt.
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Page is the extracted content of one wiki page.
type Page struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// StatusError is returned for non-2xx responses that survive retries.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wiki GET %s failed: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client fetches and extracts wiki pages.
type Client struct {
	baseURL    string
	userAgent  string
	maxRetries int
	maxChars   int
	backoff    time.Duration
	client     *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		maxChars:   cfg.MaxChars,
		backoff:    cfg.Backoff,
		client:     hc,
		logger:     logger.OrNop(cfg.Logger),
	}
}

// SearchPage fetches the page titled title. When the direct page request
// ends in an HTTP error the wiki's own search page is used instead.
func (c *Client) SearchPage(ctx context.Context, title string) (Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Page{}, domain.ErrEmptyQuery
	}
	safe := strings.ReplaceAll(title, " ", "_")

	body, finalURL, err := c.fetch(ctx, "/wiki/"+url.PathEscape(safe), nil)
	var se *StatusError
	if errors.As(err, &se) {
		logger.FromContext(ctx, c.logger).Debug("direct wiki page failed, using search",
			zap.String("title", title), zap.Int("status", se.StatusCode))
		body, finalURL, err = c.fetch(ctx, "/wiki/Special:Search", url.Values{"search": {title}})
	}
	if err != nil {
		return Page{}, err
	}
	return Page{Title: title, URL: finalURL, Text: ExtractMainContent(body, c.maxChars)}, nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (string, string, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	log := logger.FromContext(ctx, c.logger)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, retryDelay(c.backoff, attempt-1)); err != nil {
				return "", "", err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return "", "", fmt.Errorf("build wiki request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.WebRequestsTotal.WithLabelValues("transport_error").Inc()
			lastErr = fmt.Errorf("wiki GET %s: %w", target, err)
			if ctx.Err() != nil {
				return "", "", lastErr
			}
			log.Warn("wiki request failed", zap.String("url", target), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		payload, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		metrics.WebRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		if retryable(resp.StatusCode) {
			lastErr = &StatusError{StatusCode: resp.StatusCode, URL: target}
			log.Warn("wiki request retryable status", zap.String("url", target), zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
			continue
		}
		if resp.StatusCode >= 400 {
			return "", "", &StatusError{StatusCode: resp.StatusCode, URL: target}
		}
		if readErr != nil {
			lastErr = fmt.Errorf("read wiki response: %w", readErr)
			continue
		}
		return string(payload), resp.Request.URL.String(), nil
	}
	return "", "", lastErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Tool exposes the client as the web_search tool.
type Tool struct {
	client *Client
}

func NewTool(c *Client) *Tool { return &Tool{client: c} }

func (t *Tool) Name() string { return WebSearchToolName }

func (t *Tool) Description() string { return webSearchDescription }

// Call returns the extracted page text for query.
func (t *Tool) Call(ctx context.Context, query string) (domain.ToolOutput, error) {
	page, err := t.client.SearchPage(ctx, query)
	if err != nil {
		return nil, err
	}
	return domain.Text(page.Text), nil
}
