// Package fetch retrieves the published outage announcement page and
// extracts the per-queue raw schedule text the parser consumes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	corelogger "github.com/gpv-monitor/gpv/core/logger"
	"github.com/gpv-monitor/gpv/infra/logger"
)

// DefaultURL is the utility's announcement page.
const DefaultURL = "https://cek.dp.ua/index.php/cpojivaham/vidkliuchennia.html"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Error indicates the announcement page could not be retrieved.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config defines the fetch client settings.
type Config struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxRetries     int    `json:"max_retries"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
}

// Client fetches the announcement page with retries.
type Client struct {
	http *retryablehttp.Client
	url  string
	log  corelogger.Logger
}

// NewClient builds a fetch client from the configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	rc.Logger = nil
	return &Client{
		http: rc,
		url:  cfg.URL,
		log:  logger.New("fetch"),
	}
}

// HTTPClient exposes the underlying net/http client, mainly for tests.
func (c *Client) HTTPClient() *http.Client { return c.http.HTTPClient }

// URL returns the configured page address.
func (c *Client) URL() string { return c.url }

// FetchPage retrieves the announcement page body. Any transport failure or
// non-200 status is reported as a fetch Error; the caller turns it into a
// stale-serve decision.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", &Error{URL: c.url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{URL: c.url, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warnf("close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: c.url, Err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: c.url, Err: err}
	}
	return string(body), nil
}
