package gigo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

const (
	UserAgent = "gig-o-download/1.0 (github.com/pfrederiksen/gig-o-download)"
	Timeout   = 60 * time.Second
)

// TokenSource supplies and revokes the auth token
type TokenSource interface {
	EnsureToken(ctx context.Context) (string, error)
	Invalidate() error
}

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client issues authenticated requests to Gig-o-Matic
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		tokens: tokens,
	}
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch GETs path (relative to the base URL) and returns the response body.
func (c *Client) Fetch(ctx context.Context, path string) (string, error) {
	token, err := c.tokens.EnsureToken(ctx)
	if err != nil {
		return "", err
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.AddCookie(&http.Cookie{Name: "auth", Value: token})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	logger.Debug("Fetched page", logger.Fields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})
	logger.RecordTiming("http.fetch", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Invalidate(); err != nil {
			logger.Error("Failed to discard auth token", nil, err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(body), nil
}

// ArchivePage returns the HTML gig archive listing for a band
func (c *Client) ArchivePage(ctx context.Context, bandID string) (string, error) {
	return c.Fetch(ctx, "band_gig_archive?bk="+url.QueryEscape(bandID))
}

// GigInfoPage returns the standalone HTML detail page for a gig
func (c *Client) GigInfoPage(ctx context.Context, gigID string) (string, error) {
	return c.Fetch(ctx, "gig_info.html?gk="+url.QueryEscape(gigID))
}

// GigJSON returns the raw JSON record for a gig
func (c *Client) GigJSON(ctx context.Context, gigID string) (string, error) {
	return c.Fetch(ctx, "api/gig/"+url.PathEscape(gigID))
}

// GigInfoURL returns the public address of a gig's detail page
func (c *Client) GigInfoURL(gigID string) string {
	return c.baseURL + "/gig_info.html?gk=" + url.QueryEscape(gigID)
}
