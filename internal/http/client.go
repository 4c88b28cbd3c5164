package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when the server answers 404.
//
// Callers use this to distinguish "this profile variant does not exist,
// try the fallback file" from transport failures that should propagate.
var ErrNotFound = errors.New("not found")

// DefaultTimeout bounds every request when the caller does not configure
// one.
const DefaultTimeout = 30 * time.Second

// Client wraps HTTP operations against the AutoEq raw file host.
//
// Client provides:
//   - A product User-Agent header
//   - Bounded request timeouts
//   - Conditional GET with ETag revalidation for the index
//   - A sentinel error for 404 so fetch fallbacks stay explicit
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	body, err := client.GetString(ctx, profileURL)
//	if errors.Is(err, http.ErrNotFound) {
//	    // try the CSV fallback file
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client with the given request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "autoeq-fiio",
	}
}

// GetString performs a GET request and returns the response body as a
// string.
//
// Returns an error wrapping ErrNotFound on 404 and a plain status error
// for any other non-200 response.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// GetStringConditional performs a conditional GET using the given ETag.
//
// When etag is non-empty it is sent as If-None-Match. The results are:
//   - 304: notModified=true with an empty body, serve the cached copy
//   - 200: fresh body plus the new ETag (may be empty if the server
//     stopped sending one)
//   - anything else: an error
//
// Example:
//
//	body, newETag, notModified, err := client.GetStringConditional(ctx, indexURL, cachedETag)
func (c *Client) GetStringConditional(ctx context.Context, url, etag string) (body, newETag string, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return "", etag, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", false, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", false, err
	}

	return string(data), resp.Header.Get("ETag"), false, nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", resp.Request.URL, ErrNotFound)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
}
