package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	// maxBodyBytes caps a single CSV export.
	maxBodyBytes = 16 << 20
)

// ErrBodyTooLarge is returned when an export exceeds the size cap.
var ErrBodyTooLarge = errors.New("body too large")

// StatusError is a non-2xx answer from the sheet host.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Client fetches published spreadsheet exports over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the default timeout.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// NewClientWithHTTP creates a client around an existing http.Client (for testing).
func NewClientWithHTTP(hc *http.Client) *Client {
	if hc == nil {
		return NewClient()
	}
	return &Client{httpClient: hc}
}

// FetchCSV performs one GET against url and returns the body as text. Caches
// are bypassed and any non-2xx status is an error naming the status code.
func (c *Client) FetchCSV(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return "", fmt.Errorf("reading response: %w (limit %d bytes)", ErrBodyTooLarge, maxBodyBytes)
	}
	return string(body), nil
}
