// Package fetch performs the blocking HTTP transfers the install
// pipeline depends on: manifest bytes and the release archive.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/auroralabs/bootstrapper/internal/logging"
)

const requestTimeout = 30 * time.Second

// TransportError reports a failed HTTP transfer: either the connection
// itself failed (Status == 0) or the server answered with a non-2xx
// status.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client wraps an http.Client with the User-Agent and timeout every
// pipeline request uses.
type Client struct {
	hc        *http.Client
	userAgent string
}

// NewClient returns a Client identifying itself as bootstrapper/version.
func NewClient(version string) *Client {
	return &Client{
		hc:        &http.Client{Timeout: requestTimeout},
		userAgent: fmt.Sprintf("bootstrapper/%s", version),
	}
}

func (c *Client) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &TransportError{URL: url, Status: resp.StatusCode}
	}
	return resp, nil
}

// Bytes performs a GET and returns the full response body.
func (c *Client) Bytes(url string) ([]byte, error) {
	resp, err := c.get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return body, nil
}

// ToFile performs a GET and writes the full body to path, created fresh
// (truncated if pre-existing). Returns the byte count written. A file
// left behind by a failed call holds whatever bytes arrived before the
// failure and must not be trusted; callers re-fetch rather than resume.
func (c *Client) ToFile(url, path string) (int64, error) {
	logger := logging.GetLogger("fetch")
	logger.Info().Str("url", url).Str("path", path).Msg("downloading")

	resp, err := c.get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	f, err := os.Create(path) // #nosec G304 -- path scratch controlled
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return n, &TransportError{URL: url, Err: err}
	}

	logger.Info().Int64("bytes", n).Msg("download completed")
	return n, nil
}
