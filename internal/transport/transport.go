// Package transport fetches catalog documents and release assets over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/conn-castle/nodeup/internal/messages"
)

const (
	// DefaultTimeout bounds a single request including the body transfer.
	DefaultTimeout = 10 * time.Minute
	// DefaultMaxBytes caps a single download.
	DefaultMaxBytes = int64(512 * 1024 * 1024)

	userAgent = "nodeup"
)

var osCreateTemp = os.CreateTemp

// Status classifies the outcome of a download.
type Status int

// Download outcomes. StatusNotFound is the only recoverable failure.
const (
	StatusOK Status = iota
	StatusNotFound
	StatusFailed
)

// Result is the outcome of Download. Path is set only for StatusOK; Err is set
// for every other status.
type Result struct {
	Status Status
	Path   string
	Err    error
}

// NotFound reports whether the server answered HTTP 404.
func (r Result) NotFound() bool {
	return r.Status == StatusNotFound
}

// NotFoundError is the error carried by a not-found Result.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.TransportNotFoundFmt, e.URL)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Options configures a Client.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	// Token is sent as a bearer token on every request when non-empty.
	Token string
}

// Client performs plain GET requests against a distribution mirror.
type Client struct {
	http     *http.Client
	maxBytes int64
	token    string
}

// New returns a Client using opts, falling back to the package defaults for zero values.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		token:    opts.Token,
	}
}

func (c *Client) get(ctx context.Context, url string, accept string) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.TransportCreateRequestFmt, url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return nil, fmt.Errorf(messages.TransportTimeoutFmt, url)
		}
		return nil, fmt.Errorf(messages.TransportRequestFailedFmt, url, err)
	}
	return resp, nil
}

// Download fetches url into a new temporary file under dir (os.TempDir when empty).
// A 404 yields StatusNotFound; every other failure yields StatusFailed. The partial
// temp file is removed on failure.
func (c *Client) Download(ctx context.Context, url string, dir string) Result {
	resp, err := c.get(ctx, url, "")
	if err != nil {
		return failed(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Result{Status: StatusNotFound, Err: &NotFoundError{URL: url}}
	}
	if resp.StatusCode != http.StatusOK {
		return failed(fmt.Errorf(messages.TransportUnexpectedStatusFmt, url, resp.Status))
	}

	tmp, err := osCreateTemp(dir, "download-*")
	if err != nil {
		return failed(fmt.Errorf(messages.TransportCreateTempFileFmt, err))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, copyErr := io.Copy(tmp, io.LimitReader(resp.Body, c.maxBytes+1))
	if copyErr != nil {
		_ = tmp.Close()
		return failed(fmt.Errorf(messages.TransportRequestFailedFmt, url, copyErr))
	}
	if n > c.maxBytes {
		_ = tmp.Close()
		return failed(fmt.Errorf(messages.TransportTooLargeFmt, url, c.maxBytes))
	}
	if err := tmp.Close(); err != nil {
		return failed(fmt.Errorf(messages.TransportCloseTempFileFmt, err))
	}
	committed = true
	return Result{Status: StatusOK, Path: tmpName}
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{URL: url}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.TransportUnexpectedStatusFmt, url, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(v); err != nil {
		return fmt.Errorf(messages.TransportDecodeJSONFmt, url, err)
	}
	return nil
}

func failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// isTimeoutError reports whether err is a network timeout.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
