// Package catalog provides a client for a remote book collection served over HTTP.
//
// Every operation issues exactly one request against the collection endpoint
// and returns either a value or one of NetworkError, FetchError or DecodeError.
// There are no retries and no local caching.
package catalog

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	booksPath        = "/books"
	defaultUserAgent = "bookshelf/1.0"

	// RequestIDHeader correlates client requests with server log lines.
	RequestIDHeader = "X-Request-Id"
)

// Client talks to a single book collection endpoint.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero leaves the transport default.
// It applies to a copy of the HTTP client, so a shared client is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the collection rooted at baseURL,
// e.g. "http://localhost:3000". Requests go to baseURL + "/books".
func New(baseURL string, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("catalog url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("catalog url %q: missing host", baseURL)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimRight(u.String(), "/"),
		userAgent: defaultUserAgent,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the collection root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bookPath returns the member path for id, escaped as a single segment.
func bookPath(id string) string {
	return booksPath + "/" + url.PathEscape(id)
}

// doRequest executes one request and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, op Op, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: create request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("catalog request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}
	return data, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// fail logs a failed operation and passes the error through.
func (c *Client) fail(op Op, err error) error {
	c.logger.Warn("catalog operation failed", "op", op, "error", err)
	return err
}
