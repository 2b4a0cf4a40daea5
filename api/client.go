// Package api is the HTTP client for the mapping item / schema API and the
// workspace projects endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNoBaseURL is returned when a client is built without a base URL.
var ErrNoBaseURL = errors.New("api: no base URL configured")

// ErrInvalidSegment is returned for an ID or name that cannot be used as a
// single path segment.
var ErrInvalidSegment = errors.New("api: invalid path segment")

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status of a StatusError in err's chain, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Client talks to one API base URL. GET responses that the caller gives a
// cache key are kept in an LRU cache until invalidated.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cache   *lru.Cache[string, []byte]
	logger  *slog.Logger
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout. The http.Client is copied first so
// a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithCacheSize sets the number of cached responses. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.cache = nil
			return
		}
		c.cache, _ = lru.New[string, []byte](n)
	}
}

// WithToken sets the bearer token used when a call passes none.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}

	cache, _ := lru.New[string, []byte](128)
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Invalidate drops one cached response.
func (c *Client) Invalidate(key string) {
	if c.cache != nil {
		c.cache.Remove(key)
	}
}

// Purge drops every cached response.
func (c *Client) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// CacheLen returns the number of cached responses.
func (c *Client) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// pathSegment escapes s for use as one path segment. Values that would
// change the path structure are rejected.
func pathSegment(s string) (string, error) {
	if s == "" || s == "." || s == ".." || strings.Contains(s, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSegment, s)
	}
	return url.PathEscape(s), nil
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	token       string
	cacheKey    string // GET only; empty = not cached
}

// do performs r and returns the raw response body.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if r.cacheKey != "" && c.cache != nil {
		if data, ok := c.cache.Get(r.cacheKey); ok {
			c.logger.Debug("api cache hit", "key", r.cacheKey)
			return data, nil
		}
	}

	u := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	token := r.token
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", r.method, "path", r.path, "request_id", reqID, "err", err)
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if r.cacheKey != "" && c.cache != nil {
		c.cache.Add(r.cacheKey, data)
	}
	return data, nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, cacheKey string, out any) error {
	data, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     path,
		query:    query,
		cacheKey: cacheKey,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
