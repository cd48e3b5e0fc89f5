// Package client is a Go client for the VitalTrack API. It keeps the session
// in a cookie jar the way a browser does, refreshes an expired access token
// once per failed call, caches collection and summary queries, and drops
// cached entries when the realtime feed reports a change.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	pathLogin    = "/api/auth/login"
	pathRegister = "/api/auth/register"
	pathRefresh  = "/api/auth/refresh"
)

// Client talks to one VitalTrack server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	cache      *Cache
	refreshing singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is
// replaced by the client's own when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache shares a cache between clients.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}

	c := &Client{baseURL: u}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	c.jar = c.httpClient.Jar
	if c.cache == nil {
		c.cache = NewCache()
	}
	return c, nil
}

// Cache returns the query cache used by the client.
func (c *Client) Cache() *Cache {
	return c.cache
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    []FieldError
}

// FieldError names one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vitaltrack: status %d", e.StatusCode)
	}
	return fmt.Sprintf("vitaltrack: %s (status %d)", e.Message, e.StatusCode)
}

// StatusCode returns the HTTP status of an *APIError, or 0 for any other error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// do sends one API call. A 401 on anything but the credential endpoints is
// answered by a single refresh followed by a single retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	err := c.send(ctx, method, path, query, body, out)
	if !IsUnauthorized(err) || !retriable(path) {
		return err
	}
	if refreshErr := c.refreshOnce(ctx); refreshErr != nil {
		return err
	}
	return c.send(ctx, method, path, query, body, out)
}

func retriable(path string) bool {
	switch path {
	case pathLogin, pathRegister, pathRefresh:
		return false
	}
	return true
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string       `json:"message"`
			Details []FieldError `json:"details"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Message
			apiErr.Details = payload.Details
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// refreshOnce rotates the session. Concurrent callers that hit a 401 at the
// same time share one refresh call.
func (c *Client) refreshOnce(ctx context.Context) error {
	_, err, _ := c.refreshing.Do("refresh", func() (any, error) {
		return c.Refresh(ctx)
	})
	return err
}
