// Package api implements the HTTP client for the ResumeForge service.
// Every network call in the application goes through Client: it prefixes the
// API base path, carries the session cookie, injects the CSRF header on
// unsafe verbs, bounds each request with a timeout, and translates failures
// into typed errors. No other package talks to the network directly.
package api

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
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds every request unless the caller's context
	// expires first.
	DefaultTimeout = 15 * time.Second

	// CSRFCookieName is the readable cookie the server sets alongside the
	// HttpOnly session cookie.
	CSRFCookieName = "csrf_token"

	// CSRFHeaderName carries the CSRF token back on unsafe requests.
	CSRFHeaderName = "X-CSRF-Token"
)

// safeMethods never carry a CSRF header.
var safeMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

// Client is the single chokepoint for all API traffic. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient builds a Client for the given API base URL (e.g.
// "https://resumeforge.app/api"). The cookie jar holding the session and
// CSRF cookies is owned by the client and shared across all requests.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		timeout: timeout,
	}, nil
}

// SetOnUnauthorized registers the callback invoked when any request comes
// back 401. The slot is single and replaceable: registering a new callback
// discards the previous one. There is exactly one consumer in practice (the
// session manager), so a subscription list would be overkill.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// csrfToken reads the CSRF cookie from the jar. Empty when no session has
// been established yet, which is not an error.
func (c *Client) csrfToken() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == CSRFCookieName {
			return ck.Value
		}
	}
	return ""
}

// clearSession drops the session and CSRF cookies from the jar. Called on
// 401 so a dead session is not resent on subsequent requests.
func (c *Client) clearSession() {
	expired := make([]*http.Cookie, 0, 2)
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", MaxAge: -1, Path: "/"})
	}
	c.http.Jar.SetCookies(c.baseURL, expired)
}

// errorDetail extracts the server's {"detail": "..."} message from an error
// body, falling back to a generic message.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return "an error occurred"
}

// do performs one bounded request and returns the status plus the fully read
// body. Status handling:
//   - 401: session cookies cleared, unauthorized callback fired, ErrUnauthorized.
//   - other non-2xx: *StatusError with the parsed detail message.
//   - 204: success with an empty body.
//
// A deadline hit maps to ErrTimeout; cancellation of the caller's context
// propagates as context.Canceled.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, c.timeout, ErrTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if _, safe := safeMethods[method]; !safe {
		if token := c.csrfToken(); token != "" {
			req.Header.Set(CSRFHeaderName, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrTimeout) {
			return 0, nil, ErrTimeout
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrTimeout) {
			return 0, nil, ErrTimeout
		}
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
		c.mu.Lock()
		fn := c.onUnauthorized
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		return resp.StatusCode, nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, &StatusError{Status: resp.StatusCode, Detail: errorDetail(data)}
	}

	return resp.StatusCode, data, nil
}

// JSON performs a request with an optional JSON body and unmarshals a JSON
// response into out. A nil out or a 204 response skips decoding.
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	status, data, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if out == nil || status == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get issues a GET request for path, decoding the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.JSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE request for path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.JSON(ctx, http.MethodDelete, path, nil, nil)
}

// PostForm issues a form-encoded POST (the login endpoint speaks
// application/x-www-form-urlencoded rather than JSON).
func (c *Client) PostForm(ctx context.Context, path string, values url.Values, out any) error {
	status, data, err := c.do(ctx, http.MethodPost, path,
		"application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	if out == nil || status == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PostBinary issues a POST with a JSON body and returns the raw response
// payload. Used by the two PDF-rendering endpoints, whose success bodies are
// binary rather than JSON.
func (c *Client) PostBinary(ctx context.Context, path string, in any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	_, data, err := c.do(ctx, http.MethodPost, path, contentType, body)
	if err != nil {
		return nil, err
	}
	return data, nil
}
