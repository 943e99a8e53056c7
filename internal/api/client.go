// Package api is the REST client for the CMS backend.
package api

import (
	"bytes"
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
)

const requestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token. Clear is called when the server
// rejects the token.
type TokenSource interface {
	Token() (string, bool)
	Clear()
}

type Client struct {
	baseURL    *url.URL
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped with request logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", baseURL)
	}
	c := &Client{
		baseURL:    u,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	hc.Transport = &loggingTransport{next: next, logger: c.logger}
	c.httpClient = &hc
	return c, nil
}

// Origin returns scheme://host of the base URL. Relative media paths are
// resolved against it.
func (c *Client) Origin() string {
	return c.baseURL.Scheme + "://" + c.baseURL.Host
}

// doJSON sends one request and returns the raw 2xx body. A nil reqBody sends
// no body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	token, ok := c.tokens.Token()
	if !ok {
		return nil, ErrNoToken
	}

	// path arrives escaped so ids containing slashes survive the round trip.
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build path %q: %w", path, err)
	}
	u.Path = unescaped
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer closeWithLog(resp.Body, "response body", c.logger)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errorFromBody(resp.StatusCode, respBody)
		if resp.StatusCode == http.StatusUnauthorized {
			c.logger.Warn("token rejected, clearing", "path", path)
			c.tokens.Clear()
		}
		return nil, apiErr
	}
	return respBody, nil
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil && !errors.Is(err, http.ErrBodyReadAfterClose) {
		logger.Error("failed to close "+label, "error", err)
	}
}
