// Package dummyjson is the HTTP client for the public demo catalog API that
// supplies products, posts, comments and user authentication.
package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

const (
	DefaultBaseURL = "https://dummyjson.com"

	// MessageNoResponse is reported when the request never got a response.
	MessageNoResponse = "No response received from server. Please check your connection"

	errorBodyReadLimit int64 = 4096
)

// TokenSource returns the bearer token to attach to outgoing calls. An empty
// token means the call goes out anonymously.
type TokenSource func(ctx context.Context) (string, error)

// Client wraps the demo API. Every method is a single request with no retry
// or caching.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	baseURL        string
	limiter        *rate.Limiter
	metrics        *metrics.RemoteAPIMetrics
	tokenSource    TokenSource
	onUnauthorized func(ctx context.Context)
	logg           *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client. It has
// no effect when WithHTTPClient supplies a client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing calls to rps with the given burst.
// A non-positive rps leaves calls unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records call durations and outcomes.
func WithMetrics(m *metrics.RemoteAPIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTokenSource attaches an Authorization header to every call.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.tokenSource = src }
}

// WithUnauthorizedHook registers fn to run whenever the API answers 401.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger used for upstream failures.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logg = logg }
}

// NewClient builds the client. Without options it talks to the public API
// with a 10 second timeout.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{
		baseURL: DefaultBaseURL,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}
	if _, err := url.Parse(client.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", client.baseURL, err)
	}
	return client, nil
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "remote api client not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, MessageNoResponse)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.op+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.op+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokenSource != nil {
		token, err := c.tokenSource(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read session token")
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(req.op, metrics.OutcomeForStatus(0), time.Since(start))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, MessageNoResponse)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.Observe(req.op, metrics.OutcomeForStatus(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(ctx, req, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+req.op+" response")
	}
	return nil
}

// statusError maps a non-2xx answer onto the error taxonomy, preferring the
// message the API put in the body.
func (c *Client) statusError(ctx context.Context, req request, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	code := pkgerrors.CodeForStatus(resp.StatusCode)

	msg := bodyMessage(raw)
	if msg == "" {
		msg = pkgerrors.MetadataFor(code).PublicMessage
		if code == pkgerrors.CodeValidation {
			msg = "An error occurred with the server response"
		}
	}

	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"remote_op":     req.op,
			"remote_status": resp.StatusCode,
			"remote_path":   req.path,
		})
		c.logg.Warn(logCtx, "remote api returned an error status")
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	cause := fmt.Errorf("%s %s: status %d", req.method, req.path, resp.StatusCode)
	return pkgerrors.Wrap(code, cause, msg).WithDetails(map[string]any{"status": resp.StatusCode})
}

func bodyMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	return strings.TrimSpace(payload.Error)
}
