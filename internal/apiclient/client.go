// Package apiclient is the shared HTTP client for the Wanshop backend API.
//
// One Client is built at startup and injected into every caller. Relative
// request paths resolve against BaseURL, which already ends in "/api", so
// callers never repeat the prefix. Requests are never retried: every failure
// reaches the caller as an *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultOrigin is used when no API origin is configured.
	DefaultOrigin = "http://127.0.0.1:8000"
	// DefaultTimeout bounds every request issued through the relative-path client.
	DefaultTimeout = 15000 * time.Millisecond

	apiPrefix       = "/api"
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 8 << 20
)

// absoluteURLPattern matches "scheme://" and protocol-relative "//" URLs.
var absoluteURLPattern = regexp.MustCompile(`(?i)^([a-z][a-z\d+\-.]*:)?//`)

// Config is the immutable configuration of a Client.
type Config struct {
	Origin  string
	BaseURL string
	Timeout time.Duration
}

// Recorder observes completed outbound requests.
type Recorder interface {
	ObserveAPIRequest(method, endpoint string, status int, kind Kind, elapsed time.Duration)
}

// Client issues requests against the backend API.
type Client struct {
	cfg       Config
	http      *http.Client
	upload    *http.Client
	logger    *slog.Logger
	recorder  Recorder
	requestID func(context.Context) string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used for relative-path requests. The
// client is copied and its Timeout forced to DefaultTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		cp.Timeout = DefaultTimeout
		c.http = &cp
	}
}

// WithUploadHTTPClient sets the transport used by Upload. It is used as is;
// by default uploads carry no client-side timeout.
func WithUploadHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.upload = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithRequestIDFunc sets how the outbound X-Request-ID is derived from the
// request context. An empty result falls back to a random UUID.
func WithRequestIDFunc(fn func(context.Context) string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// ResolveOrigin returns the configured origin without trailing slashes, or
// DefaultOrigin when none is configured.
func ResolveOrigin(configured string) string {
	origin := strings.TrimRight(strings.TrimSpace(configured), "/")
	if origin == "" {
		return DefaultOrigin
	}
	return origin
}

// New builds a Client for origin. An empty origin selects DefaultOrigin.
func New(origin string, opts ...Option) *Client {
	origin = ResolveOrigin(origin)
	c := &Client{
		cfg: Config{
			Origin:  origin,
			BaseURL: origin + apiPrefix,
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.cfg.Timeout}
	}
	if c.upload == nil {
		c.upload = &http.Client{}
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// BaseURL returns origin + "/api".
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// URL resolves path against BaseURL. Absolute URLs are returned unchanged.
func (c *Client) URL(path string) string {
	if absoluteURLPattern.MatchString(path) {
		return path
	}
	if path == "" {
		return c.cfg.BaseURL
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do issues a request relative to BaseURL. A non-nil body is sent as JSON;
// a 2xx response body is decoded into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(c.http, req, path, out)
}

func (c *Client) send(hc *http.Client, req *http.Request, endpoint string, out any) error {
	ctx := req.Context()
	req.Header.Set(requestIDHeader, c.outboundRequestID(ctx))

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		apiErr := transportError(req, err)
		c.finish(ctx, req, endpoint, 0, apiErr, time.Since(start))
		return apiErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		apiErr := transportError(req, err)
		c.finish(ctx, req, endpoint, resp.StatusCode, apiErr, time.Since(start))
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Kind:       KindHTTPStatus,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
		c.finish(ctx, req, endpoint, resp.StatusCode, apiErr, time.Since(start))
		return apiErr
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			apiErr := &Error{
				Kind:       KindDecode,
				Method:     req.Method,
				URL:        req.URL.String(),
				StatusCode: resp.StatusCode,
				Err:        err,
			}
			c.finish(ctx, req, endpoint, resp.StatusCode, apiErr, time.Since(start))
			return apiErr
		}
	}

	c.finish(ctx, req, endpoint, resp.StatusCode, nil, time.Since(start))
	return nil
}

func (c *Client) outboundRequestID(ctx context.Context) string {
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

func (c *Client) finish(ctx context.Context, req *http.Request, endpoint string, status int, err *Error, elapsed time.Duration) {
	kind := Kind(0)
	if err != nil {
		kind = err.Kind
	}
	if c.recorder != nil {
		c.recorder.ObserveAPIRequest(req.Method, metricEndpoint(endpoint), status, kind, elapsed)
	}

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", status),
		slog.Duration("latency", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("kind", kind.String()), slog.Any("error", err))
		c.logger.LogAttrs(ctx, slog.LevelWarn, "api request failed", attrs...)
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api request", attrs...)
}

// metricEndpoint collapses numeric path segments and drops the query so the
// endpoint label stays low-cardinality.
func metricEndpoint(path string) string {
	path, _, _ = strings.Cut(path, "?")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = ":id"
		}
	}
	return "/" + strings.Join(segs, "/")
}
