// Package api is the single outbound HTTP pipeline shared by every feature
// call. It attaches bearer credentials, unwraps the backend's
// {code, message, data} envelope, and classifies every failure exactly once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"

	"github.com/fieldkpi/qualdash/internal/notify"
)

// DefaultTimeout is the transport-level request timeout.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response the gateway will read.
const maxBodySize = 16 << 20

// SessionHandle is the gateway's view of the session machinery. The gateway
// is constructed before the session store exists, so the handle is bound
// late via BindSession; until then requests go out unauthenticated.
type SessionHandle interface {
	// Token returns the current bearer token, or "" when logged out.
	Token() string

	// Invalidate tears the session down. Called on HTTP 401.
	Invalidate(ctx context.Context)
}

// RequestStage transforms an outbound request before it is sent. Stages run
// in order; a stage error aborts the call.
type RequestStage func(req *http.Request) error

// Config holds gateway construction parameters.
type Config struct {
	// BaseURL is the backend API base, including the /api prefix.
	BaseURL string

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	// CacheDir enables disk-backed response caching when set; otherwise an
	// in-memory cache is used. Only affects GETs with cache headers.
	CacheDir string

	// Notifier receives the user-visible message for every failure. It must
	// not be nil.
	Notifier notify.Notifier

	Logger zerolog.Logger

	// HTTPClient overrides the built transport. Used in tests.
	HTTPClient *http.Client
}

// Client is the API gateway.
type Client struct {
	base     *url.URL
	http     *http.Client
	stages   []RequestStage
	notifier notify.Notifier
	logger   zerolog.Logger

	mu      sync.RWMutex
	session SessionHandle
}

// New creates the gateway. BindSession completes wiring once the session
// store exists.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: newCachingTransport(cfg.CacheDir),
		}
	}

	c := &Client{
		base:     base,
		http:     httpClient,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
	c.stages = []RequestStage{c.bearerStage, c.requestIDStage}

	return c, nil
}

// newCachingTransport builds the HTTP transport, disk-backed when cacheDir
// is set. Repeated options lookups then honor backend cache headers.
func newCachingTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		return httpcache.NewTransport(httpcache.NewMemoryCache())
	}
	return httpcache.NewTransport(diskcache.New(cacheDir))
}

// BindSession attaches the session handle after construction.
func (c *Client) BindSession(s SessionHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) boundSession() SessionHandle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// bearerStage attaches the Authorization header once a session exists.
func (c *Client) bearerStage(req *http.Request) error {
	s := c.boundSession()
	if s == nil {
		return nil
	}
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// requestIDStage tags each request for log correlation.
func (c *Client) requestIDStage(req *http.Request) error {
	req.Header.Set("X-Request-Id", uuid.NewString())
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do runs one round trip through the pipeline: build, apply request stages,
// send, classify.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	return c.send(ctx, method, path, query, reader, contentType, out)
}

// postMultipart sends a multipart/form-data request built by form.
func (c *Client) postMultipart(ctx context.Context, path string, form func(w *multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := form(w); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, stage := range c.stages {
		if err := stage(req); err != nil {
			return fmt.Errorf("request stage failed: %w", err)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("api call failed")
		return c.fail(&Error{Kind: KindTransport, Message: transportMessage(err)})
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("requestId", req.Header.Get("X-Request-Id")).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return c.classify(ctx, resp, out)
}

// classify implements the response side of the pipeline. Every failure is
// surfaced through the notifier and returned; nothing is swallowed.
func (c *Client) classify(ctx context.Context, resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.fail(&Error{Kind: KindTransport, Status: resp.StatusCode, Message: "network error"})
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		details := validationDetails(data)
		msg := joinDetails(details)
		if msg == "" {
			msg = "validation failed"
		}
		return c.fail(&Error{Kind: KindValidation, Status: resp.StatusCode, Message: msg, Details: details})

	case resp.StatusCode == http.StatusUnauthorized:
		// Session teardown happens before the caller observes the failure.
		if s := c.boundSession(); s != nil {
			s.Invalidate(ctx)
		}
		return c.fail(&Error{
			Kind:    KindUnauthenticated,
			Status:  resp.StatusCode,
			Message: bestMessage(data, "authentication required"),
		})

	case resp.StatusCode == http.StatusForbidden:
		return c.fail(&Error{Kind: KindForbidden, Status: resp.StatusCode, Message: "insufficient permission"})

	case resp.StatusCode >= http.StatusBadRequest:
		return c.fail(&Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: bestMessage(data, resp.Status),
		})
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return c.fail(&Error{Kind: KindTransport, Status: resp.StatusCode, Message: "invalid response from server"})
	}

	if env.Code != 0 {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return c.fail(&Error{Kind: KindApp, Status: resp.StatusCode, Code: env.Code, Message: msg})
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return c.fail(&Error{Kind: KindTransport, Status: resp.StatusCode, Message: "invalid response from server"})
		}
	}

	return nil
}

func (c *Client) fail(apiErr *Error) error {
	c.notifier.Notify(apiErr.Message)
	return apiErr
}

// envelope is the uniform wrapper around every backend response.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// validationDetails extracts messages from a 422 body: a FastAPI-style
// detail list or string, falling back to an envelope message.
func validationDetails(data []byte) []string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}

	if len(body.Detail) > 0 {
		var single string
		if err := json.Unmarshal(body.Detail, &single); err == nil {
			return []string{single}
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			details := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					details = append(details, it.Msg)
				}
			}
			if len(details) > 0 {
				return details
			}
		}
	}

	if body.Message != "" {
		return []string{body.Message}
	}
	return nil
}

// bestMessage prefers the backend-provided message over the fallback.
func bestMessage(data []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	return fallback
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}
	return "network error"
}
