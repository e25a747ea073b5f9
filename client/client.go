// Package client wraps the remote task-management REST API. Every method
// maps to one backend endpoint; the backend stays the sole authority for
// authorization regardless of what the local session claims.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token. An empty string means the
// request goes out unauthenticated.
type TokenSource func() string

// Client is a thin, stateless wrapper over the backend REST surface.
type Client struct {
	baseURL string
	http    *http.Client
	log     *log.Logger
	token   TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource attaches bearer tokens to outgoing requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: trimSlash(baseURL),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	env, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*envelope, error) {
	payload, err := sonic.ConfigStd.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(payload))
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	env, err := c.doJSON(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(env, out)
}

func decodeData(env *envelope, out any) error {
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return sonic.ConfigStd.Unmarshal(env.Data, out)
}

// do performs one request and returns the decoded envelope. Any transport
// failure, non-2xx status or non-success envelope becomes an error; callers
// surface it and leave their state untouched.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (env *envelope, err error) {
	metrics := newRequestMetrics(ctx, c.log, method, path)
	status := 0
	defer func() {
		metrics.Log(status, err)
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		metrics.SetErrorStage("build_request")
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	sendStart := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveSend(time.Since(sendStart))
	if err != nil {
		metrics.SetErrorStage("transport")
		return nil, err
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	decodeStart := time.Now()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SetErrorStage("read_body")
		return nil, err
	}
	env = &envelope{}
	if len(raw) > 0 {
		if err := sonic.ConfigStd.Unmarshal(raw, env); err != nil {
			if resp.StatusCode >= 400 {
				metrics.SetErrorStage("api")
				return nil, &APIError{StatusCode: resp.StatusCode}
			}
			metrics.SetErrorStage("decode_response")
			return nil, err
		}
	}
	metrics.ObserveDecode(time.Since(decodeStart))

	if resp.StatusCode >= 400 || (env.Status != "" && env.Status != "success") {
		metrics.SetErrorStage("api")
		return nil, &APIError{StatusCode: resp.StatusCode, Status: env.Status, Message: env.Message}
	}
	return env, nil
}
