// Package upstream forwards normalized requests to a provider REST API and
// classifies the outcome into a decoded payload or a typed *Error.
package upstream

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
)

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type Client struct {
	baseURL    *url.URL
	headers    http.Header
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL must be absolute: %s", baseURL)
	}

	c := &Client{
		baseURL:    base,
		headers:    http.Header{},
		httpClient: &http.Client{},
	}
	c.headers.Set("Content-Type", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// URL resolves path and query against the base URL. The base path is kept,
// so "/zones" on ".../client/v4" yields ".../client/v4/zones". path is
// expected to be escaped already.
func (c *Client) URL(path string, query url.Values) string {
	base := *c.baseURL
	base.RawQuery = ""
	base.Fragment = ""

	target := strings.TrimSuffix(base.String(), "/") + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

type envelope struct {
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Errors  []apiError      `json:"errors"`
}

var nullResult = []byte("null")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Do performs exactly one outbound call and returns the envelope's result.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	var body io.Reader
	if req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.URL(req.Path, req.Query)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("upstream request failed",
			"method", req.Method,
			"url", target,
			"error", err,
		)
		return nil, Unreachable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Malformed(resp.StatusCode, fmt.Errorf("failed to read upstream response: %w", err))
	}

	return decode(resp.StatusCode, raw)
}

func decode(status int, raw []byte) (json.RawMessage, error) {
	ok := status >= 200 && status < 300

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !ok {
			return nil, &Error{
				Kind:    KindRejected,
				Status:  status,
				Message: http.StatusText(status),
				Err:     err,
			}
		}
		return nil, Malformed(status, err)
	}

	if !ok || (env.Success != nil && !*env.Success) {
		rejected := &Error{Kind: KindRejected, Status: status}
		if len(env.Errors) > 0 {
			rejected.Code = env.Errors[0].Code
			rejected.Message = env.Errors[0].Message
			rejected.Details = env.Errors
		}
		return nil, rejected
	}

	if env.Success == nil {
		return nil, Malformed(status, errors.New("missing success field"))
	}
	if len(env.Result) == 0 || bytes.Equal(env.Result, nullResult) {
		return nil, Malformed(status, errors.New("missing result field"))
	}

	return env.Result, nil
}
