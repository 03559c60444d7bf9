// Package route holds the declarative endpoint table and the dispatcher that
// turns an inbound request into one (or a few) upstream calls.
package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dev-shimada/cloud-proxy/internal/upstream"
)

// Forwarder is satisfied by *upstream.Client.
type Forwarder interface {
	Do(ctx context.Context, req upstream.Request) (json.RawMessage, error)
}

type ExecFunc func(ctx context.Context, f Forwarder, call *Call) (json.RawMessage, error)

type BodyFunc func(call *Call) any

type ShapeFunc func(call *Call, payload json.RawMessage) (map[string]any, error)

// Descriptor is the static description of one local endpoint. It is built
// once at startup and only read afterwards.
type Descriptor struct {
	Name    string
	Method  string
	Pattern string

	// UpstreamMethod defaults to Method.
	UpstreamMethod string
	// UpstreamPath uses {name} placeholders filled from path parameters.
	UpstreamPath string
	ForwardQuery bool

	Fields []Field
	Body   BodyFunc
	Shape  ShapeFunc

	// Overrides maps provider error codes to fixed client-facing messages.
	Overrides map[int]string
	// Failure, when set, replaces the provider's own message on errors that
	// have no override. The provider error is still reported under details.
	Failure string

	// Exec replaces the single default upstream call.
	Exec ExecFunc
}

func (d *Descriptor) upstreamMethod() string {
	if d.UpstreamMethod != "" {
		return d.UpstreamMethod
	}
	return d.Method
}

// Call carries the per-request inputs of a descriptor.
type Call struct {
	Descriptor *Descriptor
	Params     map[string]string
	Query      url.Values
	Body       map[string]any
}

func (c *Call) Param(name string) string {
	return c.Params[name]
}

// String returns a body field when it is a non-empty string.
func (c *Call) String(name string) (string, bool) {
	v, ok := c.Body[name].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Request builds the default upstream request for the call.
func (c *Call) Request() (upstream.Request, error) {
	path, err := Expand(c.Descriptor.UpstreamPath, c.Params)
	if err != nil {
		return upstream.Request{}, err
	}

	req := upstream.Request{
		Method: c.Descriptor.upstreamMethod(),
		Path:   path,
	}
	if c.Descriptor.ForwardQuery && len(c.Query) > 0 {
		req.Query = c.Query
	}

	switch {
	case c.Descriptor.Body != nil:
		req.Body = c.Descriptor.Body(c)
	case hasBody(req.Method) && len(c.Descriptor.Fields) > 0:
		names := make([]string, 0, len(c.Descriptor.Fields))
		for _, f := range c.Descriptor.Fields {
			names = append(names, f.Name)
		}
		req.Body = Pick(names...)(c)
	}

	return req, nil
}

// DefaultExec forwards the call as a single upstream request.
func DefaultExec(ctx context.Context, f Forwarder, call *Call) (json.RawMessage, error) {
	req, err := call.Request()
	if err != nil {
		return nil, err
	}
	return f.Do(ctx, req)
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Pick copies the named fields that are present in the inbound body.
func Pick(names ...string) BodyFunc {
	return func(call *Call) any {
		out := make(map[string]any, len(names))
		for _, name := range names {
			if v, ok := call.Body[name]; ok && present(v) {
				out[name] = v
			}
		}
		return out
	}
}
