package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dev-shimada/cloud-proxy/internal/upstream"
)

const (
	msgUnreachable = "upstream provider unreachable"
	msgMalformed   = "malformed upstream response"
	msgInternal    = "internal server error"
	msgInvalidBody = "request body must be a JSON object"
)

const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnreachable = "unreachable"
	OutcomeRejected    = "rejected"
	OutcomeMalformed   = "malformed"
	OutcomeInternal    = "internal"
)

// Observer records the outcome of every dispatched request.
type Observer interface {
	Observe(route, outcome string, elapsed time.Duration)
}

type Dispatcher struct {
	forwarder Forwarder
	observer  Observer
}

func NewDispatcher(f Forwarder, observer Observer) *Dispatcher {
	return &Dispatcher{
		forwarder: f,
		observer:  observer,
	}
}

func (d *Dispatcher) Handler(desc *Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status, body, outcome := d.dispatch(r, desc)
		if d.observer != nil {
			d.observer.Observe(desc.Name, outcome, time.Since(start))
		}
		WriteJSON(w, status, body)
	}
}

func (d *Dispatcher) dispatch(r *http.Request, desc *Descriptor) (int, map[string]any, string) {
	payload, err := decodeBody(r)
	if err != nil {
		return http.StatusBadRequest, failure(msgInvalidBody, nil), OutcomeInvalid
	}

	call := &Call{
		Descriptor: desc,
		Params:     urlParams(r),
		Query:      r.URL.Query(),
		Body:       payload,
	}

	if err := Validate(desc.Fields, payload); err != nil {
		return http.StatusBadRequest, failure(err.Error(), nil), OutcomeInvalid
	}

	exec := desc.Exec
	if exec == nil {
		exec = DefaultExec
	}

	result, err := exec(r.Context(), d.forwarder, call)
	if err != nil {
		return d.fail(desc, err)
	}

	shape := desc.Shape
	if shape == nil {
		shape = Wrap("result")
	}
	out, err := shape(call, result)
	if err != nil {
		return d.fail(desc, upstream.Malformed(http.StatusOK, err))
	}

	out["success"] = true
	return http.StatusOK, out, OutcomeOK
}

func (d *Dispatcher) fail(desc *Descriptor, err error) (int, map[string]any, string) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, failure(vErr.Message, nil), OutcomeInvalid
	}

	upErr, ok := upstream.AsError(err)
	if !ok {
		slog.Error("route failed", "route", desc.Name, "error", err)
		return http.StatusInternalServerError, failure(msgInternal, nil), OutcomeInternal
	}

	slog.Warn("upstream call failed",
		"route", desc.Name,
		"kind", upErr.Kind.String(),
		"status", upErr.Status,
		"code", upErr.Code,
		"error", upErr,
	)

	return http.StatusInternalServerError, translate(desc, upErr), upErr.Kind.String()
}

// translate picks the client-facing message: a declared override for the
// provider code first, then the descriptor's fixed failure text, then the
// provider's own message, then a generic one per error kind.
func translate(desc *Descriptor, upErr *upstream.Error) map[string]any {
	switch upErr.Kind {
	case upstream.KindRejected:
		if msg, ok := desc.Overrides[upErr.Code]; ok && upErr.Code != 0 {
			return failure(msg, nil)
		}
		if desc.Failure != "" {
			return failure(desc.Failure, upErr.Details)
		}
		if upErr.Message != "" {
			return failure(upErr.Message, upErr.Details)
		}
		return failure(fmt.Sprintf("upstream request failed with status %d", upErr.Status), upErr.Details)
	case upstream.KindMalformed:
		if desc.Failure != "" {
			return failure(desc.Failure, nil)
		}
		return failure(msgMalformed, nil)
	default:
		if desc.Failure != "" {
			return failure(desc.Failure, map[string]any{"message": msgUnreachable})
		}
		return failure(msgUnreachable, nil)
	}
}

func failure(msg string, details any) map[string]any {
	out := map[string]any{
		"success": false,
		"error":   msg,
	}
	if details != nil {
		out["details"] = details
	}
	return out
}

func decodeBody(r *http.Request) (map[string]any, error) {
	out := map[string]any{}
	if r.Body == nil {
		return out, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func urlParams(r *http.Request) map[string]string {
	params := map[string]string{}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
