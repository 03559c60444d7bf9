package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL+"/client/v4",
		WithHeader("X-Auth-Email", "ops@example.com"),
		WithHeader("X-Auth-Key", "secret"),
	)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "absolute URL", baseURL: "https://api.cloudflare.com/client/v4", wantErr: false},
		{name: "relative URL", baseURL: "/client/v4", wantErr: true},
		{name: "unparseable URL", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_URL(t *testing.T) {
	c, err := New("https://api.cloudflare.com/client/v4/")
	require.NoError(t, err)

	assert.Equal(t, "https://api.cloudflare.com/client/v4/zones", c.URL("/zones", nil))
	assert.Equal(t, "https://api.cloudflare.com/client/v4/zones/a%2Fb", c.URL("zones/a%2Fb", nil))
	assert.Equal(t,
		"https://api.cloudflare.com/client/v4/zones?page=2&per_page=50",
		c.URL("/zones", url.Values{"page": {"2"}, "per_page": {"50"}}),
	)
}

func TestClient_DoSuccess(t *testing.T) {
	var gotMethod, gotPath, gotEmail, gotKey, gotContentType string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotEmail = r.Header.Get("X-Auth-Email")
		gotKey = r.Header.Get("X-Auth-Key")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{"success":true,"errors":[],"result":{"id":"z1","meta":{"step":2}}}`)
	})

	result, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/zones",
		Body:   map[string]any{"name": "example.com", "jump_start": true},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"z1","meta":{"step":2}}`, string(result))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/client/v4/zones", gotPath)
	assert.Equal(t, "ops@example.com", gotEmail)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"name": "example.com", "jump_start": true}, gotBody)
}

func TestClient_DoFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantCode    int
		wantMessage string
	}{
		{
			name:        "provider error envelope",
			status:      http.StatusBadRequest,
			body:        `{"success":false,"errors":[{"code":1061,"message":"example.com already exists"},{"code":2,"message":"second"}],"result":null}`,
			wantKind:    KindRejected,
			wantCode:    1061,
			wantMessage: "example.com already exists",
		},
		{
			name:        "success false with 200",
			status:      http.StatusOK,
			body:        `{"success":false,"errors":[{"code":7003,"message":"Could not route"}]}`,
			wantKind:    KindRejected,
			wantCode:    7003,
			wantMessage: "Could not route",
		},
		{
			name:        "non-2xx without errors",
			status:      http.StatusForbidden,
			body:        `{"success":false,"errors":[]}`,
			wantKind:    KindRejected,
			wantMessage: "",
		},
		{
			name:        "non-2xx with html body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantKind:    KindRejected,
			wantMessage: "Bad Gateway",
		},
		{
			name:     "2xx with non json body",
			status:   http.StatusOK,
			body:     `not json`,
			wantKind: KindMalformed,
		},
		{
			name:     "2xx missing success",
			status:   http.StatusOK,
			body:     `{"result":{"id":"z1"}}`,
			wantKind: KindMalformed,
		},
		{
			name:     "2xx missing result",
			status:   http.StatusOK,
			body:     `{"success":true}`,
			wantKind: KindMalformed,
		},
		{
			name:     "2xx null result",
			status:   http.StatusOK,
			body:     `{"success":true,"errors":[],"result":null}`,
			wantKind: KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			result, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/zones"})
			require.Error(t, err)
			assert.Nil(t, result)

			upErr, ok := AsError(err)
			require.True(t, ok, "expected *upstream.Error, got %T", err)
			assert.Equal(t, tt.wantKind, upErr.Kind)
			assert.Equal(t, tt.status, upErr.Status)
			if tt.wantKind == KindRejected {
				assert.Equal(t, tt.wantCode, upErr.Code)
				assert.Equal(t, tt.wantMessage, upErr.Message)
			}
		})
	}
}

func TestClient_DoUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c, err := New(baseURL)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/zones"})
	require.Error(t, err)

	upErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, upErr.Kind)
	assert.Zero(t, upErr.Status)
	assert.Error(t, upErr.Unwrap())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingBody) Close() error             { return nil }

func TestClient_DoTruncatedBody(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       failingBody{},
			Request:    r,
		}, nil
	})}

	c, err := New("https://api.cloudflare.com/client/v4", WithHTTPClient(hc))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/zones"})
	require.Error(t, err)

	upErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformed, upErr.Kind)
	assert.Equal(t, http.StatusOK, upErr.Status)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestClient_DoEncodeError(t *testing.T) {
	c, err := New("https://api.cloudflare.com/client/v4")
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/zones",
		Body:   map[string]any{"bad": make(chan int)},
	})
	require.Error(t, err)

	_, ok := AsError(err)
	assert.False(t, ok, "encode failures are local errors, not upstream ones")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "rejected", KindRejected.String())
	assert.Equal(t, "malformed", KindMalformed.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
