package proxy

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dev-shimada/cloud-proxy/internal/cloudflare"
	"github.com/dev-shimada/cloud-proxy/internal/lightsail"
	"github.com/dev-shimada/cloud-proxy/internal/metrics"
	"github.com/dev-shimada/cloud-proxy/internal/middleware"
	"github.com/dev-shimada/cloud-proxy/internal/route"
)

type Proxy struct {
	router chi.Router
}

type Options struct {
	// Cloudflare forwards the CDN/DNS routes, usually an *upstream.Client.
	Cloudflare route.Forwarder
	Lightsail  *lightsail.Service
	// Metrics is optional.
	Metrics *metrics.Metrics
	// RequestTimeout bounds the upstream work of one request. Zero means
	// no bound.
	RequestTimeout time.Duration
}

// Table returns every local route served by the proxy.
func Table(svc *lightsail.Service) route.Table {
	table := cloudflare.Routes()
	table = append(table, svc.Routes()...)
	return table
}

func New(opts Options) (*Proxy, error) {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.AccessLog,
		middleware.Recoverer,
		middleware.Deadline(opts.RequestTimeout),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		route.WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		route.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "error": "method not allowed"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		route.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	var observer route.Observer
	if opts.Metrics != nil {
		observer = opts.Metrics
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	dispatcher := route.NewDispatcher(opts.Cloudflare, observer)
	if err := Table(opts.Lightsail).Mount(r, dispatcher); err != nil {
		return nil, err
	}

	return &Proxy{
		router: r,
	}, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.router.ServeHTTP(w, r)
}
