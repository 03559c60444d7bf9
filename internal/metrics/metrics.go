package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the proxy collectors on reg. Collectors that are already
// registered are reused.
func New(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{gatherer: reg}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cloud_proxy_requests_total",
		Help: "Total number of proxied requests by route and outcome",
	}, []string{"route", "outcome"})

	c, err := register(reg, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to register requests metric: %w", err)
	}
	var ok bool
	if m.requests, ok = c.(*prometheus.CounterVec); !ok {
		return nil, fmt.Errorf("requests metric already registered as %T", c)
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cloud_proxy_request_duration_seconds",
		Help:    "Time taken to serve a proxied request, upstream calls included",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	c, err = register(reg, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to register duration metric: %w", err)
	}
	if m.duration, ok = c.(*prometheus.HistogramVec); !ok {
		return nil, fmt.Errorf("duration metric already registered as %T", c)
	}

	return m, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector, nil
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) Observe(route, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(route, outcome).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
