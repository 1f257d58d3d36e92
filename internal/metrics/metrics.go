// Package metrics holds the prometheus collectors of the client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vpnclient"

// Collectors is safe to use through a nil pointer; every method is then a no-op.
type Collectors struct {
	Registry *prometheus.Registry

	recentsUpserts    *prometheus.CounterVec
	toggleRefreshes   *prometheus.CounterVec
	minimalStateReady prometheus.Gauge
	httpRequests      *prometheus.CounterVec
}

func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		recentsUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recents_upserts_total",
			Help:      "Recent connection upserts by result.",
		}, []string{"result"}),
		toggleRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feature_toggle_refreshes_total",
			Help:      "Feature toggle refreshes by source and result.",
		}, []string{"source", "result"}),
		minimalStateReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "minimal_state_ready",
			Help:      "1 once the main screen has enough state to be shown.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debug_api_requests_total",
			Help:      "Debug API requests by method and status code.",
		}, []string{"method", "code"}),
	}
	c.Registry.MustRegister(
		c.recentsUpserts,
		c.toggleRefreshes,
		c.minimalStateReady,
		c.httpRequests,
		collectors.NewGoCollector(),
	)
	return c
}

// Handler serves the registry in the prometheus text format.
func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

func (c *Collectors) RecentUpserted(err error) {
	if c == nil {
		return
	}
	c.recentsUpserts.WithLabelValues(result(err)).Inc()
}

// TogglesRefreshed records a refresh served from "cache" or "api".
func (c *Collectors) TogglesRefreshed(source string, err error) {
	if c == nil {
		return
	}
	c.toggleRefreshes.WithLabelValues(source, result(err)).Inc()
}

func (c *Collectors) SetMinimalStateReady(ready bool) {
	if c == nil {
		return
	}
	if ready {
		c.minimalStateReady.Set(1)
	} else {
		c.minimalStateReady.Set(0)
	}
}

func (c *Collectors) Request(method, code string) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, code).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
