// Package metrics collects and exposes Prometheus metrics for upstream
// traffic and token lifecycle events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records upstream requests and token refreshes. A nil *Metrics is
// valid and records nothing, so callers never need to guard.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	tokenRefreshes   *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
}

// New creates Metrics and registers its collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stravamcp_upstream_requests_total",
			Help: "Upstream API requests by endpoint and HTTP status code.",
		}, []string{"endpoint", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stravamcp_upstream_latency_seconds",
			Help:    "Upstream API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stravamcp_token_refreshes_total",
			Help: "Token refresh attempts by outcome.",
		}, []string{"outcome"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stravamcp_sessions_active",
			Help: "Number of sessions currently stored.",
		}),
	}

	reg.MustRegister(
		m.upstreamRequests,
		m.upstreamLatency,
		m.tokenRefreshes,
		m.sessionsActive,
	)

	return m
}

// ObserveUpstreamRequest records one upstream call. A status code of 0 means
// the request never got a response.
func (m *Metrics) ObserveUpstreamRequest(endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) ObserveTokenRefresh(ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

// Handler returns the HTTP handler for Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
