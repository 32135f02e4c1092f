// Package telemetry holds the prometheus collectors of the service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	historyEntries *prometheus.CounterVec
	gatherer       prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg yields a Metrics that records nothing.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expiry_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "expiry_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	history := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expiry_history_entries_total",
		Help: "History entries recorded by entity type and action.",
	}, []string{"entity_type", "action"})
	reg.MustRegister(requests, duration, history)

	return &Metrics{
		requests:       requests,
		duration:       duration,
		historyEntries: history,
		gatherer:       reg,
	}
}

// IncHistoryEntry counts one recorded history entry.
func (m *Metrics) IncHistoryEntry(entityType, action string) {
	if m == nil || m.historyEntries == nil {
		return
	}
	m.historyEntries.WithLabelValues(entityType, action).Inc()
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil || m.requests == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
