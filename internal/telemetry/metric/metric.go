// Package metric provides Prometheus metrics for Stallgate.
//
// Each server process owns one Registry; the middleware and services
// record into it and /metrics exposes it in Prometheus format.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stallgate"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics.
	SessionsActive  prometheus.Gauge
	LoginsTotal     *prometheus.CounterVec
	SessionsExpired prometheus.Counter

	// Request metrics, labeled by frontend (seller/buyer), route, and
	// response code.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter

	// Marketplace metrics.
	ItemsRegistered   prometheus.Counter
	PurchasesTotal    prometheus.Counter
	PurchasesRejected *prometheus.CounterVec
	FeedbackTotal     *prometheus.CounterVec
}

// NewRegistry creates a registry with all application metrics
// registered, plus the standard Go and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live sessions.",
		}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Sessions removed after idling past the window.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by frontend, route, and status code.",
		}, []string{"frontend", "route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by frontend and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"frontend", "route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		ItemsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_registered_total",
			Help:      "Items listed for sale.",
		}),
		PurchasesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Completed purchases.",
		}),
		PurchasesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_rejected_total",
			Help:      "Failed purchases by reason.",
		}, []string{"reason"}),
		FeedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback votes by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		r.SessionsActive,
		r.LoginsTotal,
		r.SessionsExpired,
		r.RequestsTotal,
		r.RequestDuration,
		r.RateLimited,
		r.ItemsRegistered,
		r.PurchasesTotal,
		r.PurchasesRejected,
		r.FeedbackTotal,
	)
	return r
}

// Handler returns the HTTP handler serving this registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
