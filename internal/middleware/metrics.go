package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/analysis"
)

// Metrics stores application metrics in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestsInProgress prometheus.Gauge
	requestDuration    *prometheus.HistogramVec

	analysesTotal         *prometheus.CounterVec
	attemptsTotal         *prometheus.CounterVec
	verificationFallbacks prometheus.Counter
}

// NewMetrics registers all collectors, including Go runtime and process stats.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "legal_http_requests_in_progress",
			Help: "HTTP requests currently being served.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legal_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"method", "route"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_analyses_total",
			Help: "Stage analyses by final status.",
		}, []string{"status"}),
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_provider_attempts_total",
			Help: "Provider generation attempts by outcome.",
		}, []string{"outcome"}),
		verificationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "legal_verification_fallbacks_total",
			Help: "Verification passes that failed and kept the draft analysis.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestsInProgress,
		m.requestDuration,
		m.analysesTotal,
		m.attemptsTotal,
		m.verificationFallbacks,
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveAttempt counts one provider attempt.
func (m *Metrics) ObserveAttempt(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.attemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveVerificationFallback counts a verification pass that kept the draft.
func (m *Metrics) ObserveVerificationFallback() {
	m.verificationFallbacks.Inc()
}

// ObserveAnalysis counts a finished stage analysis.
func (m *Metrics) ObserveAnalysis(status domain.Status) {
	m.analysesTotal.WithLabelValues(string(status)).Inc()
}

// Middleware tracks request metrics. Routes are labelled by their chi pattern
// to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInProgress.Inc()
		defer m.requestsInProgress.Dec()

		// Wrap response writer to capture status
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := routePattern(r)
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
