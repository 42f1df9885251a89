package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector holds all Prometheus metrics for the token function
type MetricsCollector struct {
	// HTTP request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Token exchange metrics
	exchangesTotal   *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
}

// NewMetricsCollector creates a new metrics collector registered
// against reg. Pass prometheus.DefaultRegisterer in production; tests
// use a fresh registry so collectors never collide.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)

	mc := &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "token_function_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "token_function_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		exchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "token_function_exchanges_total",
				Help: "Total number of upstream token exchanges",
			},
			[]string{"status"},
		),

		upstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "token_function_upstream_duration_seconds",
				Help:    "Upstream token endpoint round-trip duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	return mc
}

// RecordHTTPRequest records an HTTP request
func (mc *MetricsCollector) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	mc.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	mc.httpRequestDuration.With(prometheus.Labels{
		"method":   method,
		"endpoint": endpoint,
	}).Observe(duration.Seconds())
}

// RecordExchange records the outcome of one upstream token exchange
func (mc *MetricsCollector) RecordExchange(status string, upstreamDuration time.Duration) {
	mc.exchangesTotal.WithLabelValues(status).Inc()
	mc.upstreamDuration.Observe(upstreamDuration.Seconds())
}

// Middleware creates an HTTP middleware for recording request metrics
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		mc.RecordHTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
