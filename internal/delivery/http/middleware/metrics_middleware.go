package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware counts requests and server errors per route so the
// /metrics endpoint can expose them.
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func NewMetricsMiddleware(registry prometheus.Registerer) *MetricsMiddleware {
	m := &MetricsMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_requests_total",
			Help: "Total number of HTTP requests handled, by method and path.",
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_request_errors_total",
			Help: "Total number of HTTP responses with a 5xx status, by method and path.",
		}, []string{"method", "path"}),
	}
	registry.MustRegister(m.requests, m.errors)
	return m
}

// statusRecorder captures the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		m.requests.WithLabelValues(r.Method, r.URL.Path).Inc()
		if recorder.status >= http.StatusInternalServerError {
			m.errors.WithLabelValues(r.Method, r.URL.Path).Inc()
		}
	})
}
