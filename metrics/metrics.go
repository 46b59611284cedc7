package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regbot",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "regbot",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regbot",
		Name:      "intents_total",
		Help:      "Dispatched intents by intent name and outcome.",
	}, []string{"intent", "outcome"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regbot",
		Name:      "registrations_total",
		Help:      "Registration submissions by outcome (stored, invalid, store_failed).",
	}, []string{"outcome"})

	EmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regbot",
		Name:      "emails_total",
		Help:      "Confirmation emails by outcome.",
	}, []string{"outcome"})

	InferenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regbot",
		Name:      "inference_total",
		Help:      "Fallback model calls by outcome.",
	}, []string{"outcome"})
)

// Outcome returns "ok" for a nil error and "error" otherwise.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler returns an http.Handler that serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware wraps an http.Handler to record request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()

		path := normalizePath(r.URL.Path)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps the known routes and buckets everything else.
func normalizePath(p string) string {
	switch p {
	case "/", "/webhook", "/metrics":
		return p
	}
	return "other"
}
