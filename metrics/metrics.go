package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harvester_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BillsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_bills_saved_total",
			Help: "Bills saved, by whether they were created or edited",
		},
		[]string{"kind"},
	)

	CloudSync = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_cloud_sync_total",
			Help: "Cloud backup operations by outcome",
		},
		[]string{"op", "result"},
	)

	OverdueNotifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_overdue_notifications_total",
			Help: "Overdue payment reminders raised by the background scan",
		},
	)
)

func shouldSkip(path string) bool {
	return strings.HasPrefix(path, "/metrics") || strings.HasPrefix(path, "/health")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
