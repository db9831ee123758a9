package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsScraped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_scraped_total",
			Help: "Total number of leads appended by discovery ingestion",
		},
	)

	reminderRollovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_rollovers_total",
			Help: "Total number of overdue follow-up dates advanced to today",
		},
	)

	scrapeUsageUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrape_usage_usd",
			Help: "Accumulated Places API spend in USD for this process",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordScrapedLeads(n int) {
	leadsScraped.Add(float64(n))
}

func RecordReminderRollover(n int) {
	reminderRollovers.Add(float64(n))
}

func SetScrapeUsage(usd float64) {
	scrapeUsageUSD.Set(usd)
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
