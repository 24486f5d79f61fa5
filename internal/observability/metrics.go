package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safarway",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "safarway",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safarway",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Login and registration attempts.",
		},
		[]string{"action", "success"},
	)
	newsletterSignups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safarway",
			Subsystem: "newsletter",
			Name:      "signups_total",
			Help:      "Newsletter form submissions.",
		},
		[]string{"result"},
	)
	geocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safarway",
			Subsystem: "geocode",
			Name:      "lookups_total",
			Help:      "Geocode lookups by source.",
		},
		[]string{"source"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, authAttempts, newsletterSignups, geocodeLookups)
	})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

// RecordAuth counts a login or register attempt.
func RecordAuth(action string, success bool) {
	RegisterMetrics()
	authAttempts.WithLabelValues(action, strconv.FormatBool(success)).Inc()
}

// RecordNewsletter counts a signup by result: ok, invalid or error.
func RecordNewsletter(result string) {
	RegisterMetrics()
	newsletterSignups.WithLabelValues(result).Inc()
}

// RecordGeocode counts a lookup by source: cache, api or fallback.
func RecordGeocode(source string) {
	RegisterMetrics()
	geocodeLookups.WithLabelValues(source).Inc()
}
