package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	pageViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "page_views_total",
			Help: "Public profile pages served",
		},
	)

	linkClicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "link_clicks_total",
			Help: "Outbound link clicks redirected",
		},
	)

	subscriptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_total",
			Help: "Email subscriptions collected on public pages",
		},
	)

	planUpgradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_upgrades_total",
			Help: "Completed Pro upgrades by payment provider",
		},
		[]string{"provider"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordPageView counts one public page render
func RecordPageView() {
	pageViewsTotal.Inc()
}

// RecordLinkClick counts one click redirect
func RecordLinkClick() {
	linkClicksTotal.Inc()
}

// RecordSubscription counts one collected email
func RecordSubscription() {
	subscriptionsTotal.Inc()
}

// RecordPlanUpgrade counts one completed upgrade for a provider
func RecordPlanUpgrade(provider string) {
	planUpgradesTotal.WithLabelValues(provider).Inc()
}
