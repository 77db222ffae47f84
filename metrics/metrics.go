// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mintsphere",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mintsphere",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// MonitorActive is the number of orders currently being polled.
	MonitorActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mintsphere",
			Subsystem: "tx_monitor",
			Name:      "active_registrations",
			Help:      "Orders with a running transaction poll.",
		},
	)

	// MonitorOutcomes counts terminal monitor results by outcome.
	MonitorOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mintsphere",
			Subsystem: "tx_monitor",
			Name:      "outcomes_total",
			Help:      "Terminal transaction monitor outcomes.",
		},
		[]string{"outcome"},
	)

	// MonitorPollErrors counts ticks abandoned because the node could not answer.
	MonitorPollErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mintsphere",
			Subsystem: "tx_monitor",
			Name:      "poll_errors_total",
			Help:      "Transaction polls that failed with a provider error.",
		},
	)

	// OrdersCreated counts orders created from carts, split by whether a hash was attached.
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mintsphere",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created from carts.",
		},
		[]string{"with_tx"},
	)

	// CacheRequests counts NFT listing cache lookups by result.
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mintsphere",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Response cache lookups.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		MonitorActive,
		MonitorOutcomes,
		MonitorPollErrors,
		OrdersCreated,
		CacheRequests,
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request counts and latency keyed by the matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
