package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics owns the service's collectors on a private registry.
// It implements ports.MetricsRecorder and serves the /metrics exposition.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UpstreamCalls   *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
	EmailsSent      *prometheus.CounterVec
}

// NewPrometheusMetrics registers all collectors, including Go runtime and process collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &PrometheusMetrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weathermail_http_requests_total",
				Help: "The total number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weathermail_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weathermail_upstream_calls_total",
				Help: "The total number of calls made to upstream providers",
			},
			[]string{"provider", "operation", "outcome"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weathermail_upstream_call_duration_seconds",
				Help:    "Upstream call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "operation"},
		),
		EmailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weathermail_emails_total",
				Help: "The total number of email delivery attempts",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordUpstreamCall counts one provider call and observes its latency
func (m *PrometheusMetrics) RecordUpstreamCall(provider, operation string, success bool, duration time.Duration) {
	m.UpstreamCalls.WithLabelValues(provider, operation, outcome(success)).Inc()
	m.UpstreamLatency.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordEmail counts one delivery attempt
func (m *PrometheusMetrics) RecordEmail(success bool) {
	m.EmailsSent.WithLabelValues(outcome(success)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request count and latency per matched route
func (m *PrometheusMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
