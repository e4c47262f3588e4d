package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	askQueriesTotal     *prometheus.CounterVec
	jobRunsTotal        *prometheus.CounterVec
	tenantOpsTotal      *prometheus.CounterVec
)

// Init builds a fresh registry with every collector named under prefix.
func Init(prefix string) {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	askQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_ask_queries_total",
			Help: "Ask Auvora questions by scope and matched intent",
		},
		[]string{"scope", "intent"},
	)
	jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_jobs_runs_total",
			Help: "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)
	tenantOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_operations_total",
			Help: "Tenant lifecycle operations",
		},
		[]string{"operation"},
	)

	registry.MustRegister(httpRequestsTotal, httpRequestDuration, askQueriesTotal, jobRunsTotal, tenantOpsTotal)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	if registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if httpRequestsTotal == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func RecordAsk(scope, intent string) {
	if askQueriesTotal != nil {
		askQueriesTotal.WithLabelValues(scope, intent).Inc()
	}
}

func RecordJob(job string, err error) {
	if jobRunsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobRunsTotal.WithLabelValues(job, result).Inc()
}

func RecordTenantOperation(op string) {
	if tenantOpsTotal != nil {
		tenantOpsTotal.WithLabelValues(op).Inc()
	}
}
