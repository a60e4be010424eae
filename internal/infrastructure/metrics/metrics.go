package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookstore_reporting"

// Metrics gom các collector Prometheus của service.
// Mọi method đều an toàn khi receiver là nil (metrics tắt).
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	reportDuration  *prometheus.HistogramVec
	reportErrors    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	ordersProcessed *prometheus.CounterVec
	dbPoolConns     *prometheus.GaugeVec
}

// NewMetrics creates a dedicated registry and registers all collectors on it.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Counts HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency per method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Report build latency by report and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report", "status"})

	reportErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_errors_total",
		Help:      "Counts failed report builds.",
	}, []string{"report"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_lookups_total",
		Help:      "Report cache lookups by result (hit, miss, error).",
	}, []string{"report", "result"})

	ordersProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_processed_total",
		Help:      "Ledger orders folded into reports.",
	}, []string{"report"})

	dbPoolConns := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_connections",
		Help:      "PostgreSQL pool connections by state (acquired, idle, total).",
	}, []string{"state"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		reportDuration,
		reportErrors,
		cacheLookups,
		ordersProcessed,
		dbPoolConns,
	)

	return &Metrics{
		registry:        registry,
		httpRequests:    httpRequests,
		httpDuration:    httpDuration,
		reportDuration:  reportDuration,
		reportErrors:    reportErrors,
		cacheLookups:    cacheLookups,
		ordersProcessed: ordersProcessed,
		dbPoolConns:     dbPoolConns,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests use it to gather values).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveReport records a report build and its outcome.
func (m *Metrics) ObserveReport(report string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		m.reportErrors.WithLabelValues(report).Inc()
	}
	m.reportDuration.WithLabelValues(report, status).Observe(duration.Seconds())
}

// RecordCacheLookup counts a cache hit, miss or error.
func (m *Metrics) RecordCacheLookup(report, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(report, result).Inc()
}

// AddOrdersProcessed counts orders read from the ledger for a report.
func (m *Metrics) AddOrdersProcessed(report string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ordersProcessed.WithLabelValues(report).Add(float64(n))
}

// SetDBPool publishes a pool snapshot.
func (m *Metrics) SetDBPool(acquired, idle, total int32) {
	if m == nil {
		return
	}
	m.dbPoolConns.WithLabelValues("acquired").Set(float64(acquired))
	m.dbPoolConns.WithLabelValues("idle").Set(float64(idle))
	m.dbPoolConns.WithLabelValues("total").Set(float64(total))
}
