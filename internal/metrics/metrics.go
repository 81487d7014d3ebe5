// Package metrics provides a Prometheus-backed collector implementing the
// per-service MetricsCollector interfaces.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records analysis and ledger metrics into a private registry.
type Collector struct {
	registry *prometheus.Registry

	analysesTotal     *prometheus.CounterVec
	riskScores        prometheus.Histogram
	transactionsTotal *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	cacheHitsTotal    *prometheus.CounterVec
	cacheMissesTotal  *prometheus.CounterVec
}

// NewCollector creates and registers all collectors.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "analyses_total",
			Help:      "Total risk analyses by resulting risk level.",
		},
		[]string{"level"},
	)
	riskScores := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
	transactionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Total recorded ledger transactions by type.",
		},
		[]string{"type"},
	)
	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Core operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total operation errors by kind.",
		},
		[]string{"operation", "type"},
	)
	cacheHitsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by key class.",
		},
		[]string{"key"},
	)
	cacheMissesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses by key class.",
		},
		[]string{"key"},
	)

	registry.MustRegister(
		analysesTotal,
		riskScores,
		transactionsTotal,
		operationDuration,
		errorsTotal,
		cacheHitsTotal,
		cacheMissesTotal,
	)

	return &Collector{
		registry:          registry,
		analysesTotal:     analysesTotal,
		riskScores:        riskScores,
		transactionsTotal: transactionsTotal,
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
		cacheHitsTotal:    cacheHitsTotal,
		cacheMissesTotal:  cacheMissesTotal,
	}
}

// RecordAnalysis implements analysis.MetricsCollector.
func (c *Collector) RecordAnalysis(level string, score float64) {
	c.analysesTotal.WithLabelValues(level).Inc()
	c.riskScores.Observe(score)
}

// RecordTransaction implements ledger.MetricsCollector.
func (c *Collector) RecordTransaction(transactionType string) {
	c.transactionsTotal.WithLabelValues(transactionType).Inc()
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordError(operation, errType string) {
	c.errorsTotal.WithLabelValues(operation, errType).Inc()
}

func (c *Collector) RecordCacheHit(key string) {
	c.cacheHitsTotal.WithLabelValues(key).Inc()
}

func (c *Collector) RecordCacheMiss(key string) {
	c.cacheMissesTotal.WithLabelValues(key).Inc()
}

// Handler exposes the registry for a /metrics listener.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
