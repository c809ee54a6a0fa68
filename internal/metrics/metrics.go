// Package metrics exposes Prometheus collectors for the HTTP surface and
// the derivation layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	transactionsCreated prometheus.Counter
	transactionsDeleted prometheus.Counter
	reportsComputed     prometheus.Counter
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by path, method and status",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by path",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		transactionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_created_total",
			Help:      "Total transactions recorded",
		}),
		transactionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_deleted_total",
			Help:      "Total transactions deleted",
		}),
		reportsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_computed_total",
			Help:      "Total filtered reports computed (cache misses only)",
		}),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Derived-view cache hits by view",
			},
			[]string{"view"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Derived-view cache misses by view",
			},
			[]string{"view"},
		),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.transactionsCreated,
		c.transactionsDeleted,
		c.reportsComputed,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequest(path, method, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(path, method, status).Inc()
	c.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (c *Collector) TransactionCreated() { c.transactionsCreated.Inc() }
func (c *Collector) TransactionDeleted() { c.transactionsDeleted.Inc() }
func (c *Collector) ReportComputed()     { c.reportsComputed.Inc() }

func (c *Collector) CacheHit(view string)  { c.cacheHits.WithLabelValues(view).Inc() }
func (c *Collector) CacheMiss(view string) { c.cacheMisses.WithLabelValues(view).Inc() }
