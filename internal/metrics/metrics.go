// Package metrics exposes ledger and HTTP counters in Prometheus format. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	InboundTotal       *prometheus.CounterVec
	InboundUnits       *prometheus.CounterVec
	DistributionsTotal *prometheus.CounterVec
	DistributedUnits   *prometheus.CounterVec
	InsufficientStock  *prometheus.CounterVec
	StockLinesCreated  prometheus.Counter
	StockLinesMerged   prometheus.Counter
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.InboundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_events_total",
			Help:      "Inbound receipts recorded",
		},
		[]string{"category"},
	)

	m.InboundUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_units_total",
			Help:      "Units added to stock by inbound receipts",
		},
		[]string{"category"},
	)

	m.DistributionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributions_total",
			Help:      "Successful distributions",
		},
		[]string{"target_type"},
	)

	m.DistributedUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributed_units_total",
			Help:      "Units removed from stock by distributions",
		},
		[]string{"target_type"},
	)

	m.InsufficientStock = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_stock_total",
			Help:      "Distributions rejected for lack of stock",
		},
		[]string{"category"},
	)

	m.StockLinesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_lines_created_total",
		Help:      "Inbound receipts that created a new stock line",
	})

	m.StockLinesMerged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_lines_merged_total",
		Help:      "Inbound receipts merged into an existing stock line",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.InboundTotal,
		m.InboundUnits,
		m.DistributionsTotal,
		m.DistributedUnits,
		m.InsufficientStock,
		m.StockLinesCreated,
		m.StockLinesMerged,
	)

	return m
}

// Handler serves the registry. A nil receiver serves 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHTTPRequest labels by route pattern, not raw path.
func (m *Metrics) RecordHTTPRequest(method, pattern string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if pattern == "" {
		pattern = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pattern).Observe(duration.Seconds())
}

func (m *Metrics) RecordInbound(category string, quantity int, merged bool) {
	if m == nil {
		return
	}
	m.InboundTotal.WithLabelValues(category).Inc()
	m.InboundUnits.WithLabelValues(category).Add(float64(quantity))
	if merged {
		m.StockLinesMerged.Inc()
	} else {
		m.StockLinesCreated.Inc()
	}
}

func (m *Metrics) RecordDistribution(targetType string, quantity int) {
	if m == nil {
		return
	}
	m.DistributionsTotal.WithLabelValues(targetType).Inc()
	m.DistributedUnits.WithLabelValues(targetType).Add(float64(quantity))
}

func (m *Metrics) RecordInsufficientStock(category string) {
	if m == nil {
		return
	}
	m.InsufficientStock.WithLabelValues(category).Inc()
}
