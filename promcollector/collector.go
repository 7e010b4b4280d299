// Package promcollector exports table metrics to Prometheus.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	mc, err := promcollector.New(reg, promcollector.WithNamespace("library"))
//	...
//	books := indextable.New[BookID, BookCategory, Book](indextable.WithMetricsCollector(mc))
package promcollector

import (
	"time"

	"github.com/hupe1980/indextable"
	"github.com/prometheus/client_golang/prometheus"
)

var _ indextable.MetricsCollector = (*Collector)(nil)

type options struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace (default "indextable").
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels attaches constant labels, e.g. a table name, to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// Collector implements indextable.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	ops         *prometheus.CounterVec
	bulkRecords prometheus.Counter
	findResults prometheus.Histogram
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	opts := options{
		namespace: "indextable",
		buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10), // 100ns .. ~26ms
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of table operations",
			ConstLabels: opts.constLabels,
			Buckets:     opts.buckets,
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.namespace,
			Name:        "operations_total",
			Help:        "Table operations by outcome",
			ConstLabels: opts.constLabels,
		}, []string{"op", "status"}),
		bulkRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.namespace,
			Name:        "bulk_inserted_records_total",
			Help:        "Records inserted through bulk inserts",
			ConstLabels: opts.constLabels,
		}),
		findResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.namespace,
			Name:        "find_results",
			Help:        "Number of records returned per lookup",
			ConstLabels: opts.constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.ops, c.bulkRecords, c.findResults} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordInsert implements indextable.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "collision"
	}
	c.opLatency.WithLabelValues("insert").Observe(d.Seconds())
	c.ops.WithLabelValues("insert", status).Inc()
}

// RecordBulkInsert implements indextable.MetricsCollector.
func (c *Collector) RecordBulkInsert(count, failed int, d time.Duration) {
	status := "success"
	if failed > 0 {
		status = "collision"
	}
	c.opLatency.WithLabelValues("bulk_insert").Observe(d.Seconds())
	c.ops.WithLabelValues("bulk_insert", status).Inc()
	c.bulkRecords.Add(float64(count))
}

// RecordFind implements indextable.MetricsCollector.
func (c *Collector) RecordFind(many bool, _, results int, d time.Duration) {
	op := "find"
	if many {
		op = "find_many"
	}
	c.opLatency.WithLabelValues(op).Observe(d.Seconds())
	c.ops.WithLabelValues(op, "success").Inc()
	c.findResults.Observe(float64(results))
}

// RecordRemove implements indextable.MetricsCollector.
func (c *Collector) RecordRemove(found bool, d time.Duration) {
	status := "success"
	if !found {
		status = "miss"
	}
	c.opLatency.WithLabelValues("remove").Observe(d.Seconds())
	c.ops.WithLabelValues("remove", status).Inc()
}
