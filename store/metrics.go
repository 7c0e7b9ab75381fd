package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "category_cache"

type metrics struct {
	requests      prometheus.Counter
	fetches       prometheus.Counter
	fetchFailures prometheus.Counter
	staleServed   prometheus.Counter
	emptyServed   prometheus.Counter
	skipped       prometheus.Counter
	invalidations prometheus.Counter
	size          prometheus.Gauge
	fetchDuration prometheus.Histogram
}

// newMetrics registers the store metrics on reg. A nil reg yields working but
// unregistered collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Category list requests served by the store.",
		}),
		fetches: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetches_total",
			Help:      "Fetches issued against the category source.",
		}),
		fetchFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_failures_total",
			Help:      "Fetches against the category source that failed.",
		}),
		staleServed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_served_total",
			Help:      "Requests answered with the last known good list after a failed fetch.",
		}),
		emptyServed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "empty_served_total",
			Help:      "Requests answered with an empty list after a failed fetch.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_records_total",
			Help:      "Fetched records dropped because they had no id.",
		}),
		invalidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invalidations_total",
			Help:      "Explicit cache invalidations.",
		}),
		size: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "records",
			Help:      "Records in the last known good list.",
		}),
		fetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of fetches against the category source.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
