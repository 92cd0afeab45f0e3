// Package metrics provides the centralized Prometheus metrics registry for
// the extraction and valuation pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PageFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "page_fetches_total",
		Help:      "Total number of race-card pages fetched successfully",
	})
	PageFetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "page_fetch_failures_total",
		Help:      "Total number of race-card fetch or parse failures",
	})
	OddsFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "odds_fetches_total",
		Help:      "Total number of successful win-odds fetches",
	})
	OddsFetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "odds_fetch_failures_total",
		Help:      "Total number of win-odds fetch failures",
	})
	ExtractionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "extractions_total",
		Help:      "Total number of completed race extractions",
	})
	RowsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "rows_dropped_total",
		Help:      "Total number of roster rows dropped during extraction",
	})
	EvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_hunter",
		Name:      "evaluations_total",
		Help:      "Total number of completed field evaluations",
	})
)

// Gauge metrics
var (
	LastFieldSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_hunter",
		Name:      "last_field_size",
		Help:      "Number of entrants extracted in the most recent run",
	})
	LastExtractionTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_hunter",
		Name:      "last_extraction_timestamp_seconds",
		Help:      "Unix time of the most recent successful extraction",
	})
)

// Histogram metrics
var (
	ExtractionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_hunter",
		Name:      "extraction_duration_seconds",
		Help:      "Duration of fetch-parse-merge runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PageFetchesTotal)
		registry.MustRegister(PageFetchFailuresTotal)
		registry.MustRegister(OddsFetchesTotal)
		registry.MustRegister(OddsFetchFailuresTotal)
		registry.MustRegister(ExtractionsTotal)
		registry.MustRegister(RowsDroppedTotal)
		registry.MustRegister(EvaluationsTotal)

		registry.MustRegister(LastFieldSize)
		registry.MustRegister(LastExtractionTimestamp)

		registry.MustRegister(ExtractionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
