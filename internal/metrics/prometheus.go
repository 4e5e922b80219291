package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DocumentsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_documents_ingested_total",
			Help: "Total documents successfully ingested",
		},
	)

	ExtractionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_extraction_failures_total",
			Help: "Total uploads rejected by content extraction",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docvault_ingest_duration_seconds",
			Help:    "End-to-end ingestion duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvault_search_total",
			Help: "Total search queries processed",
		},
		[]string{"status"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docvault_search_duration_seconds",
			Help:    "Search query duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_search_cache_hits_total",
			Help: "Total search cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docvault_search_cache_misses_total",
			Help: "Total search cache misses",
		},
	)
)

func Init() {
	prometheus.MustRegister(DocumentsIngested)
	prometheus.MustRegister(ExtractionFailures)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
