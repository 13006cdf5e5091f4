package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline stages.
const (
	StageUnderstand = "understand"
	StageEmbed      = "embed"
	StageBuild      = "build"
	StageRetrieve   = "retrieve"
)

// Search Prometheus metrics.
var (
	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of each search pipeline stage",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"},
	)

	// SearchFiltersTotal counts resolved filters by origin ("explicit" or "inferred").
	SearchFiltersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_filters_total",
			Help:      "Structural filters applied to searches",
		},
		[]string{"filter", "source"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of hits returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		},
	)

	SearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_errors_total",
			Help:      "Failed searches by upstream",
		},
		[]string{"upstream"},
	)

	IndexedProductsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "indexed_products_total",
			Help:      "Products processed by the indexer",
		},
		[]string{"status"}, // "indexed" / "failed"
	)
)

var registerSearch sync.Once

// RegisterSearchMetrics registers search and indexing metrics on the default registry. Safe to call repeatedly.
func RegisterSearchMetrics() {
	registerSearch.Do(func() {
		prometheus.MustRegister(
			SearchStageDuration,
			SearchFiltersTotal,
			SearchResults,
			SearchErrorsTotal,
			IndexedProductsTotal,
		)
	})
}
