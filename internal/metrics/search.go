package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline metrics.
var (
	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "platefinder",
			Name:      "search_results",
			Help:      "Number of restaurants matched before pagination",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"endpoint"},
	)

	SearchTags = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "platefinder",
			Name:      "search_tags",
			Help:      "Number of labels extracted per image search",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchTags)
	searchMetricsRegistered = true
}

// Search endpoint label values.
const (
	EndpointCuisine = "cuisine"
	EndpointImage   = "image"
	EndpointList    = "list"
)
