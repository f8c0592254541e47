package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classifier Prometheus metrics.
var (
	ClassifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platefinder",
			Name:      "classifier_requests_total",
			Help:      "Total number of image classification requests",
		},
		[]string{"model", "status"},
	)

	ClassifierRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "platefinder",
			Name:      "classifier_request_duration_seconds",
			Help:      "Image classification request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	ClassifierErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platefinder",
			Name:      "classifier_errors_total",
			Help:      "Total image classification errors",
		},
		[]string{"model", "error_type"},
	)

	ClassifierConceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "platefinder",
			Name:      "classifier_concepts_total",
			Help:      "Concepts returned by the classifier",
		},
		[]string{"model"},
	)
)

var classifierMetricsRegistered bool

// RegisterClassifierMetrics registers Prometheus classifier metrics. Must be called once from main.
func RegisterClassifierMetrics() {
	if classifierMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassifierRequestsTotal)
	prometheus.MustRegister(ClassifierRequestDuration)
	prometheus.MustRegister(ClassifierErrorsTotal)
	prometheus.MustRegister(ClassifierConceptsTotal)
	classifierMetricsRegistered = true
}
