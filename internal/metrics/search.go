package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search operations",
		},
		[]string{"operation", "index", "outcome"}, // outcome: ok / error / canceled
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Name:      "search_request_duration_seconds",
			Help:      "Search operation duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "index"},
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Name:      "search_results_returned",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"index"},
	)

	SearchErrorsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "search_errors_reported_total",
			Help:      "Errors handed to the error sink",
		},
		[]string{"operation"},
	)

	SearchSuperseded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "search_superseded_total",
			Help:      "Operations dropped because a newer one replaced them",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(SearchErrorsReported)
	prometheus.MustRegister(SearchSuperseded)
	searchMetricsRegistered = true
}
