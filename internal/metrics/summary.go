package metrics

import "github.com/prometheus/client_golang/prometheus"

// Summary (LLM) Prometheus metrics.
var (
	SummaryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "summary_requests_total",
			Help:      "Total number of summary completions",
		},
		[]string{"provider", "status"},
	)

	SummaryRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Name:      "summary_request_duration_seconds",
			Help:      "Summary completion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	SummaryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "summary_cache_total",
			Help:      "Summary cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Name:      "analytics_events_total",
			Help:      "Behavioral analytics events by type and status",
		},
		[]string{"event", "status"},
	)
)

var summaryMetricsRegistered bool

// RegisterSummaryMetrics registers Prometheus summary and analytics metrics. Must be called once from main.
func RegisterSummaryMetrics() {
	if summaryMetricsRegistered {
		return
	}
	prometheus.MustRegister(SummaryRequestsTotal)
	prometheus.MustRegister(SummaryRequestDuration)
	prometheus.MustRegister(SummaryCacheTotal)
	prometheus.MustRegister(AnalyticsEventsTotal)
	summaryMetricsRegistered = true
}
