package observe

import (
	"context"

	"github.com/kailas-cloud/hybridsearch/internal/metrics"
)

// Metrics records spans into the process-wide Prometheus vectors.
// metrics.RegisterSearchMetrics must be called once before scraping.
type Metrics struct{}

// RecordSpan implements Sink.
func (Metrics) RecordSpan(_ context.Context, span Span) {
	if span.Outcome == OutcomeSuperseded {
		metrics.SearchSuperseded.Inc()
		return
	}
	metrics.SearchRequestsTotal.WithLabelValues(span.Operation, span.Index, string(span.Outcome)).Inc()
	metrics.SearchRequestDuration.WithLabelValues(span.Operation, span.Index).Observe(span.Duration.Seconds())
	if span.Outcome == OutcomeOK {
		metrics.SearchResultsReturned.WithLabelValues(span.Index).Observe(float64(span.Results))
	}
}

// RecordError implements Sink.
func (Metrics) RecordError(_ context.Context, _ error, attrs map[string]string) {
	metrics.SearchErrorsReported.WithLabelValues(attrs["operation"]).Inc()
}
