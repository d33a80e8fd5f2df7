package hybridsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hybridsearch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hybridsearch",
			Subsystem: "sdk",
			Name:      "results_returned",
			Help:      "Hits returned per successful search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"index"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("hybridsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("hybridsearch: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
// It is also the Sink the connector reports spans to.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observe records a client-level operation that has no connector span.
func (o *observer) observe(op string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	o.RecordSpan(context.Background(), Span{
		Operation: op,
		Outcome:   outcome,
		Duration:  time.Since(start),
	})
}

// RecordSpan implements Sink.
func (o *observer) RecordSpan(_ context.Context, span Span) {
	if o == nil {
		return
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(span.Operation, string(span.Outcome)).Inc()
		if span.Outcome != OutcomeSuperseded {
			o.metrics.duration.WithLabelValues(span.Operation).Observe(span.Duration.Seconds())
		}
		if span.Outcome == OutcomeOK && span.Index != "" {
			o.metrics.results.WithLabelValues(span.Index).Observe(float64(span.Results))
		}
	}

	if o.logger != nil {
		o.logger.Debug("operation completed",
			"op", span.Operation,
			"index", span.Index,
			"query", span.Query,
			"mode", span.Mode,
			"results", span.Results,
			"outcome", string(span.Outcome),
			"duration", span.Duration,
		)
	}
}

// RecordError implements Sink.
func (o *observer) RecordError(_ context.Context, err error, attrs map[string]string) {
	if o == nil || o.logger == nil {
		return
	}
	args := make([]any, 0, 2+2*len(attrs))
	args = append(args, "error", err)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	o.logger.Warn("operation failed", args...)
}
