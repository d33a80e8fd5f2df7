package observe

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/hybridsearch/internal/metrics"
)

type recordingSink struct {
	mu     sync.Mutex
	spans  []Span
	errors []error
}

func (r *recordingSink) RecordSpan(_ context.Context, s Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, s)
}

func (r *recordingSink) RecordError(_ context.Context, err error, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

type panickingSink struct{}

func (panickingSink) RecordSpan(context.Context, Span)                     { panic("span sink down") }
func (panickingSink) RecordError(context.Context, error, map[string]string) { panic("error sink down") }

func TestSafe_SwallowsPanics(t *testing.T) {
	s := Safe(panickingSink{})
	s.RecordSpan(context.Background(), Span{Operation: "execute"})
	s.RecordError(context.Background(), errors.New("boom"), nil)
}

func TestSafe_Nil(t *testing.T) {
	if _, ok := Safe(nil).(Nop); !ok {
		t.Fatal("expected Nop for nil sink")
	}
}

func TestMulti_ContinuesAfterPanic(t *testing.T) {
	rec := &recordingSink{}
	m := Multi{panickingSink{}, rec}

	m.RecordSpan(context.Background(), Span{Operation: "execute"})
	m.RecordError(context.Background(), errors.New("boom"), nil)

	if len(rec.spans) != 1 || len(rec.errors) != 1 {
		t.Fatalf("expected 1 span and 1 error, got %d/%d", len(rec.spans), len(rec.errors))
	}
}

func TestLogger_RecordError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := NewLogger(zap.New(core))

	sink.RecordError(context.Background(), errors.New("boom"), map[string]string{"query": "nursing"})
	sink.RecordSpan(context.Background(), Span{Operation: "execute", Outcome: OutcomeOK})

	if logs.Len() != 2 {
		t.Fatalf("expected 2 log entries, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["query"] != "nursing" {
		t.Errorf("expected query attr, got %v", entry.ContextMap())
	}
}

func TestMetrics_RecordSpan(t *testing.T) {
	var m Metrics
	m.RecordSpan(context.Background(), Span{Operation: "execute", Index: "idx-test", Outcome: OutcomeOK, Results: 3})

	got := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("execute", "idx-test", "ok"))
	if got < 1 {
		t.Errorf("expected counter >= 1, got %f", got)
	}

	before := testutil.ToFloat64(metrics.SearchSuperseded)
	m.RecordSpan(context.Background(), Span{Outcome: OutcomeSuperseded})
	if after := testutil.ToFloat64(metrics.SearchSuperseded); after != before+1 {
		t.Errorf("expected superseded counter to grow by 1, got %f -> %f", before, after)
	}
}
