// Package observe defines where spans and error reports go.
package observe

import (
	"context"
	"time"
)

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeError      Outcome = "error"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeSuperseded Outcome = "superseded"
)

// Span describes one finished operation.
type Span struct {
	Operation string
	Index     string
	Query     string
	Mode      string
	Results   int
	Outcome   Outcome
	Duration  time.Duration
}

// Sink receives spans and error reports. Implementations must be safe for concurrent use.
type Sink interface {
	RecordSpan(ctx context.Context, span Span)
	RecordError(ctx context.Context, err error, attrs map[string]string)
}

// Nop discards everything. Used when monitoring is disabled.
type Nop struct{}

func (Nop) RecordSpan(context.Context, Span)                     {}
func (Nop) RecordError(context.Context, error, map[string]string) {}

// Multi fans out to every sink.
type Multi []Sink

func (m Multi) RecordSpan(ctx context.Context, span Span) {
	for _, s := range m {
		Safe(s).RecordSpan(ctx, span)
	}
}

func (m Multi) RecordError(ctx context.Context, err error, attrs map[string]string) {
	for _, s := range m {
		Safe(s).RecordError(ctx, err, attrs)
	}
}

// Safe wraps a sink so that panics inside it are swallowed.
// A nil sink becomes Nop.
func Safe(s Sink) Sink {
	switch v := s.(type) {
	case nil:
		return Nop{}
	case safeSink, Nop:
		return v
	}
	return safeSink{inner: s}
}

type safeSink struct {
	inner Sink
}

func (s safeSink) RecordSpan(ctx context.Context, span Span) {
	defer func() { _ = recover() }()
	s.inner.RecordSpan(ctx, span)
}

func (s safeSink) RecordError(ctx context.Context, err error, attrs map[string]string) {
	defer func() { _ = recover() }()
	s.inner.RecordError(ctx, err, attrs)
}
