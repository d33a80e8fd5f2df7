package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/metrics"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

// Summary defaults.
const (
	DefaultTopResults    = 5
	DefaultSnippetLength = 300
	// FallbackText is returned when the provider streams no content.
	FallbackText = "Unable to generate summary from streaming response."

	opSummarize = "summarize"
)

// Config tunes the summarizer.
type Config struct {
	Provider          string
	TopResults        int
	SnippetLength     int
	RequestsPerMinute int // 0 disables limiting
}

// Summary is a generated answer with the sources it was built from.
type Summary struct {
	Query    string   `json:"query"`
	Text     string   `json:"summary"`
	Sources  []Source `json:"sources"`
	Provider string   `json:"provider"`
}

// Service builds a grounded prompt from search results and asks a Completer for a summary.
type Service struct {
	completer Completer
	cfg       Config
	limiter   *rate.Limiter
	sink      observe.Sink
	logger    *zap.Logger
}

// New creates a summary service. sink can be nil.
func New(completer Completer, cfg Config, sink observe.Sink, logger *zap.Logger) *Service {
	if cfg.TopResults <= 0 {
		cfg.TopResults = DefaultTopResults
	}
	if cfg.SnippetLength <= 0 {
		cfg.SnippetLength = DefaultSnippetLength
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}
	return &Service{
		completer: completer,
		cfg:       cfg,
		limiter:   limiter,
		sink:      observe.Safe(sink),
		logger:    logger,
	}
}

// Summarize generates a summary of results for query.
func (s *Service) Summarize(ctx context.Context, query string, results []result.Result) (Summary, error) {
	if strings.TrimSpace(query) == "" || len(results) == 0 {
		return Summary{}, domain.ErrNothingToSummarize
	}

	if s.limiter != nil && !s.limiter.Allow() {
		metrics.SummaryRequestsTotal.WithLabelValues(s.cfg.Provider, "rate_limited").Inc()
		return Summary{}, fmt.Errorf("%w: summary provider %s", domain.ErrRateLimited, s.cfg.Provider)
	}

	sources := BuildSources(results, s.cfg.TopResults, s.cfg.SnippetLength)
	prompt := BuildPrompt(query, sources)

	start := time.Now()
	text, err := s.completer.Complete(ctx, prompt)
	duration := time.Since(start)
	metrics.SummaryRequestDuration.WithLabelValues(s.cfg.Provider).Observe(duration.Seconds())

	span := observe.Span{
		Operation: opSummarize,
		Query:     query,
		Mode:      s.cfg.Provider,
		Results:   len(sources),
		Duration:  duration,
	}

	if err != nil {
		return Summary{}, s.fail(ctx, span, err)
	}

	metrics.SummaryRequestsTotal.WithLabelValues(s.cfg.Provider, "ok").Inc()
	span.Outcome = observe.OutcomeOK
	s.sink.RecordSpan(ctx, span)

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("Summary provider returned no content",
			zap.String("provider", s.cfg.Provider),
			zap.String("query", query),
		)
		text = FallbackText
	}

	s.logger.Debug("Summary generated",
		zap.String("provider", s.cfg.Provider),
		zap.Duration("duration", duration),
		zap.Int("length", len(text)),
	)

	return Summary{Query: query, Text: text, Sources: sources, Provider: s.cfg.Provider}, nil
}

func (s *Service) fail(ctx context.Context, span observe.Span, err error) error {
	if domain.IsCanceled(err) || errors.Is(err, context.Canceled) {
		metrics.SummaryRequestsTotal.WithLabelValues(s.cfg.Provider, "canceled").Inc()
		span.Outcome = observe.OutcomeCanceled
		s.sink.RecordSpan(ctx, span)
		if domain.IsCanceled(err) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}

	metrics.SummaryRequestsTotal.WithLabelValues(s.cfg.Provider, "error").Inc()
	span.Outcome = observe.OutcomeError
	s.sink.RecordSpan(ctx, span)
	s.sink.RecordError(ctx, err, map[string]string{
		"operation": opSummarize,
		"query":     span.Query,
		"provider":  s.cfg.Provider,
	})

	if errors.Is(err, domain.ErrSummaryProvider) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSummaryProvider, err)
}
