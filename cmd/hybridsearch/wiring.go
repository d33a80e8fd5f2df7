package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/config"
	dbElastic "github.com/kailas-cloud/hybridsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hybridsearch/internal/db/redis"
	"github.com/kailas-cloud/hybridsearch/internal/metrics"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
	"github.com/kailas-cloud/hybridsearch/internal/repository/summarycache"
	"github.com/kailas-cloud/hybridsearch/internal/transport/gemini"
	"github.com/kailas-cloud/hybridsearch/internal/transport/inference"
	"github.com/kailas-cloud/hybridsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/hybridsearch/internal/usecase/health"
	summaryuc "github.com/kailas-cloud/hybridsearch/internal/usecase/summary"
)

// buildSink returns the span/error sink: zap + Prometheus when monitoring is on, no-op otherwise.
func buildSink(cfg config.MonitoringConfig, logger *zap.Logger) observe.Sink {
	if !cfg.Enabled {
		return observe.Nop{}
	}
	l := logger.With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)
	return observe.Multi{observe.NewLogger(l), observe.Metrics{}}
}

// buildSummarizer assembles the decorator chain: provider -> Cached -> Service.
// The returned checker is nil when the provider has no cheap health probe.
func buildSummarizer(
	ctx context.Context,
	cfg config.Config,
	es *dbElastic.Client,
	store *dbRedis.Store,
	sink observe.Sink,
	logger *zap.Logger,
) (*summaryuc.Service, healthuc.ProviderChecker, error) {
	var (
		completer summaryuc.Completer
		checker   healthuc.ProviderChecker
		namespace string
	)

	switch cfg.Summary.Provider {
	case config.ProviderElastic:
		c, err := inference.NewCompleter(es, cfg.Summary.InferenceEndpoint, logger)
		if err != nil {
			return nil, nil, err
		}
		completer, namespace = c, cfg.Summary.InferenceEndpoint
	case config.ProviderOpenAI:
		c := openai.NewCompleter(&openai.Config{
			APIKey:  cfg.Summary.APIKey,
			BaseURL: cfg.Summary.BaseURL,
			Model:   cfg.Summary.Model,
			Logger:  logger,
		})
		completer, checker, namespace = c, c, cfg.Summary.Model
	case config.ProviderGemini:
		c, err := gemini.NewCompleter(ctx, &gemini.Config{
			APIKey:  cfg.Summary.APIKey,
			Model:   cfg.Summary.Model,
			BaseURL: cfg.Summary.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		completer, namespace = c, cfg.Summary.Model
	default:
		return nil, nil, fmt.Errorf("unknown summary provider %q", cfg.Summary.Provider)
	}

	if store != nil {
		completer = summarycache.New(
			completer, store, cfg.Summary.Provider+":"+namespace,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.SummaryCacheTotal, logger,
		)
	}

	svc := summaryuc.New(completer, summaryuc.Config{
		Provider:          cfg.Summary.Provider,
		TopResults:        cfg.Summary.TopResults,
		SnippetLength:     cfg.Summary.SnippetLength,
		RequestsPerMinute: cfg.Summary.RequestsPerMinute,
	}, sink, logger)
	return svc, checker, nil
}
