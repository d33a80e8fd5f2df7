package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/config"
	dbElastic "github.com/kailas-cloud/hybridsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/hybridsearch/internal/db/redis"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	logpkg "github.com/kailas-cloud/hybridsearch/internal/logger"
	"github.com/kailas-cloud/hybridsearch/internal/metrics"
	"github.com/kailas-cloud/hybridsearch/internal/repository/analytics"
	searchrepo "github.com/kailas-cloud/hybridsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/hybridsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/hybridsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hybridsearch/internal/usecase/search"
	"github.com/kailas-cloud/hybridsearch/internal/version"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load(".env")

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	if cfg.Logging.File != "" {
		logger = logpkg.WithFile(logger, cfg.Logging.File)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hybridsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("es_host", cfg.Elasticsearch.Host),
		zap.String("index", cfg.Elasticsearch.Index),
		zap.Bool("summary", cfg.Summary.Enabled),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("analytics", cfg.Analytics.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterSummaryMetrics()

	es, err := dbElastic.NewClient(dbElastic.Config{
		Host:    cfg.Elasticsearch.Host,
		APIKey:  cfg.Elasticsearch.APIKey,
		Timeout: time.Duration(cfg.Elasticsearch.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	ctx := context.Background()
	if err := es.Ping(ctx); err != nil {
		// Search stays degraded until the cluster answers; /health reports it.
		logger.Warn("Elasticsearch not reachable at startup", zap.Error(err))
	}

	sink := buildSink(cfg.Monitoring, logger)

	// Pass nil interfaces (not typed nil pointers) for disabled components.
	var tracker searchuc.Tracker
	var clicks chiTransport.ClickTracker
	if cfg.Analytics.Enabled {
		t, err := analytics.New(es, cfg.Analytics.Collection, cfg.Analytics.Workers, logger)
		if err != nil {
			logger.Fatal("Failed to create analytics tracker", zap.Error(err))
		}
		defer func() { _ = t.Close(analytics.DefaultTimeout) }()
		tracker, clicks = t, t
	}

	repo := searchrepo.New(es, searchrepo.QueryConfig{
		SemanticField: cfg.Elasticsearch.SemanticField,
		InferenceID:   cfg.Elasticsearch.InferenceID,
	})
	resolver := index.NewResolver(cfg.Elasticsearch.Index, cfg.Elasticsearch.MainIndex, cfg.Elasticsearch.NewsIndex)
	connector := searchuc.New(repo, resolver, sink, tracker)

	var cachePinger healthuc.Pinger
	var store *dbRedis.Store
	if cfg.Cache.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, 3*time.Second); err != nil {
			// Cache misses fall through to the provider; /health reports degraded.
			logger.Warn("Summary cache not ready", zap.Error(err))
		}
		cachePinger = store
		logger.Info("Connected to summary cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	var summarizer chiTransport.Summarizer
	var providerChecker healthuc.ProviderChecker
	if cfg.Summary.Enabled {
		svc, checker, err := buildSummarizer(ctx, cfg, es, store, sink, logger)
		if err != nil {
			logger.Fatal("Failed to create summary provider", zap.Error(err))
		}
		summarizer = svc
		providerChecker = checker
		logger.Info("Summary provider created",
			zap.String("provider", cfg.Summary.Provider),
			zap.String("model", cfg.Summary.Model),
		)
	}

	healthSvc := healthuc.New(es, cachePinger, providerChecker)

	server := chiTransport.NewServer(connector, summarizer, clicks, healthSvc, chiTransport.Options{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		SearchDebounce:  time.Duration(cfg.Search.DebounceMs) * time.Millisecond,
		SummaryDebounce: time.Duration(cfg.Summary.DebounceMs) * time.Millisecond,
		MaxSessions:     cfg.Search.MaxSessions,
		Sink:            sink,
	}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
