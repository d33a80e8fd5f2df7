package summarycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/db"
)

const cacheKeyPrefix = "hybridsearch:summary:"

// DefaultTTL bounds how long a generated summary is reused.
const DefaultTTL = time.Hour

// completer mirrors summary.Completer.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// store is the consumer interface for the summary cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedCompleter caches completions in a key-value store, keyed by prompt.
type CachedCompleter struct {
	inner      completer
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// namespace separates providers or models sharing one store.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner completer,
	s store,
	namespace string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached completion or calls the inner completer.
// Empty completions are not cached so the next call retries the provider.
func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := c.cacheKey(prompt)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return text, nil
	}

	c.incCache("miss")

	text, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("complete prompt: %w", err)
	}

	if text != "" {
		c.putToCache(ctx, key, text)
	}
	return text, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedCompleter) cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(c.namespace + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached summary", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key, text string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache summary", zap.String("key", key), zap.Error(err))
	}
}
