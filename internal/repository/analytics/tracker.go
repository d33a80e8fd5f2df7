package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/db"
	"github.com/kailas-cloud/hybridsearch/internal/metrics"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

// Behavioral analytics event types.
const (
	EventSearch      = "search"
	EventSearchClick = "search_click"
)

// Tracker defaults.
const (
	DefaultWorkers = 4
	DefaultTimeout = 5 * time.Second
)

// Tracker posts behavioral analytics events to an Elasticsearch analytics
// collection. Events are sent on a bounded worker pool; failures are logged
// and counted, never returned to the caller.
type Tracker struct {
	perf       db.Performer
	collection string
	pool       *ants.Pool
	timeout    time.Duration
	fallbackID string
	logger     *zap.Logger
}

// New creates a tracker with the given number of workers.
func New(perf db.Performer, collection string, workers int, logger *zap.Logger) (*Tracker, error) {
	if collection == "" {
		return nil, fmt.Errorf("analytics collection is required")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create analytics pool: %w", err)
	}
	return &Tracker{
		perf:       perf,
		collection: collection,
		pool:       pool,
		timeout:    DefaultTimeout,
		fallbackID: uuid.NewString(),
		logger:     logger,
	}, nil
}

type searchEvent struct {
	Session sessionPayload `json:"session"`
	User    userPayload    `json:"user"`
	Search  searchPayload  `json:"search"`
}

type clickEvent struct {
	Session  sessionPayload  `json:"session"`
	User     userPayload     `json:"user"`
	Search   searchPayload   `json:"search"`
	Document documentPayload `json:"document"`
	Page     pagePayload     `json:"page"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type userPayload struct {
	ID string `json:"id"`
}

type searchPayload struct {
	Query   string              `json:"query"`
	Filters map[string][]string `json:"filters,omitempty"`
	Results *resultsPayload     `json:"results,omitempty"`
}

type resultsPayload struct {
	Total int `json:"total_results"`
}

type documentPayload struct {
	ID    string `json:"id"`
	Index string `json:"index,omitempty"`
}

type pagePayload struct {
	URL string `json:"url"`
}

// FilterIndex is the search filter key carrying the searched index.
const FilterIndex = "_index"

// TrackSearch records a completed search against index. The session comes
// from ctx (observe.ContextWithSession); without one the tracker's own id is used.
func (t *Tracker) TrackSearch(ctx context.Context, query, index string, total int) {
	id := t.session(ctx)
	t.submit(EventSearch, searchEvent{
		Session: sessionPayload{ID: id},
		User:    userPayload{ID: id},
		Search: searchPayload{
			Query:   query,
			Filters: indexFilter(index),
			Results: &resultsPayload{Total: total},
		},
	})
}

// TrackClick records a click on a result at the given 1-based position.
func (t *Tracker) TrackClick(ctx context.Context, query, docID, index, pageURL string, position int) {
	t.logger.Debug("Result clicked",
		zap.String("query", query),
		zap.String("doc_id", docID),
		zap.Int("position", position),
	)
	id := t.session(ctx)
	t.submit(EventSearchClick, clickEvent{
		Session:  sessionPayload{ID: id},
		User:     userPayload{ID: id},
		Search:   searchPayload{Query: query, Filters: indexFilter(index)},
		Document: documentPayload{ID: docID, Index: index},
		Page:     pagePayload{URL: pageURL},
	})
}

func (t *Tracker) session(ctx context.Context) string {
	if id := observe.SessionFrom(ctx); id != "" {
		return id
	}
	return t.fallbackID
}

func indexFilter(index string) map[string][]string {
	if index == "" {
		return nil
	}
	return map[string][]string{FilterIndex: {index}}
}

// Close waits for queued events up to timeout and releases the pool.
func (t *Tracker) Close(timeout time.Duration) error {
	if err := t.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release analytics pool: %w", err)
	}
	return nil
}

func (t *Tracker) submit(event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		t.logger.Warn("Failed to encode analytics event", zap.String("event", event), zap.Error(err))
		metrics.AnalyticsEventsTotal.WithLabelValues(event, "error").Inc()
		return
	}

	if err := t.pool.Submit(func() { t.post(event, body) }); err != nil {
		t.logger.Warn("Analytics event dropped", zap.String("event", event), zap.Error(err))
		metrics.AnalyticsEventsTotal.WithLabelValues(event, "dropped").Inc()
	}
}

func (t *Tracker) post(event string, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	path := fmt.Sprintf("/_analytics/%s/event/%s", url.PathEscape(t.collection), event)
	res, err := t.perf.Perform(ctx, http.MethodPost, path, bytes.NewReader(body), nil)
	if err != nil {
		t.logger.Warn("Analytics event failed", zap.String("event", event), zap.Error(err))
		metrics.AnalyticsEventsTotal.WithLabelValues(event, "error").Inc()
		return
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode >= http.StatusMultipleChoices {
		t.logger.Warn("Analytics event rejected",
			zap.String("event", event),
			zap.Int("status", res.StatusCode),
		)
		metrics.AnalyticsEventsTotal.WithLabelValues(event, "error").Inc()
		return
	}
	metrics.AnalyticsEventsTotal.WithLabelValues(event, "ok").Inc()
}
