package hybridsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbElastic "github.com/kailas-cloud/hybridsearch/internal/db/elastic"
	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
	searchrepo "github.com/kailas-cloud/hybridsearch/internal/repository/search"
	searchuc "github.com/kailas-cloud/hybridsearch/internal/usecase/search"
)

// Internal interfaces for substitution in tests.
type connector interface {
	Execute(ctx context.Context, state request.State) (result.Response, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
	SetSearchMode(m mode.Mode) error
	SetSelectedIndex(sel index.Selection) error
	Settings() (index.Selection, mode.Mode)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the hybridsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	es        pinger
	connector connector
	sink      observe.Sink
	obs       *observer
}

// New creates a Client. No request is sent until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.host == "" {
		return nil, errors.New("hybridsearch: elasticsearch host required (use WithElasticsearch)")
	}

	es, err := dbElastic.NewClient(dbElastic.Config{
		Host:      cfg.host,
		APIKey:    cfg.apiKey,
		Timeout:   cfg.timeout,
		Transport: cfg.transport,
	})
	if err != nil {
		return nil, fmt.Errorf("hybridsearch: create elasticsearch client: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(es, cfg, obs), nil
}

func wireClient(es *dbElastic.Client, cfg *clientConfig, obs *observer) *Client {
	repo := searchrepo.New(es, searchrepo.QueryConfig{
		SemanticField: cfg.semanticField,
		InferenceID:   cfg.inferenceID,
	})
	resolver := index.NewResolver(cfg.index, cfg.mainIndex, cfg.newsIndex)

	var sink observe.Sink = obs
	if cfg.sink != nil {
		sink = observe.Multi{obs, cfg.sink}
	}

	return &Client{
		es:        es,
		connector: searchuc.New(repo, resolver, sink, nil),
		sink:      observe.Safe(sink),
		obs:       obs,
	}
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.es.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs one search against the selected index.
// A blank term returns an empty response with WasSearched set and no backend call.
func (c *Client) Search(ctx context.Context, state SearchState) (Response, error) {
	st, err := toInternalState(state)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	resp, err := c.connector.Execute(ctx, st)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return fromResponse(resp), nil
}

// Suggest returns up to three title completions for prefix.
// Prefixes shorter than three characters return nothing.
func (c *Client) Suggest(ctx context.Context, prefix string) ([]string, error) {
	out, err := c.connector.Suggest(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return out, nil
}

// SetSelectedIndex changes the corpus for subsequent searches.
func (c *Client) SetSelectedIndex(sel IndexSelection) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("set_index", start, err) }()

	parsed, err := index.Parse(string(sel))
	if err != nil {
		return fmt.Errorf("set index: %w: %w", ErrInvalidRequest, err)
	}
	if err = c.connector.SetSelectedIndex(parsed); err != nil {
		return fmt.Errorf("set index: %w", err)
	}
	return nil
}

// SetSearchMode changes the retrieval strategy for subsequent searches.
func (c *Client) SetSearchMode(m SearchMode) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("set_mode", start, err) }()

	parsed, err := mode.Parse(string(m))
	if err != nil {
		return fmt.Errorf("set mode: %w: %w", ErrInvalidRequest, err)
	}
	if err = c.connector.SetSearchMode(parsed); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	return nil
}

// Settings returns the current index selection and search mode.
func (c *Client) Settings() (IndexSelection, SearchMode) {
	sel, m := c.connector.Settings()
	return IndexSelection(sel), SearchMode(m)
}

func toInternalState(s SearchState) (request.State, error) {
	filters, err := filter.NewSet(s.SourceHosts)
	if err != nil {
		return request.State{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	st, err := request.New(s.Term, s.Current, s.ResultsPerPage, filters, s.RequestID)
	if err != nil {
		return request.State{}, err
	}
	return st, nil
}

func fromResponse(r result.Response) Response {
	out := Response{
		Results:          make([]Result, len(r.Results)),
		TotalResults:     r.TotalResults,
		TotalPages:       r.TotalPages,
		PagingStart:      r.PagingStart,
		PagingEnd:        r.PagingEnd,
		WasSearched:      r.WasSearched,
		RequestID:        r.RequestID,
		ResultSearchTerm: r.ResultSearchTerm,
		RawResponse:      r.RawResponse,
	}
	for i := range r.Results {
		h := &r.Results[i]
		out.Results[i] = Result{
			ID:             h.ID(),
			Title:          h.Title(),
			BodyContent:    h.BodyContent(),
			URL:            h.URL(),
			MetaKeywords:   h.MetaKeywords(),
			LastCrawledAt:  h.LastCrawledAt(),
			Domains:        h.Domains(),
			URLHost:        h.URLHost(),
			SourceIndex:    h.SourceIndex(),
			RelevanceScore: h.Score(),
		}
	}
	return out
}
