package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

// MinSuggestPrefix is the shortest prefix that triggers a suggestion lookup.
const MinSuggestPrefix = 3

// Operation names used in spans and error reports.
const (
	OpExecute = "execute"
	OpSuggest = "suggest"
)

// Connector turns a search state into a hybrid lexical + ELSER query and
// maps the backend response into a paged result set.
type Connector struct {
	repo    Repository
	indexes index.Resolver
	sink    observe.Sink
	tracker Tracker

	mu        sync.RWMutex
	selection index.Selection
	mode      mode.Mode
}

// New creates a connector. sink and tracker can be nil.
func New(repo Repository, indexes index.Resolver, sink observe.Sink, tracker Tracker) *Connector {
	return &Connector{
		repo:      repo,
		indexes:   indexes,
		sink:      observe.Safe(sink),
		tracker:   tracker,
		selection: index.Both,
		mode:      mode.Default,
	}
}

// SetSearchMode changes the mode for subsequent calls.
func (c *Connector) SetSearchMode(m mode.Mode) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidRequest, m)
	}
	if !m.IsServed() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedMode, m)
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	return nil
}

// SetSelectedIndex changes the target corpus for subsequent calls.
func (c *Connector) SetSelectedIndex(sel index.Selection) error {
	if !sel.IsValid() {
		return fmt.Errorf("%w: unknown index selection %q", domain.ErrInvalidRequest, sel)
	}
	c.mu.Lock()
	c.selection = sel
	c.mu.Unlock()
	return nil
}

// Settings returns the current selection and mode.
func (c *Connector) Settings() (index.Selection, mode.Mode) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection, c.mode
}

// Execute runs one search against the selected index.
// A blank term returns an empty searched response without a network call.
func (c *Connector) Execute(ctx context.Context, state request.State) (result.Response, error) {
	sel, md := c.Settings()
	return c.execute(ctx, state, sel, md)
}

// ExecuteIn runs one search against sel without changing the connector selection.
func (c *Connector) ExecuteIn(ctx context.Context, state request.State, sel index.Selection) (result.Response, error) {
	if !sel.IsValid() {
		return result.Response{}, fmt.Errorf("%w: unknown index selection %q", domain.ErrInvalidRequest, sel)
	}
	_, md := c.Settings()
	return c.execute(ctx, state, sel, md)
}

func (c *Connector) execute(
	ctx context.Context, state request.State, sel index.Selection, md mode.Mode,
) (result.Response, error) {
	if state.IsBlank() {
		return result.Empty(state.RequestID(), state.Term()), nil
	}

	target := c.indexes.Resolve(sel)
	start := time.Now()

	hits, err := c.repo.Search(ctx, target, state.Term(), state.Filters(), state.ResultsPerPage(), state.From())
	if err != nil {
		return result.Response{}, c.fail(ctx, OpExecute, state.Term(), md, target, start, err)
	}

	resp := result.NewResponse(
		hits.Results, hits.Total, state.Current(), state.ResultsPerPage(),
		state.RequestID(), state.Term(), hits.Raw,
	)

	c.sink.RecordSpan(ctx, observe.Span{
		Operation: OpExecute,
		Index:     target,
		Query:     state.Term(),
		Mode:      string(md),
		Results:   len(resp.Results),
		Outcome:   observe.OutcomeOK,
		Duration:  time.Since(start),
	})
	if c.tracker != nil {
		c.tracker.TrackSearch(ctx, state.Term(), target, resp.TotalResults)
	}

	return resp, nil
}

// Suggest returns title completions from the combined index.
// Prefixes shorter than MinSuggestPrefix characters return nothing without a network call.
func (c *Connector) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if utf8.RuneCountInString(prefix) < MinSuggestPrefix {
		return []string{}, nil
	}

	target := c.indexes.Combined()
	start := time.Now()

	suggestions, err := c.repo.Suggest(ctx, target, prefix)
	if err != nil {
		_, md := c.Settings()
		return nil, c.fail(ctx, OpSuggest, prefix, md, target, start, err)
	}

	c.sink.RecordSpan(ctx, observe.Span{
		Operation: OpSuggest,
		Index:     target,
		Query:     prefix,
		Results:   len(suggestions),
		Outcome:   observe.OutcomeOK,
		Duration:  time.Since(start),
	})
	return suggestions, nil
}

// fail records the span and, unless the caller went away, the error report.
// Canceled calls come back as domain.ErrCanceled.
func (c *Connector) fail(
	ctx context.Context, op, query string, md mode.Mode, target string,
	start time.Time, err error,
) error {
	span := observe.Span{
		Operation: op,
		Index:     target,
		Query:     query,
		Mode:      string(md),
		Duration:  time.Since(start),
	}

	if domain.IsCanceled(err) || errors.Is(err, context.Canceled) {
		span.Outcome = observe.OutcomeCanceled
		c.sink.RecordSpan(ctx, span)
		if domain.IsCanceled(err) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}

	span.Outcome = observe.OutcomeError
	c.sink.RecordSpan(ctx, span)

	attrs := map[string]string{
		"operation": op,
		"query":     query,
		"mode":      string(md),
		"index":     target,
	}
	var statusErr *domain.BackendStatusError
	if errors.As(err, &statusErr) {
		attrs["status"] = strconv.Itoa(statusErr.Status)
	}
	c.sink.RecordError(ctx, err, attrs)

	return err
}
