package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

// --- Mocks ---

type searchCall struct {
	index   string
	term    string
	filters filter.Set
	size    int
	from    int
}

type mockRepo struct {
	mu          sync.Mutex
	hits        result.Hits
	err         error
	suggestions []string
	calls       []searchCall
	suggestN    int
}

func (m *mockRepo) Search(
	_ context.Context, idx, term string,
	filters filter.Set, size, from int,
) (result.Hits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, searchCall{index: idx, term: term, filters: filters, size: size, from: from})
	return m.hits, m.err
}

func (m *mockRepo) Suggest(_ context.Context, _, _ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestN++
	return m.suggestions, m.err
}

type errorReport struct {
	err   error
	attrs map[string]string
}

type mockSink struct {
	mu     sync.Mutex
	spans  []observe.Span
	errors []errorReport
}

func (m *mockSink) RecordSpan(_ context.Context, s observe.Span) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = append(m.spans, s)
}

func (m *mockSink) RecordError(_ context.Context, err error, attrs map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, errorReport{err: err, attrs: attrs})
}

type panicSink struct{}

func (panicSink) RecordSpan(context.Context, observe.Span)             { panic("sink down") }
func (panicSink) RecordError(context.Context, error, map[string]string) { panic("sink down") }

type mockTracker struct {
	queries  []string
	indexes  []string
	totals   []int
	sessions []string
}

func (m *mockTracker) TrackSearch(ctx context.Context, query, idx string, total int) {
	m.queries = append(m.queries, query)
	m.indexes = append(m.indexes, idx)
	m.totals = append(m.totals, total)
	m.sessions = append(m.sessions, observe.SessionFrom(ctx))
}

func newConnector(repo *mockRepo, sink observe.Sink) *Connector {
	return New(repo, index.NewResolver("combined-idx", "", ""), sink, nil)
}

func mustState(t *testing.T, term string, current, perPage int) request.State {
	t.Helper()
	s, err := request.New(term, current, perPage, filter.Set{}, "req-1")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return s
}

func fakeHits(n, total int) result.Hits {
	results := make([]result.Result, n)
	for i := range results {
		score := float64(n - i)
		results[i] = result.New(fmt.Sprintf("doc-%d", i), "combined-idx", &score, result.Source{})
	}
	return result.Hits{Results: results, Total: total, Raw: []byte(`{}`)}
}

// --- Execute ---

func TestExecute_BlankTermNoNetwork(t *testing.T) {
	for _, term := range []string{"", "   ", "\t\n"} {
		repo := &mockRepo{}
		sink := &mockSink{}
		c := newConnector(repo, sink)

		resp, err := c.Execute(context.Background(), mustState(t, term, 1, 10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.WasSearched || resp.TotalResults != 0 || len(resp.Results) != 0 {
			t.Errorf("term %q: unexpected response %+v", term, resp)
		}
		if resp.PagingStart != 0 || resp.PagingEnd != 0 || resp.TotalPages != 0 {
			t.Errorf("term %q: expected zero paging, got %+v", term, resp)
		}
		if len(repo.calls) != 0 {
			t.Errorf("term %q: expected no backend call, got %d", term, len(repo.calls))
		}
	}
}

func TestExecute_Paging(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(7, 37)}
	c := newConnector(repo, &mockSink{})

	resp, err := c.Execute(context.Background(), mustState(t, "nursing", 4, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalResults != 37 || resp.TotalPages != 4 || resp.PagingStart != 31 || resp.PagingEnd != 37 {
		t.Fatalf("unexpected paging: %+v", resp)
	}
	if !resp.WasSearched || resp.RequestID != "req-1" || resp.ResultSearchTerm != "nursing" {
		t.Fatalf("unexpected metadata: %+v", resp)
	}
	call := repo.calls[0]
	if call.size != 10 || call.from != 30 {
		t.Fatalf("expected size 10 from 30, got %d/%d", call.size, call.from)
	}
}

func TestExecute_PreservesBackendOrder(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(3, 3)}
	c := newConnector(repo, &mockSink{})

	resp, err := c.Execute(context.Background(), mustState(t, "x", 1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range resp.Results {
		if r.ID() != fmt.Sprintf("doc-%d", i) {
			t.Fatalf("position %d: got %s", i, r.ID())
		}
	}
}

func TestExecute_IndexSelection(t *testing.T) {
	tests := []struct {
		sel  index.Selection
		want string
	}{
		{index.Both, "combined-idx"},
		{index.Main, index.DefaultMain},
		{index.News, index.DefaultNews},
	}
	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			repo := &mockRepo{hits: fakeHits(0, 0)}
			c := newConnector(repo, &mockSink{})
			if err := c.SetSelectedIndex(tt.sel); err != nil {
				t.Fatalf("SetSelectedIndex: %v", err)
			}
			if _, err := c.Execute(context.Background(), mustState(t, "x", 1, 10)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.calls[0].index != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, repo.calls[0].index)
			}
		})
	}
}

func TestExecute_BackendErrorReportedOnce(t *testing.T) {
	repo := &mockRepo{err: domain.NewBackendStatus(503, []byte("unavailable"))}
	sink := &mockSink{}
	c := newConnector(repo, sink)

	_, err := c.Execute(context.Background(), mustState(t, "nursing", 1, 10))
	if !errors.Is(err, domain.ErrSearchBackend) {
		t.Fatalf("expected ErrSearchBackend, got %v", err)
	}
	if len(sink.errors) != 1 {
		t.Fatalf("expected exactly one error report, got %d", len(sink.errors))
	}
	attrs := sink.errors[0].attrs
	if attrs["query"] != "nursing" || attrs["index"] != "combined-idx" || attrs["mode"] != "elser" || attrs["status"] != "503" {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
	if len(sink.spans) != 1 || sink.spans[0].Outcome != observe.OutcomeError {
		t.Fatalf("expected one error span, got %+v", sink.spans)
	}
	if len(repo.calls) != 1 {
		t.Fatalf("expected no retry, got %d calls", len(repo.calls))
	}
}

func TestExecute_CancellationIsSilent(t *testing.T) {
	for _, cause := range []error{domain.ErrCanceled, context.Canceled} {
		repo := &mockRepo{err: cause}
		sink := &mockSink{}
		c := newConnector(repo, sink)

		_, err := c.Execute(context.Background(), mustState(t, "x", 1, 10))
		if !domain.IsCanceled(err) {
			t.Fatalf("expected ErrCanceled, got %v", err)
		}
		if len(sink.errors) != 0 {
			t.Fatalf("cancellation must not reach the error sink, got %d reports", len(sink.errors))
		}
		if len(sink.spans) != 1 || sink.spans[0].Outcome != observe.OutcomeCanceled {
			t.Fatalf("expected canceled span, got %+v", sink.spans)
		}
	}
}

func TestExecute_SinkPanicDoesNotMaskResult(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(1, 1)}
	c := newConnector(repo, panicSink{})

	resp, err := c.Execute(context.Background(), mustState(t, "x", 1, 10))
	if err != nil || len(resp.Results) != 1 {
		t.Fatalf("expected result despite sink panic, got %+v / %v", resp, err)
	}

	repo.err = domain.ErrSearchBackend
	if _, err := c.Execute(context.Background(), mustState(t, "x", 1, 10)); !errors.Is(err, domain.ErrSearchBackend) {
		t.Fatalf("expected backend error despite sink panic, got %v", err)
	}
}

func TestExecute_SpanOnSuccess(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(2, 2)}
	sink := &mockSink{}
	c := newConnector(repo, sink)

	if _, err := c.Execute(context.Background(), mustState(t, "nursing", 1, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.spans) != 1 {
		t.Fatalf("expected one span, got %d", len(sink.spans))
	}
	s := sink.spans[0]
	if s.Operation != OpExecute || s.Results != 2 || s.Outcome != observe.OutcomeOK || s.Query != "nursing" {
		t.Fatalf("unexpected span: %+v", s)
	}
}

func TestExecute_TracksSearch(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(2, 12)}
	tracker := &mockTracker{}
	c := New(repo, index.NewResolver("", "", ""), nil, tracker)

	ctx := observe.ContextWithSession(context.Background(), "tab-3")
	if _, err := c.Execute(ctx, mustState(t, "nursing", 1, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracker.queries) != 1 || tracker.totals[0] != 12 {
		t.Fatalf("unexpected tracking: %+v", tracker)
	}
	if tracker.indexes[0] != index.DefaultCombined || tracker.sessions[0] != "tab-3" {
		t.Errorf("tracked index %q session %q", tracker.indexes[0], tracker.sessions[0])
	}
}

// --- Settings ---

func TestSetSearchMode(t *testing.T) {
	c := newConnector(&mockRepo{}, nil)

	if err := c.SetSearchMode(mode.ELSER); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetSearchMode(mode.Text); !errors.Is(err, domain.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
	if err := c.SetSearchMode(mode.Mode("vector")); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, m := c.Settings(); m != mode.ELSER {
		t.Fatalf("mode must stay elser, got %s", m)
	}
}

func TestSetSelectedIndex_Invalid(t *testing.T) {
	c := newConnector(&mockRepo{}, nil)
	if err := c.SetSelectedIndex(index.Selection("archive")); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if sel, _ := c.Settings(); sel != index.Both {
		t.Fatalf("selection must stay both, got %s", sel)
	}
}

// --- Suggest ---

func TestSuggest_ShortPrefix(t *testing.T) {
	repo := &mockRepo{suggestions: []string{"x"}}
	c := newConnector(repo, nil)

	got, err := c.Suggest(context.Background(), "nu")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty, got %v / %v", got, err)
	}
	if repo.suggestN != 0 {
		t.Fatalf("expected no backend call, got %d", repo.suggestN)
	}
}

func TestSuggest_Delegates(t *testing.T) {
	repo := &mockRepo{suggestions: []string{"Nursing", "Nutrition"}}
	c := newConnector(repo, nil)

	got, err := c.Suggest(context.Background(), "nur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Nursing" {
		t.Fatalf("unexpected suggestions: %v", got)
	}
}

func TestSuggest_ErrorReported(t *testing.T) {
	repo := &mockRepo{err: domain.ErrSearchBackend}
	sink := &mockSink{}
	c := newConnector(repo, sink)

	if _, err := c.Suggest(context.Background(), "nurs"); !errors.Is(err, domain.ErrSearchBackend) {
		t.Fatalf("expected ErrSearchBackend, got %v", err)
	}
	if len(sink.errors) != 1 || sink.errors[0].attrs["operation"] != OpSuggest {
		t.Fatalf("expected one suggest error report, got %+v", sink.errors)
	}
}

func TestExecuteIn_OverridesSelectionOnce(t *testing.T) {
	repo := &mockRepo{hits: fakeHits(0, 0)}
	c := newConnector(repo, nil)

	if _, err := c.ExecuteIn(context.Background(), mustState(t, "x", 1, 10), index.News); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls[0].index != index.DefaultNews {
		t.Fatalf("expected news index, got %s", repo.calls[0].index)
	}
	if sel, _ := c.Settings(); sel != index.Both {
		t.Fatalf("selection must not change, got %s", sel)
	}
	if _, err := c.ExecuteIn(context.Background(), mustState(t, "x", 1, 10), index.Selection("bogus")); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
