package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

type performCall struct {
	method string
	path   string
	body   map[string]any
}

type mockPerformer struct {
	mu     sync.Mutex
	calls  []performCall
	status int
	err    error
}

func (m *mockPerformer) Perform(
	_ context.Context, method, path string, body io.Reader, _ http.Header,
) (*http.Response, error) {
	raw, _ := io.ReadAll(body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)

	m.mu.Lock()
	m.calls = append(m.calls, performCall{method: method, path: path, body: decoded})
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusAccepted
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader("{}"))}, nil
}

func (m *mockPerformer) snapshot() []performCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]performCall(nil), m.calls...)
}

func newTestTracker(t *testing.T, perf *mockPerformer) *Tracker {
	t.Helper()
	tr, err := New(perf, "emory-search", 2, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestTrackSearch_PostsEvent(t *testing.T) {
	perf := &mockPerformer{}
	tr := newTestTracker(t, perf)

	tr.TrackSearch(context.Background(), "nursing", "search-emory-combined", 37)
	if err := tr.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}

	calls := perf.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	c := calls[0]
	if c.method != http.MethodPost || c.path != "/_analytics/emory-search/event/search" {
		t.Fatalf("unexpected request: %s %s", c.method, c.path)
	}
	search := c.body["search"].(map[string]any)
	if search["query"] != "nursing" {
		t.Errorf("unexpected query: %v", search["query"])
	}
	if search["results"].(map[string]any)["total_results"] != float64(37) {
		t.Errorf("unexpected total: %v", search["results"])
	}
	if c.body["session"].(map[string]any)["id"] == "" {
		t.Error("expected session id")
	}
	filters := search["filters"].(map[string]any)
	if got := filters[FilterIndex].([]any); len(got) != 1 || got[0] != "search-emory-combined" {
		t.Errorf("unexpected index filter: %v", filters)
	}
}

func TestTrack_UsesCallerSession(t *testing.T) {
	perf := &mockPerformer{}
	tr := newTestTracker(t, perf)

	tr.TrackSearch(observe.ContextWithSession(context.Background(), "tab-a"), "law", "idx", 1)
	tr.TrackSearch(observe.ContextWithSession(context.Background(), "tab-b"), "law", "idx", 1)
	tr.TrackClick(observe.ContextWithSession(context.Background(), "tab-a"), "law", "doc-1", "idx", "https://x", 1)
	tr.TrackSearch(context.Background(), "law", "idx", 1)
	if err := tr.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sessions := map[string]int{}
	for _, c := range perf.snapshot() {
		sid := c.body["session"].(map[string]any)["id"].(string)
		uid := c.body["user"].(map[string]any)["id"].(string)
		if sid != uid {
			t.Errorf("session %q and user %q differ", sid, uid)
		}
		sessions[sid]++
	}
	if sessions["tab-a"] != 2 || sessions["tab-b"] != 1 {
		t.Errorf("unexpected sessions: %v", sessions)
	}
	if len(sessions) != 3 {
		t.Errorf("expected a fallback session for the untagged search, got %v", sessions)
	}
}

func TestTrackClick_PostsEvent(t *testing.T) {
	perf := &mockPerformer{}
	tr := newTestTracker(t, perf)

	tr.TrackClick(context.Background(), "nursing", "doc-1", "search-emory-main-v2", "https://nursing.emory.edu", 2)
	if err := tr.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}

	calls := perf.snapshot()
	if len(calls) != 1 || calls[0].path != "/_analytics/emory-search/event/search_click" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	doc := calls[0].body["document"].(map[string]any)
	if doc["id"] != "doc-1" || doc["index"] != "search-emory-main-v2" {
		t.Errorf("unexpected document: %v", doc)
	}
}

func TestTracker_FailuresNeverSurface(t *testing.T) {
	for _, perf := range []*mockPerformer{
		{err: errors.New("connection refused")},
		{status: http.StatusNotFound},
	} {
		tr := newTestTracker(t, perf)
		tr.TrackSearch(context.Background(), "q", "idx", 0)
		if err := tr.Close(time.Second); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if len(perf.snapshot()) != 1 {
			t.Fatalf("expected one attempt, got %d", len(perf.snapshot()))
		}
	}
}

func TestNew_RequiresCollection(t *testing.T) {
	if _, err := New(&mockPerformer{}, "", 1, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty collection")
	}
}
