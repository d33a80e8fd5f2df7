package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
)

// mockBackend implements db.SearchBackend for tests.
type mockBackend struct {
	searchFn func(ctx context.Context, index string, body []byte) ([]byte, error)
	calls    int
	lastBody []byte
}

func (m *mockBackend) Search(ctx context.Context, index string, body []byte) ([]byte, error) {
	m.calls++
	m.lastBody = body
	if m.searchFn != nil {
		return m.searchFn(ctx, index, body)
	}
	return []byte(`{"hits":{"total":{"value":0},"hits":[]}}`), nil
}

func (m *mockBackend) Ping(context.Context) error { return nil }

func newTestRepo(t *testing.T) (*Repo, *mockBackend) {
	t.Helper()
	mb := &mockBackend{}
	return New(mb, QueryConfig{}), mb
}

func mustFilters(t *testing.T, hosts ...string) filter.Set {
	t.Helper()
	s, err := filter.NewSet(hosts)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return s
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	return m
}
