package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/hybridsearch/internal/db"
	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
)

// Repo implements usecase/search.Repository over the Elasticsearch search API.
type Repo struct {
	backend db.SearchBackend
	query   QueryConfig
}

// New creates a search repository.
func New(backend db.SearchBackend, query QueryConfig) *Repo {
	return &Repo{backend: backend, query: query.withDefaults()}
}

// Search runs the hybrid query and normalizes the hits, preserving backend order.
func (r *Repo) Search(
	ctx context.Context, index, term string,
	filters filter.Set, size, from int,
) (result.Hits, error) {
	body, err := buildHybridQuery(r.query, term, filters, size, from)
	if err != nil {
		return result.Hits{}, err
	}

	raw, err := r.backend.Search(ctx, index, body)
	if err != nil {
		return result.Hits{}, fmt.Errorf("search %s: %w", index, err)
	}

	return parseHits(raw)
}

// Suggest returns up to three title completions for prefix from the given index.
func (r *Repo) Suggest(ctx context.Context, index, prefix string) ([]string, error) {
	body, err := buildSuggestQuery(prefix)
	if err != nil {
		return nil, err
	}

	raw, err := r.backend.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", index, err)
	}

	var resp suggestResponseDTO
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed("decode suggestions: %v", err)
	}
	if resp.Aggregations == nil || resp.Aggregations.Suggestions == nil {
		return []string{}, nil
	}
	out := make([]string, 0, len(resp.Aggregations.Suggestions.Buckets))
	for _, b := range resp.Aggregations.Suggestions.Buckets {
		out = append(out, b.Key)
	}
	return out, nil
}

func parseHits(raw []byte) (result.Hits, error) {
	var resp searchResponseDTO
	if err := json.Unmarshal(raw, &resp); err != nil {
		return result.Hits{}, malformed("decode response: %v", err)
	}
	if resp.Hits == nil || resp.Hits.Hits == nil {
		return result.Hits{}, malformed("missing hits")
	}
	if resp.Hits.Total == nil {
		return result.Hits{}, malformed("missing hits.total")
	}

	results := make([]result.Result, len(resp.Hits.Hits))
	for i := range resp.Hits.Hits {
		results[i] = resp.Hits.Hits[i].toResult()
	}
	return result.Hits{Results: results, Total: resp.Hits.Total.Value, Raw: raw}, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", domain.ErrSearchBackend, domain.ErrMalformedResponse, fmt.Sprintf(format, args...))
}
