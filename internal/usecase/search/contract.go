package search

import (
	"context"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
)

// Repository defines the search backend contract.
type Repository interface {
	Search(
		ctx context.Context, index, term string,
		filters filter.Set, size, from int,
	) (result.Hits, error)

	Suggest(ctx context.Context, index, prefix string) ([]string, error)
}

// Tracker receives behavioral analytics events. Calls must not block.
type Tracker interface {
	TrackSearch(ctx context.Context, query, index string, total int)
}
