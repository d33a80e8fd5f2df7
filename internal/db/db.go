package db

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations with expiry.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
}

// SearchBackend runs a Query DSL document against one index and returns the raw payload.
// Non-2xx statuses and transport failures are returned as errors.
type SearchBackend interface {
	Pinger
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
}

// Performer sends an arbitrary authenticated request to the search cluster.
// The caller owns the response body and status handling.
type Performer interface {
	Perform(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error)
}
