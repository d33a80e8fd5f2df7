// Package elastic is the Elasticsearch HTTP backend built on go-elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/kailas-cloud/hybridsearch/internal/db"
	"github.com/kailas-cloud/hybridsearch/internal/domain"
)

// Compile-time checks.
var (
	_ db.SearchBackend = (*Client)(nil)
	_ db.Performer     = (*Client)(nil)
)

// Config holds connection parameters for the search cluster.
type Config struct {
	Host    string
	APIKey  string
	Timeout time.Duration
	// Transport overrides the HTTP transport (tests, proxies).
	Transport http.RoundTripper
}

// Client wraps the official client with the connector's error semantics.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// NewClient creates a client. Requests carry "Authorization: ApiKey <key>"
// and are never retried.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}

	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "ApiKey "+cfg.APIKey)
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{cfg.Host},
		Header:       header,
		Transport:    cfg.Transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{es: es, timeout: cfg.Timeout}, nil
}

// Search posts body to /{index}/_search and returns the raw 2xx payload.
func (c *Client) Search(ctx context.Context, index string, body []byte) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, transportError(ctx, db.OpSearch, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, transportError(ctx, db.OpSearch, err)
	}
	if res.IsError() {
		return nil, domain.NewBackendStatus(res.StatusCode, data)
	}
	return data, nil
}

// Perform sends a raw request relative to the cluster root.
func (c *Client) Perform(
	ctx context.Context, method, path string, body io.Reader, header http.Header,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.es.Perform(req)
	if err != nil {
		return nil, transportError(ctx, db.OpPerform, err)
	}
	return res, nil
}

// Ping checks cluster availability.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return transportError(ctx, db.OpPing, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return domain.NewBackendStatus(res.StatusCode, nil)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// transportError separates caller cancellation from genuine backend failures.
func transportError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, domain.ErrCanceled)
	}
	return fmt.Errorf("%w: %w", domain.ErrSearchBackend, &db.Error{Op: op, Err: err})
}
