package hybridsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	host      string
	apiKey    string
	index     string
	mainIndex string
	newsIndex string
	timeout   time.Duration
	transport http.RoundTripper

	semanticField string
	inferenceID   string

	sink       Sink
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the cluster URL, API key and combined index.
// Required.
func WithElasticsearch(host, apiKey, index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.host = host
		c.apiKey = apiKey
		c.index = index
	})
}

// WithIndexNames overrides the dedicated main and news index names.
// Defaults: search-emory-main-v2 and search-emory-news-v2.
func WithIndexNames(main, news string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mainIndex = main
		c.newsIndex = news
	})
}

// WithSemanticModel overrides the semantic_text field and the ELSER inference endpoint.
func WithSemanticModel(field, inferenceID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticField = field
		c.inferenceID = inferenceID
	})
}

// WithTimeout bounds every backend request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPTransport replaces the HTTP transport (proxies, tests).
func WithHTTPTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *clientConfig) {
		c.transport = rt
	})
}

// WithSink sends spans and error reports to s in addition to the
// built-in logger and metrics. Sink panics are swallowed.
func WithSink(s Sink) Option {
	return optionFunc(func(c *clientConfig) {
		c.sink = s
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
