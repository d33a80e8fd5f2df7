package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
	healthuc "github.com/kailas-cloud/hybridsearch/internal/usecase/health"
	summaryuc "github.com/kailas-cloud/hybridsearch/internal/usecase/summary"
	"github.com/kailas-cloud/hybridsearch/internal/usecase/supersede"
)

// SessionHeader carries the client session id that groups superseding requests.
const SessionHeader = "X-Search-Session"

// Searcher is the search connector surface the HTTP layer needs.
type Searcher interface {
	Execute(ctx context.Context, state request.State) (result.Response, error)
	ExecuteIn(ctx context.Context, state request.State, sel index.Selection) (result.Response, error)
	Suggest(ctx context.Context, prefix string) ([]string, error)
	SetSearchMode(m mode.Mode) error
	SetSelectedIndex(sel index.Selection) error
	Settings() (index.Selection, mode.Mode)
}

// Summarizer generates AI summaries.
type Summarizer interface {
	Summarize(ctx context.Context, query string, results []result.Result) (summaryuc.Summary, error)
}

// ClickTracker records result clicks.
type ClickTracker interface {
	TrackClick(ctx context.Context, query, docID, index, pageURL string, position int)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options tunes the server.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	SearchDebounce  time.Duration
	SummaryDebounce time.Duration
	MaxSessions     int
	// Sink receives a span for each superseded request. Nil disables it.
	Sink observe.Sink
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the hybrid search HTTP API.
type Server struct {
	search        Searcher
	summary       Summarizer
	clicks        ClickTracker
	health        HealthChecker
	searchSlots   *supersede.Registry
	summarySlots  *supersede.Registry
	opts          Options
	sink          observe.Sink
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. summary and clicks can be nil.
func NewServer(
	search Searcher,
	summary Summarizer,
	clicks ClickTracker,
	health HealthChecker,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = request.DefaultResultsPerPage
	}
	if opts.MaxPageSize <= 0 || opts.MaxPageSize > request.MaxResultsPerPage {
		opts.MaxPageSize = request.MaxResultsPerPage
	}
	opts.DefaultPageSize = min(opts.DefaultPageSize, opts.MaxPageSize)
	s := &Server{
		search:       search,
		summary:      summary,
		clicks:       clicks,
		health:       health,
		searchSlots:  supersede.NewRegistry(opts.SearchDebounce, opts.MaxSessions),
		summarySlots: supersede.NewRegistry(opts.SummaryDebounce, opts.MaxSessions),
		opts:         opts,
		sink:         observe.Safe(opts.Sink),
		logger:       logger,
	}
	s.errorHandlers = defaultErrorHandlers()
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/suggest", s.Suggest)
	r.Post("/summary", s.Summarize)
	r.Post("/events/click", s.TrackClick)
	r.Get("/settings", s.GetSettings)
	r.Put("/settings/index", s.SetIndex)
	r.Put("/settings/mode", s.SetMode)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
