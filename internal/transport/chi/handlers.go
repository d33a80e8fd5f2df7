package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/index"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	"github.com/kailas-cloud/hybridsearch/internal/observe"
	searchuc "github.com/kailas-cloud/hybridsearch/internal/usecase/search"
	summaryuc "github.com/kailas-cloud/hybridsearch/internal/usecase/summary"
	"github.com/kailas-cloud/hybridsearch/internal/usecase/supersede"
)

const maxBodyBytes = 1 << 20

// searchQuery holds the raw optional query parameters of GET /search.
type searchQuery struct {
	Query   *string
	Page    *int
	Size    *int
	Sources *[]string
	Index   *string
	Raw     *bool
}

type searchParams struct {
	Query   string
	Page    int
	Size    int
	Sources []string
	Index   string
	Raw     bool
}

// key identifies the parameters for duplicate suppression within a session.
func (p searchParams) key() string {
	return strings.Join([]string{
		p.Query,
		strconv.Itoa(p.Page),
		strconv.Itoa(p.Size),
		strings.Join(p.Sources, ","),
		p.Index,
	}, "\x1f")
}

// queryParam pairs a parameter name with a pointer to an optional (pointer) field.
type queryParam struct {
	name string
	dest any
}

func bindQuery(values url.Values, params ...queryParam) error {
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, values, p.dest); err != nil {
			return fmt.Errorf("%w: invalid %s parameter: %w", domain.ErrInvalidRequest, p.name, err)
		}
	}
	return nil
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var q searchQuery
	if err := bindQuery(r.URL.Query(),
		queryParam{"q", &q.Query},
		queryParam{"page", &q.Page},
		queryParam{"size", &q.Size},
		queryParam{"source", &q.Sources},
		queryParam{"index", &q.Index},
		queryParam{"raw", &q.Raw},
	); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	p := searchParams{
		Query:   deref(q.Query),
		Page:    deref(q.Page),
		Size:    deref(q.Size),
		Sources: deref(q.Sources),
		Index:   deref(q.Index),
		Raw:     deref(q.Raw),
	}

	state, sel, err := s.searchState(p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	session := r.Header.Get(SessionHeader)
	ctx := observe.ContextWithSession(r.Context(), session)

	run := func(ctx context.Context) (result.Response, error) {
		if p.Index == "" {
			return s.search.Execute(ctx, state)
		}
		return s.search.ExecuteIn(ctx, state, sel)
	}

	var resp result.Response
	if session != "" {
		resp, err = supersede.Run(ctx, s.searchSlots.Slot(session), p.key(), run)
	} else {
		resp, err = run(ctx)
	}
	if err != nil {
		err = normalizeCancel(err)
		if errors.Is(err, supersede.ErrSuperseded) {
			s.sink.RecordSpan(r.Context(), observe.Span{
				Operation: searchuc.OpExecute,
				Index:     p.Index,
				Query:     p.Query,
				Outcome:   observe.OutcomeSuperseded,
			})
		}
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(resp, p.Raw))
}

func (s *Server) searchState(p searchParams) (request.State, index.Selection, error) {
	if p.Page < 0 || p.Size < 0 {
		return request.State{}, "", fmt.Errorf("%w: page and size must not be negative", domain.ErrInvalidRequest)
	}
	size := p.Size
	if size == 0 {
		size = s.opts.DefaultPageSize
	}
	if size > s.opts.MaxPageSize {
		return request.State{}, "", fmt.Errorf("%w: size exceeds %d", domain.ErrInvalidRequest, s.opts.MaxPageSize)
	}

	filters, err := filter.NewSet(p.Sources)
	if err != nil {
		return request.State{}, "", fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	var sel index.Selection
	if p.Index != "" {
		if sel, err = index.Parse(p.Index); err != nil {
			return request.State{}, "", fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
	}

	// request.New reports its own failures as ErrInvalidRequest.
	state, err := request.New(p.Query, p.Page, size, filters, "")
	if err != nil {
		return request.State{}, "", err
	}
	return state, sel, nil
}

// Suggest handles GET /suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := bindQuery(r.URL.Query(), queryParam{"q", &q}); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	prefix := deref(q)

	suggestions, err := s.search.Suggest(r.Context(), prefix)
	if err != nil {
		s.handleDomainError(w, r, normalizeCancel(err))
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, suggestResponse{Query: prefix, Suggestions: suggestions})
}

// Summarize handles POST /summary.
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	if s.summary == nil {
		writeError(w, http.StatusServiceUnavailable, CodeSummaryDisabled, "summaries are disabled")
		return
	}

	var req summaryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	results := make([]result.Result, len(req.Results))
	for i, d := range req.Results {
		results[i] = resultFromDTO(d)
	}

	run := func(ctx context.Context) (summaryuc.Summary, error) {
		return s.summary.Summarize(ctx, req.Query, results)
	}

	var (
		sum summaryuc.Summary
		err error
	)
	if req.Session != "" {
		sum, err = supersede.Run(r.Context(), s.summarySlots.Slot(req.Session), strings.TrimSpace(req.Query), run)
	} else {
		sum, err = run(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, r, normalizeCancel(err))
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse(sum))
}

// TrackClick handles POST /events/click.
func (s *Server) TrackClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" || req.DocID == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query and document_id are required")
		return
	}
	if req.Position < 1 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "position must be 1 or greater")
		return
	}

	if s.clicks != nil {
		ctx := observe.ContextWithSession(r.Context(), r.Header.Get(SessionHeader))
		s.clicks.TrackClick(ctx, req.Query, req.DocID, req.Index, req.URL, req.Position)
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetSettings handles GET /settings.
func (s *Server) GetSettings(w http.ResponseWriter, _ *http.Request) {
	s.writeSettings(w)
}

// SetIndex handles PUT /settings/index.
func (s *Server) SetIndex(w http.ResponseWriter, r *http.Request) {
	var req indexSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sel, err := index.Parse(req.Index)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	if err := s.search.SetSelectedIndex(sel); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSettings(w)
}

// SetMode handles PUT /settings/mode.
func (s *Server) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := mode.Parse(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	if err := s.search.SetSearchMode(m); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSettings(w)
}

func (s *Server) writeSettings(w http.ResponseWriter) {
	sel, m := s.search.Settings()
	writeJSON(w, http.StatusOK, settingsResponse{Index: string(sel), Mode: string(m)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// normalizeCancel folds a raw context cancellation into domain.ErrCanceled.
func normalizeCancel(err error) error {
	if errors.Is(err, context.Canceled) && !domain.IsCanceled(err) {
		return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
	}
	return err
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
