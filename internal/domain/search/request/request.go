package request

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search term length.
	MaxQueryLength        = 4096
	DefaultResultsPerPage = 10
	MaxResultsPerPage     = 100
	// MaxResultWindow bounds from+size, matching Elasticsearch's
	// index.max_result_window default.
	MaxResultWindow = 10000
)

// State is one UI-level search invocation: term, page and filters.
type State struct {
	term           string
	current        int
	resultsPerPage int
	filters        filter.Set
	requestID      string
}

// New validates and normalizes search parameters.
// Defaults: current=1, resultsPerPage=10, requestID=random UUID.
// A blank term is valid; the connector short-circuits it. Pages whose window
// ends past MaxResultWindow are rejected with domain.ErrInvalidRequest.
func New(term string, current, resultsPerPage int, filters filter.Set, requestID string) (State, error) {
	if len(term) > MaxQueryLength {
		return State{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if current < 1 {
		current = 1
	}
	if resultsPerPage <= 0 {
		resultsPerPage = DefaultResultsPerPage
	}
	if resultsPerPage > MaxResultsPerPage {
		resultsPerPage = MaxResultsPerPage
	}
	// Compared by division so huge pages cannot overflow.
	if current > MaxResultWindow/resultsPerPage {
		return State{}, fmt.Errorf("%w: page %d exceeds the result window (%d results at %d per page)",
			domain.ErrInvalidRequest, current, MaxResultWindow, resultsPerPage)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return State{
		term:           term,
		current:        current,
		resultsPerPage: resultsPerPage,
		filters:        filters,
		requestID:      requestID,
	}, nil
}

// Term returns the raw search term as typed.
func (s *State) Term() string { return s.term }

// TrimmedTerm returns the term without surrounding whitespace.
func (s *State) TrimmedTerm() string { return strings.TrimSpace(s.term) }

// IsBlank reports whether the term is empty or whitespace-only.
func (s *State) IsBlank() bool { return s.TrimmedTerm() == "" }

// Current returns the 1-based page number.
func (s *State) Current() int { return s.current }

// ResultsPerPage returns the page size.
func (s *State) ResultsPerPage() int { return s.resultsPerPage }

// From returns the zero-based offset of the first hit on the current page.
func (s *State) From() int { return (s.current - 1) * s.resultsPerPage }

// Filters returns the caller's filter set.
func (s *State) Filters() filter.Set { return s.filters }

// RequestID returns the opaque correlation token.
func (s *State) RequestID() string { return s.requestID }
