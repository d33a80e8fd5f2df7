package hybridsearch

import (
	"encoding/json"

	"github.com/kailas-cloud/hybridsearch/internal/observe"
)

// IndexSelection chooses the corpus to search.
type IndexSelection string

// Index selection constants.
const (
	IndexBoth IndexSelection = "both"
	IndexMain IndexSelection = "main"
	IndexNews IndexSelection = "news"
)

// SearchMode controls the retrieval strategy.
type SearchMode string

// Search mode constants. ModeText parses but is rejected with ErrUnsupportedMode.
const (
	ModeELSER SearchMode = "elser"
	ModeText  SearchMode = "text"
)

// SearchState is one search invocation.
// Current is 1-based; zero values fall back to page 1 and 10 results per page.
type SearchState struct {
	Term           string
	Current        int
	ResultsPerPage int
	SourceHosts    []string // url_host inclusion list, empty means no filter
	RequestID      string   // generated when empty
}

// Result is a normalized search hit. Optional fields are nil when absent.
type Result struct {
	ID             string   `json:"id"`
	Title          *string  `json:"title"`
	BodyContent    *string  `json:"body_content"`
	URL            *string  `json:"url"`
	MetaKeywords   *string  `json:"meta_keywords"`
	LastCrawledAt  *string  `json:"last_crawled_at"`
	Domains        []string `json:"domains"`
	URLHost        *string  `json:"url_host"`
	SourceIndex    string   `json:"source_index"`
	RelevanceScore *float64 `json:"relevance_score"`
}

// Response is the outcome of one search.
type Response struct {
	Results          []Result
	TotalResults     int
	TotalPages       int
	PagingStart      int
	PagingEnd        int
	WasSearched      bool
	RequestID        string
	ResultSearchTerm string
	RawResponse      json.RawMessage // nil when no backend call was made
}

// Sink receives one span per operation and one report per failure.
type Sink = observe.Sink

// Span describes one finished operation.
type Span = observe.Span

// Outcome classifies how an operation ended.
type Outcome = observe.Outcome

// Span outcomes.
const (
	OutcomeOK         = observe.OutcomeOK
	OutcomeError      = observe.OutcomeError
	OutcomeCanceled   = observe.OutcomeCanceled
	OutcomeSuperseded = observe.OutcomeSuperseded
)
