package result

// Source holds the optional document fields a hit may carry.
type Source struct {
	Title         *string
	BodyContent   *string
	URL           *string
	MetaKeywords  *string
	LastCrawledAt *string
	Domains       []string
	URLHost       *string
}

// Result is a single normalized search hit.
type Result struct {
	id          string
	sourceIndex string
	score       *float64
	source      Source
}

// New creates a search result.
func New(id, sourceIndex string, score *float64, source Source) Result {
	return Result{id: id, sourceIndex: sourceIndex, score: score, source: source}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// SourceIndex returns the concrete index the hit came from.
func (r *Result) SourceIndex() string { return r.sourceIndex }

// Score returns the backend relevance score, nil when the backend sent none.
func (r *Result) Score() *float64 { return r.score }

// Title returns the page title.
func (r *Result) Title() *string { return r.source.Title }

// BodyContent returns the crawled body text.
func (r *Result) BodyContent() *string { return r.source.BodyContent }

// URL returns the page URL.
func (r *Result) URL() *string { return r.source.URL }

// MetaKeywords returns the page meta keywords.
func (r *Result) MetaKeywords() *string { return r.source.MetaKeywords }

// LastCrawledAt returns the crawl timestamp as sent by the backend.
func (r *Result) LastCrawledAt() *string { return r.source.LastCrawledAt }

// Domains returns the crawler domains the page belongs to.
func (r *Result) Domains() []string { return r.source.Domains }

// URLHost returns the page hostname.
func (r *Result) URLHost() *string { return r.source.URLHost }

// TitleOr returns the title or fallback when absent or empty.
func (r *Result) TitleOr(fallback string) string {
	if r.source.Title == nil || *r.source.Title == "" {
		return fallback
	}
	return *r.source.Title
}

// URLOr returns the URL or fallback when absent.
func (r *Result) URLOr(fallback string) string {
	if r.source.URL == nil {
		return fallback
	}
	return *r.source.URL
}

// BodyOr returns the body text or fallback when absent.
func (r *Result) BodyOr(fallback string) string {
	if r.source.BodyContent == nil {
		return fallback
	}
	return *r.source.BodyContent
}
