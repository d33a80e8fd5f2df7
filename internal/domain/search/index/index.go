// Package index maps the user-facing corpus selection onto concrete
// Elasticsearch index names.
package index

import "fmt"

// Selection is the corpus the user chose to search.
type Selection string

// Selection constants.
const (
	Both Selection = "both"
	Main Selection = "main"
	News Selection = "news"
)

// Default index names for the university deployment.
const (
	DefaultCombined = "search-emory-combined"
	DefaultMain     = "search-emory-main-v2"
	DefaultNews     = "search-emory-news-v2"
)

// IsValid checks if the selection is one of the supported values.
func (s Selection) IsValid() bool {
	return s == Both || s == Main || s == News
}

// Parse converts user input into a Selection. Empty input yields Both.
func Parse(s string) (Selection, error) {
	if s == "" {
		return Both, nil
	}
	sel := Selection(s)
	if !sel.IsValid() {
		return "", fmt.Errorf("invalid index selection: %q", s)
	}
	return sel, nil
}

// Resolver is a static selection -> index name table.
type Resolver struct {
	names map[Selection]string
}

// NewResolver builds the lookup table. Empty names fall back to the defaults.
func NewResolver(combined, main, news string) Resolver {
	if combined == "" {
		combined = DefaultCombined
	}
	if main == "" {
		main = DefaultMain
	}
	if news == "" {
		news = DefaultNews
	}
	return Resolver{names: map[Selection]string{
		Both: combined,
		Main: main,
		News: news,
	}}
}

// Resolve returns the index name for a selection.
// Unknown selections resolve to the combined index.
func (r Resolver) Resolve(sel Selection) string {
	if name, ok := r.names[sel]; ok {
		return name
	}
	return r.Combined()
}

// Combined returns the combined index name.
func (r Resolver) Combined() string {
	if name, ok := r.names[Both]; ok {
		return name
	}
	return DefaultCombined
}
