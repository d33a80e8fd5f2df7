package summary

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
)

const untitled = "Untitled"

// Source is one search result quoted in the prompt.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// BuildSources takes the first top results and cuts each body to snippetLen runes.
func BuildSources(results []result.Result, top, snippetLen int) []Source {
	if len(results) > top {
		results = results[:top]
	}
	sources := make([]Source, len(results))
	for i := range results {
		r := &results[i]
		sources[i] = Source{
			Title:   r.TitleOr(untitled),
			URL:     r.URLOr(""),
			Snippet: truncateRunes(r.BodyOr(""), snippetLen),
		}
	}
	return sources
}

// BuildPrompt renders the chat instruction for query over sources.
func BuildPrompt(query string, sources []Source) string {
	blocks := make([]string, len(sources))
	for i, s := range sources {
		blocks[i] = fmt.Sprintf("[%d] %s\n%s...", i+1, s.Title, s.Snippet)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following search results about \"%s\" from Emory University, "+
		"provide a concise summary that answers the user's question.\n\n", query)
	b.WriteString("Search Results:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	fmt.Fprintf(&b, "\n\nPlease provide a clear, informative summary that synthesizes the information "+
		"from these sources. Focus on answering what someone searching for \"%s\" would want to know "+
		"about Emory University.", query)
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
