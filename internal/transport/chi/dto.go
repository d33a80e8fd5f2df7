package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
	summaryuc "github.com/kailas-cloud/hybridsearch/internal/usecase/summary"
)

type resultDTO struct {
	ID             string   `json:"id"`
	Title          *string  `json:"title"`
	BodyContent    *string  `json:"body_content"`
	URL            *string  `json:"url"`
	MetaKeywords   *string  `json:"meta_keywords"`
	LastCrawledAt  *string  `json:"last_crawled_at"`
	Domains        []string `json:"domains"`
	URLHost        *string  `json:"url_host"`
	SourceIndex    string   `json:"source_index,omitempty"`
	RelevanceScore *float64 `json:"relevance_score"`
}

type searchResponse struct {
	Results          []resultDTO     `json:"results"`
	TotalResults     int             `json:"total_results"`
	TotalPages       int             `json:"total_pages"`
	PagingStart      int             `json:"paging_start"`
	PagingEnd        int             `json:"paging_end"`
	WasSearched      bool            `json:"was_searched"`
	RequestID        string          `json:"request_id"`
	ResultSearchTerm string          `json:"result_search_term"`
	RawResponse      json.RawMessage `json:"raw_response,omitempty"`
}

type suggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type summaryRequest struct {
	Query   string      `json:"query"`
	Session string      `json:"session,omitempty"`
	Results []resultDTO `json:"results"`
}

type summaryResponse = summaryuc.Summary

type clickRequest struct {
	Query    string `json:"query"`
	DocID    string `json:"document_id"`
	Index    string `json:"index"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type indexSettingRequest struct {
	Index string `json:"index"`
}

type modeSettingRequest struct {
	Mode string `json:"mode"`
}

type settingsResponse struct {
	Index string `json:"index"`
	Mode  string `json:"mode"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToDTO(r *result.Result) resultDTO {
	return resultDTO{
		ID:             r.ID(),
		Title:          r.Title(),
		BodyContent:    r.BodyContent(),
		URL:            r.URL(),
		MetaKeywords:   r.MetaKeywords(),
		LastCrawledAt:  r.LastCrawledAt(),
		Domains:        r.Domains(),
		URLHost:        r.URLHost(),
		SourceIndex:    r.SourceIndex(),
		RelevanceScore: r.Score(),
	}
}

func resultFromDTO(d resultDTO) result.Result {
	return result.New(d.ID, d.SourceIndex, d.RelevanceScore, result.Source{
		Title:         d.Title,
		BodyContent:   d.BodyContent,
		URL:           d.URL,
		MetaKeywords:  d.MetaKeywords,
		LastCrawledAt: d.LastCrawledAt,
		Domains:       d.Domains,
		URLHost:       d.URLHost,
	})
}

func searchResponseToDTO(resp result.Response, includeRaw bool) searchResponse {
	items := make([]resultDTO, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToDTO(&resp.Results[i])
	}
	out := searchResponse{
		Results:          items,
		TotalResults:     resp.TotalResults,
		TotalPages:       resp.TotalPages,
		PagingStart:      resp.PagingStart,
		PagingEnd:        resp.PagingEnd,
		WasSearched:      resp.WasSearched,
		RequestID:        resp.RequestID,
		ResultSearchTerm: resp.ResultSearchTerm,
	}
	if includeRaw && json.Valid(resp.RawResponse) {
		out.RawResponse = resp.RawResponse
	}
	return out
}
