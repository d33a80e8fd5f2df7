package search

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/result"
)

type searchResponseDTO struct {
	Hits *hitsDTO `json:"hits"`
}

type hitsDTO struct {
	Hits  []hitDTO  `json:"hits"`
	Total *totalDTO `json:"total"`
}

// totalDTO accepts both {"value": n} and the legacy bare integer.
type totalDTO struct {
	Value int `json:"value"`
}

func (t *totalDTO) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '{' {
		return json.Unmarshal(data, &t.Value)
	}
	type plain totalDTO
	return json.Unmarshal(data, (*plain)(t))
}

type hitDTO struct {
	ID     string    `json:"_id"`
	Index  string    `json:"_index"`
	Score  *float64  `json:"_score"`
	Source sourceDTO `json:"_source"`
}

type sourceDTO struct {
	Title         *string     `json:"title"`
	BodyContent   *string     `json:"body_content"`
	URL           *string     `json:"url"`
	MetaKeywords  *flexString `json:"meta_keywords"`
	LastCrawledAt *string     `json:"last_crawled_at"`
	Domains       flexStrings `json:"domains"`
	URLHost       *string     `json:"url_host"`
}

// flexString accepts a string or an array of strings (joined with ", ").
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*f = flexString(strings.Join(parts, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexString(s)
	return nil
}

// flexStrings accepts an array of strings or a single string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexStrings{s}
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*f = parts
	return nil
}

func (h *hitDTO) toResult() result.Result {
	src := result.Source{
		Title:         h.Source.Title,
		BodyContent:   h.Source.BodyContent,
		URL:           h.Source.URL,
		LastCrawledAt: h.Source.LastCrawledAt,
		Domains:       h.Source.Domains,
		URLHost:       h.Source.URLHost,
	}
	if h.Source.MetaKeywords != nil {
		kw := string(*h.Source.MetaKeywords)
		src.MetaKeywords = &kw
	}
	return result.New(h.ID, h.Index, h.Score, src)
}

type suggestResponseDTO struct {
	Aggregations *struct {
		Suggestions *struct {
			Buckets []struct {
				Key string `json:"key"`
			} `json:"buckets"`
		} `json:"suggestions"`
	} `json:"aggregations"`
}
