package search

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/hybridsearch/internal/domain/search/filter"
)

// Query DSL defaults for the crawler-built university indexes.
const (
	DefaultSemanticField  = "emory_main_semantic_text"
	DefaultInferenceID    = ".elser-2-elasticsearch"
	multiMatchBestFields  = "best_fields"
	multiMatchBoolPrefix  = "bool_prefix"
	suggestionAggregation = "suggestions"
	suggestionTermField   = "title.keyword"
	suggestionSize        = 3
)

// DefaultLexicalFields are the multi_match fields; title counts double.
var DefaultLexicalFields = []string{"title^2", "headings", "body_content", "meta_description"}

var suggestFields = []string{"suggest_title", "suggest_title._2gram", "suggest_title._3gram"}

// QueryConfig names the fields and model the hybrid query targets.
type QueryConfig struct {
	LexicalFields []string
	SemanticField string
	InferenceID   string
}

// withDefaults fills empty settings.
func (c QueryConfig) withDefaults() QueryConfig {
	if len(c.LexicalFields) == 0 {
		c.LexicalFields = DefaultLexicalFields
	}
	if c.SemanticField == "" {
		c.SemanticField = DefaultSemanticField
	}
	if c.InferenceID == "" {
		c.InferenceID = DefaultInferenceID
	}
	return c
}

type searchBody struct {
	Query clause `json:"query"`
	Size  int    `json:"size"`
	From  int    `json:"from"`
}

type suggestBody struct {
	Size  int                    `json:"size"`
	Query clause                 `json:"query"`
	Aggs  map[string]aggregation `json:"aggs"`
}

// clause is one Query DSL node; exactly one field is set.
type clause struct {
	Bool         *boolClause         `json:"bool,omitempty"`
	MultiMatch   *multiMatchClause   `json:"multi_match,omitempty"`
	SparseVector *sparseVectorClause `json:"sparse_vector,omitempty"`
	Terms        map[string][]string `json:"terms,omitempty"`
}

type boolClause struct {
	Must   []clause `json:"must,omitempty"`
	Should []clause `json:"should,omitempty"`
	Filter []clause `json:"filter,omitempty"`
}

type multiMatchClause struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
	Type   string   `json:"type"`
}

type sparseVectorClause struct {
	Field       string `json:"field"`
	InferenceID string `json:"inference_id"`
	Query       string `json:"query"`
}

type aggregation struct {
	Terms *termsAggregation `json:"terms,omitempty"`
}

type termsAggregation struct {
	Field string `json:"field"`
	Size  int    `json:"size"`
}

// buildHybridQuery builds the lexical + ELSER query.
// Either branch may match; matching neither excludes the document.
// Filters are non-scoring and omitted entirely when the set is empty.
func buildHybridQuery(cfg QueryConfig, term string, filters filter.Set, size, from int) ([]byte, error) {
	cfg = cfg.withDefaults()
	if from < 0 {
		from = 0
	}

	combinator := clause{Bool: &boolClause{Should: []clause{
		{MultiMatch: &multiMatchClause{
			Query:  term,
			Fields: cfg.LexicalFields,
			Type:   multiMatchBestFields,
		}},
		{SparseVector: &sparseVectorClause{
			Field:       cfg.SemanticField,
			InferenceID: cfg.InferenceID,
			Query:       term,
		}},
	}}}

	body := searchBody{
		Query: clause{Bool: &boolClause{
			Must:   []clause{combinator},
			Filter: buildFilters(filters),
		}},
		Size: size,
		From: from,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}
	return data, nil
}

func buildFilters(filters filter.Set) []clause {
	if filters.IsEmpty() {
		return nil
	}
	return []clause{{Terms: map[string][]string{filter.SourceField: filters.SourceHosts()}}}
}

// buildSuggestQuery builds the search-as-you-type title suggestion query.
func buildSuggestQuery(prefix string) ([]byte, error) {
	body := suggestBody{
		Size: 0,
		Query: clause{MultiMatch: &multiMatchClause{
			Query:  prefix,
			Fields: suggestFields,
			Type:   multiMatchBoolPrefix,
		}},
		Aggs: map[string]aggregation{
			suggestionAggregation: {Terms: &termsAggregation{
				Field: suggestionTermField,
				Size:  suggestionSize,
			}},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal suggest body: %w", err)
	}
	return data, nil
}
