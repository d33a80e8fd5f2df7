package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hybridsearch "github.com/kailas-cloud/hybridsearch/pkg/sdk"
)

var (
	searchIndex   string
	searchPage    int
	searchSize    int
	searchSources []string
	searchRaw     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a hybrid search",
	Long: `Runs one hybrid search (lexical multi_match + ELSER sparse vector)
and prints the paged response as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchIndex, "index", "both", "corpus to search: both, main or news")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "1-based page number")
	searchCmd.Flags().IntVarP(&searchSize, "size", "n", 10, "results per page")
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict to these url hosts (repeatable)")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "include the raw backend response")
	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	TotalResults int                   `json:"total_results"`
	TotalPages   int                   `json:"total_pages"`
	PagingStart  int                   `json:"paging_start"`
	PagingEnd    int                   `json:"paging_end"`
	RequestID    string                `json:"request_id"`
	Term         string                `json:"result_search_term"`
	Results      []hybridsearch.Result `json:"results"`
	Raw          any                   `json:"raw_response,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.SetSelectedIndex(hybridsearch.IndexSelection(searchIndex)); err != nil {
		return err
	}

	resp, err := client.Search(cmd.Context(), hybridsearch.SearchState{
		Term:           args[0],
		Current:        searchPage,
		ResultsPerPage: searchSize,
		SourceHosts:    searchSources,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := searchOutput{
		TotalResults: resp.TotalResults,
		TotalPages:   resp.TotalPages,
		PagingStart:  resp.PagingStart,
		PagingEnd:    resp.PagingEnd,
		RequestID:    resp.RequestID,
		Term:         resp.ResultSearchTerm,
		Results:      resp.Results,
	}
	if searchRaw && len(resp.RawResponse) > 0 {
		out.Raw = resp.RawResponse
	}
	return printJSON(cmd, out)
}
