// Package hybridsearch provides a Go client for the hybrid lexical + ELSER
// search connector over Elasticsearch.
//
// A Client holds the connector configuration (selected index and search
// mode) and runs one search per call:
//
//	client, _ := hybridsearch.New(
//	    hybridsearch.WithElasticsearch("https://es.example.edu", apiKey, "search-emory-combined"),
//	    hybridsearch.WithLogger(slog.Default()),
//	)
//	resp, _ := client.Search(ctx, hybridsearch.SearchState{Term: "financial aid", Current: 1})
//
// Interactive callers that fire a search per keystroke should go through a
// Session, which cancels the previous call and drops stale results:
//
//	session := client.NewSession(300 * time.Millisecond)
//	resp, err := session.Search(ctx, state)
//	if errors.Is(err, hybridsearch.ErrSuperseded) {
//	    return // a newer search replaced this one
//	}
package hybridsearch
