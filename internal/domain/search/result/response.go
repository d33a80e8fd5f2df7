package result

// Response is the output of one connector invocation.
type Response struct {
	Results          []Result
	TotalResults     int
	TotalPages       int
	PagingStart      int
	PagingEnd        int
	WasSearched      bool
	RequestID        string
	ResultSearchTerm string
	// RawResponse is the backend payload as received. Nil when no call was made.
	RawResponse []byte
}

// Paging describes the current page window.
type Paging struct {
	TotalPages int
	Start      int
	End        int
}

// ComputePaging derives page metadata. Start and End are 1-based and inclusive;
// all values are zero when total is zero. A page past the last one gets an
// empty window (Start and End zero) while TotalPages still reflects total.
func ComputePaging(total, current, perPage int) Paging {
	if total <= 0 || perPage <= 0 {
		return Paging{}
	}
	if current < 1 {
		current = 1
	}
	pages := (total-1)/perPage + 1
	if current > pages {
		return Paging{TotalPages: pages}
	}
	return Paging{
		TotalPages: pages,
		Start:      (current-1)*perPage + 1,
		End:        min(current*perPage, total),
	}
}

// NewResponse assembles a searched response with paging derived from total.
func NewResponse(
	results []Result, total, current, perPage int,
	requestID, term string, raw []byte,
) Response {
	if results == nil {
		results = []Result{}
	}
	p := ComputePaging(total, current, perPage)
	return Response{
		Results:          results,
		TotalResults:     max(total, 0),
		TotalPages:       p.TotalPages,
		PagingStart:      p.Start,
		PagingEnd:        p.End,
		WasSearched:      true,
		RequestID:        requestID,
		ResultSearchTerm: term,
		RawResponse:      raw,
	}
}

// Empty is the response for a blank term: searched, nothing found, no backend call.
func Empty(requestID, term string) Response {
	return Response{
		Results:          []Result{},
		WasSearched:      true,
		RequestID:        requestID,
		ResultSearchTerm: term,
	}
}

// Hits is one page of backend hits before paging metadata is applied.
type Hits struct {
	Results []Result
	Total   int
	Raw     []byte
}
