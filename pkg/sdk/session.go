package hybridsearch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	searchuc "github.com/kailas-cloud/hybridsearch/internal/usecase/search"
	"github.com/kailas-cloud/hybridsearch/internal/usecase/supersede"
)

// Session applies last-request-wins to a stream of searches from one user.
// A new Search cancels the one in flight; the replaced call returns
// ErrSuperseded. An identical search submitted while the first is still
// running shares its result.
type Session struct {
	client *Client
	slot   *supersede.Slot
}

// NewSession creates a session. A positive debounce delays each search and
// drops it if another arrives within the window.
func (c *Client) NewSession(debounce time.Duration) *Session {
	return &Session{client: c, slot: supersede.New(debounce)}
}

// Search runs state unless a newer search replaces it first.
func (s *Session) Search(ctx context.Context, state SearchState) (Response, error) {
	resp, err := supersede.Run(ctx, s.slot, stateKey(state), func(ctx context.Context) (Response, error) {
		return s.client.Search(ctx, state)
	})
	if errors.Is(err, supersede.ErrSuperseded) {
		s.client.sink.RecordSpan(ctx, Span{
			Operation: searchuc.OpExecute,
			Query:     state.Term,
			Outcome:   OutcomeSuperseded,
		})
	}
	if err != nil {
		return Response{}, fmt.Errorf("session: %w", err)
	}
	return resp, nil
}

// Cancel aborts the search in flight, if any.
func (s *Session) Cancel() {
	s.slot.Cancel()
}

func stateKey(s SearchState) string {
	return strings.Join([]string{
		s.Term,
		strconv.Itoa(s.Current),
		strconv.Itoa(s.ResultsPerPage),
		strings.Join(s.SourceHosts, ","),
	}, "\x1f")
}
