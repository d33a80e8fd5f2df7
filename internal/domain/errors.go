package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals caller input that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchBackend signals a failed search round trip (transport, status or payload).
	ErrSearchBackend = errors.New("search backend error")
	// ErrMalformedResponse signals a 2xx payload without the expected structure.
	ErrMalformedResponse = errors.New("malformed search response")
	// ErrUnsupportedMode signals a search mode the connector cannot execute.
	ErrUnsupportedMode = errors.New("unsupported search mode")
	// ErrCanceled signals that the caller abandoned the request. Never reported as a failure.
	ErrCanceled = errors.New("request canceled")
	// ErrSummaryProvider signals an inference provider failure.
	ErrSummaryProvider = errors.New("summary provider error")
	// ErrNothingToSummarize signals an empty query or result set passed to the summarizer.
	ErrNothingToSummarize = errors.New("nothing to summarize")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// BackendStatusError carries a non-2xx status and the response body for diagnostics.
type BackendStatusError struct {
	Status int
	Body   string
}

func (e *BackendStatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrSearchBackend.Error(), e.Status, e.Body)
}

func (e *BackendStatusError) Unwrap() error { return ErrSearchBackend }

// NewBackendStatus creates a status error. Bodies are truncated to keep logs bounded.
func NewBackendStatus(status int, body []byte) error {
	const maxBody = 2048
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &BackendStatusError{Status: status, Body: string(body)}
}

// IsCanceled reports whether err represents an abandoned request rather than a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
