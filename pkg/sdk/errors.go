package hybridsearch

import (
	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/usecase/supersede"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrSearchBackend     = domain.ErrSearchBackend
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrUnsupportedMode   = domain.ErrUnsupportedMode
	ErrCanceled          = domain.ErrCanceled
	ErrSuperseded        = supersede.ErrSuperseded
)

// BackendStatusError carries the status code and body of a non-2xx answer.
type BackendStatusError = domain.BackendStatusError
