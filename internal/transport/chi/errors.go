package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/domain"
	"github.com/kailas-cloud/hybridsearch/internal/usecase/supersede"
)

// StatusClientClosedRequest is the nginx convention for a request the client abandoned.
const StatusClientClosedRequest = 499

// ErrorCode is the machine-readable error identifier in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeUnsupportedMode      ErrorCode = "unsupported_mode"
	CodeNothingToSummarize   ErrorCode = "nothing_to_summarize"
	CodeRateLimited          ErrorCode = "rate_limited"
	CodeSearchBackendError   ErrorCode = "search_backend_error"
	CodeSummaryProviderError ErrorCode = "summary_provider_error"
	CodeSummaryDisabled      ErrorCode = "summary_disabled"
	CodeSuperseded           ErrorCode = "superseded"
	CodeCanceled             ErrorCode = "canceled"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		supersede.ErrSuperseded,
		domain.ErrCanceled,
		domain.ErrInvalidRequest,
		domain.ErrUnsupportedMode,
		domain.ErrNothingToSummarize,
		domain.ErrRateLimited,
		domain.ErrMalformedResponse,
		domain.ErrSearchBackend,
		domain.ErrSummaryProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler echoes validation details, which never carry backend internals.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
	return true
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(supersede.ErrSuperseded, http.StatusConflict, CodeSuperseded),
		sentinelHandler(domain.ErrCanceled, StatusClientClosedRequest, CodeCanceled),
		invalidRequestHandler,
		sentinelHandler(domain.ErrUnsupportedMode, http.StatusUnprocessableEntity, CodeUnsupportedMode),
		sentinelHandler(domain.ErrNothingToSummarize, http.StatusUnprocessableEntity, CodeNothingToSummarize),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrSearchBackend, http.StatusBadGateway, CodeSearchBackendError),
		sentinelHandler(domain.ErrSummaryProvider, http.StatusBadGateway, CodeSummaryProviderError),
	}
}

// isSilent reports errors that end a request without being a failure.
func isSilent(err error) bool {
	return errors.Is(err, supersede.ErrSuperseded) || domain.IsCanceled(err)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := loggerFrom(r, s.logger)
	if isSilent(err) {
		log.Debug("request ended early", zap.Error(err))
	} else {
		log.Warn("domain error", zap.Error(err))
	}
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
