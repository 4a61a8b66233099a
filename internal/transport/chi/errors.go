package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// ErrorCode is the machine-readable error code of an API response.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeInvalidQuery       ErrorCode = "invalid_query"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeNotFound           ErrorCode = "not_found"
	CodeAlreadyExists      ErrorCode = "already_exists"
	CodeCorpusNotLoaded    ErrorCode = "corpus_not_loaded"
	CodeEmptyCorpus        ErrorCode = "empty_corpus"
	CodeQuotaExceeded      ErrorCode = "llm_quota_exceeded"
	CodeProviderError      ErrorCode = "llm_provider_error"
	CodeNotConfigured      ErrorCode = "not_configured"
	CodeRateLimited        ErrorCode = "rate_limited"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		detailHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		detailHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials),
		sentinelHandler(domain.ErrCorpusNotLoaded, http.StatusServiceUnavailable, CodeCorpusNotLoaded),
		sentinelHandler(domain.ErrEmptyCorpus, http.StatusUnprocessableEntity, CodeEmptyCorpus),
		sentinelHandler(domain.ErrLLMQuotaExceeded, http.StatusTooManyRequests, CodeQuotaExceeded),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrNotConfigured, http.StatusNotImplemented, CodeNotConfigured),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidCredentials,
		domain.ErrCorpusNotLoaded,
		domain.ErrEmptyCorpus,
		domain.ErrLLMQuotaExceeded,
		domain.ErrLLMProviderError,
		domain.ErrNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailHandler exposes the full error text; input errors are built from user data only.
func detailHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
