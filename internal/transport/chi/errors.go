package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	logpkg "github.com/OmarAli141/resumes-comparison/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		backendUnavailableHandler,
		sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, codeConfiguration),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRetrieval, http.StatusBadGateway, codeRetrievalFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrExpansionProviderError, http.StatusBadGateway, codeExpansionError),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client message without exposing internals.
// Configuration errors name the offending field, which is safe to echo.
func safeDomainMessage(err error) string {
	var ce *domain.ConfigurationError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrVectorDimMismatch,
		domain.ErrNotFound,
		domain.ErrBackendUnavailable,
		domain.ErrRetrieval,
		domain.ErrEmbeddingProviderError,
		domain.ErrExpansionProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// backendUnavailableHandler reports which backend failed.
func backendUnavailableHandler(w http.ResponseWriter, err error, msg string) bool {
	var be *domain.BackendUnavailableError
	if !errors.As(err, &be) {
		return false
	}
	writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Code:    codeBackendUnavailable,
		Message: msg,
		Backend: be.Backend,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	logpkg.Annotate(r.Context(), zap.String("error", err.Error()))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
