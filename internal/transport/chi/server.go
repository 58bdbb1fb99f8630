// Package chi implements the HTTP transport for the talent search API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/query"
	healthuc "github.com/hireloop/talentsearch/internal/usecase/health"
	searchuc "github.com/hireloop/talentsearch/internal/usecase/search"
)

// Error response codes.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeRateLimited            = "rate_limited"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeRetrievalFailed        = "retrieval_failed"
	codeRerankFailed           = "rerank_failed"
	codeSearchAborted          = "search_aborted"
	codeInternalError          = "internal_error"
)

// statusClientClosedRequest is the nginx convention for a client that went
// away before the response was written.
const statusClientClosedRequest = 499

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search pipeline over HTTP.
type Server struct {
	search         *searchuc.Service
	norm           query.Normalizer
	health         *healthuc.Service
	defaultWeights candidate.Weights
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. defaultWeights apply when a request
// does not override the ranking weights.
func NewServer(
	search *searchuc.Service,
	norm query.Normalizer,
	health *healthuc.Service,
	defaultWeights candidate.Weights,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:         search,
		norm:           norm,
		health:         health,
		defaultWeights: defaultWeights,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrSearchAborted, statusClientClosedRequest, codeSearchAborted),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrRerankFailed, http.StatusBadGateway, codeRerankFailed),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusServiceUnavailable, codeRetrievalFailed),
	}
	return s
}

// Routes mounts the API handlers on a router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/api/v1/search", s.SearchCandidates)
	r.Get("/api/v1/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchCandidates handles POST /api/v1/search.
func (s *Server) SearchCandidates(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeValidationFailed,
			Message: domain.ErrValidation.Error(),
			Fields:  fieldErrorsFromValidator(err),
		})
		return
	}

	params := req.toParams()
	if params.Weights == nil {
		w := s.defaultWeights
		params.Weights = &w
	}

	q, err := query.New(params, s.norm)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToDTO(result))
}

// HealthCheck handles GET /api/v1/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrRateLimited,
		domain.ErrSearchAborted,
		domain.ErrEmbeddingProviderError,
		domain.ErrRerankFailed,
		domain.ErrRetrievalFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles ErrValidation with per-field detail.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeValidationFailed,
			Message: msg,
			Fields:  verr.Fields,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
