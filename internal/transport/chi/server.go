package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
	logpkg "github.com/willianpinho/document-management-system-sub001/internal/logger"
	healthuc "github.com/willianpinho/document-management-system-sub001/internal/usecase/health"
)

// EmbeddingTokensHeader reports embedding tokens consumed by a request.
const EmbeddingTokensHeader = "X-Embedding-Tokens"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

type searchFunc func(ctx context.Context, req *request.Request) (result.Response, error)

// Server serves the search API.
type Server struct {
	search        Searcher
	indexer       Indexer
	health        HealthChecker
	defaults      request.Defaults
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. defaults fill in omitted search parameters.
func NewServer(search Searcher, indexer Indexer, health HealthChecker, defaults request.Defaults) *Server {
	return &Server{
		search:   search,
		indexer:  indexer,
		health:   health,
		defaults: defaults,
		errorHandlers: []errorHandler{
			validationHandler,
			sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorCodeValidationFailed),
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
			sentinelHandler(domain.ErrEmptyInput, http.StatusUnprocessableEntity, ErrorCodeUnprocessable),
			sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, ErrorCodeUnavailable),
		},
	}
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.search.Search)
}

// SemanticSearch handles GET /v1/search/semantic.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.search.SemanticSearch)
}

// HybridSearch handles GET /v1/search/hybrid.
func (s *Server) HybridSearch(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, s.search.HybridSearch)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, fn searchFunc) {
	req, err := parseSearchRequest(r, s.defaults)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := fn(ctx, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponseFromDomain(resp))
}

// Suggest handles GET /v1/search/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	orgID, err := organizationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var (
		prefix   string
		scopeRaw *string
		limit    *int
	)
	err = bindQuery(r.URL.Query(),
		queryBinding{"q", true, &prefix},
		queryBinding{"scope", false, &scopeRaw},
		queryBinding{"limit", false, &limit},
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	scope, err := suggestion.ParseScope(deref(scopeRaw))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out, err := s.search.Suggest(r.Context(), orgID, prefix, scope, deref(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponseFromDomain(out))
}

// IndexDocument handles POST /v1/documents/{id}/embedding.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	orgID, err := organizationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var documentID string
	err = runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &documentID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		s.handleDomainError(w, r, &domain.ValidationError{Field: "id", Reason: err.Error()})
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.indexer.IndexDocument(ctx, orgID, documentID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, embeddingResponseFromDomain(res))
}

// HealthCheck handles GET /health. Degraded still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage.Used() {
		w.Header().Set(EmbeddingTokensHeader, strconv.Itoa(usage.TotalTokens()))
	}
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

// validationHandler exposes the field and reason of a validation failure.
func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, ve.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
