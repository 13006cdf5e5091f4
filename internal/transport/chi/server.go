// Package chi exposes the search API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "catalogsearch"

// Searcher runs a product search.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (searchuc.Response, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q        string
	MaxPrice *float64
	MinPrice *float64
	Brand    *string
	Category *string
	Size     *int
}

// Server handles the HTTP API.
type Server struct {
	search      Searcher
	health      HealthChecker
	defaultSize int
	logger      *zap.Logger
}

// NewServer creates an HTTP API server. defaultSize applies when the size parameter is absent.
func NewServer(search Searcher, health HealthChecker, defaultSize int, logger *zap.Logger) *Server {
	if defaultSize <= 0 {
		defaultSize = request.DefaultSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, defaultSize: defaultSize, logger: logger}
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	size := s.defaultSize
	if params.Size != nil {
		size = *params.Size
	}
	req, err := request.New(params.Q, deref(params.Brand), deref(params.Category),
		params.MinPrice, params.MaxPrice, size)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponseFrom(params, resp))
}

// HealthCheck handles GET /health.
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
		Status:    string(report.Status),
		Service:   ServiceName,
		Version:   version.Version,
		Checks:    checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearchParams decodes the query string with form/explode semantics.
func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "q", q, &p.Q); err != nil {
		return SearchParams{}, paramError("q", err)
	}
	optional := []struct {
		name string
		dest any
	}{
		{"max_price", &p.MaxPrice},
		{"min_price", &p.MinPrice},
		{"brand", &p.Brand},
		{"category", &p.Category},
		{"size", &p.Size},
	}
	for _, o := range optional {
		if err := runtime.BindQueryParameter("form", true, false, o.name, q, o.dest); err != nil {
			return SearchParams{}, paramError(o.name, err)
		}
	}
	return p, nil
}

type invalidParamError struct {
	name string
	err  error
}

func (e *invalidParamError) Error() string { return "invalid parameter " + e.name }

func (e *invalidParamError) Unwrap() error { return e.err }

func paramError(name string, err error) error {
	return &invalidParamError{name: name, err: err}
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// handleDomainError maps domain errors to HTTP statuses. Upstream details stay in logs.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, codeValidationFailed, ve.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationFailed, domain.ErrValidation.Error())
	case errors.Is(err, domain.ErrUpstreamTimeout):
		log.Warn("upstream timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, codeUpstreamTimeout, domain.ErrUpstreamTimeout.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn("upstream unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeUpstreamUnavailable, upstreamMessage(err))
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func upstreamMessage(err error) string {
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		return ue.Upstream + " service unavailable"
	}
	return domain.ErrUpstreamUnavailable.Error()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
