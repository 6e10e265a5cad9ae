package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vector-catalog/gateway/internal/domain"
	healthuc "github.com/vector-catalog/gateway/internal/usecase/health"
)

// SearchService is the consumer interface over the search orchestrator.
type SearchService interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
	Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error)
	Reload(ctx context.Context, shardKey string) (domain.ReloadResult, error)
}

// HealthService reports liveness and readiness.
type HealthService interface {
	Live() healthuc.Report
	Ready(ctx context.Context) healthuc.Report
}

// Limiter admits or rejects requests before any work begins.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Server is the HTTP API surface of the gateway.
type Server struct {
	search  SearchService
	health  HealthService
	limiter Limiter

	defaultTopK   int
	defaultNprobe int

	logger *zap.Logger
}

// Config wires the server's collaborators and request defaults.
type Config struct {
	Search        SearchService
	Health        HealthService
	Limiter       Limiter
	DefaultTopK   int
	DefaultNprobe int
	Logger        *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(cfg Config) *Server {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 10
	}
	if cfg.DefaultNprobe <= 0 {
		cfg.DefaultNprobe = 10
	}
	return &Server{
		search:        cfg.Search,
		health:        cfg.Health,
		limiter:       cfg.Limiter,
		defaultTopK:   cfg.DefaultTopK,
		defaultNprobe: cfg.DefaultNprobe,
		logger:        cfg.Logger,
	}
}

// Routes registers all endpoint handlers.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/index/info", s.IndexInfo)
		r.Post("/index/reload", s.IndexReload)
	})
	r.Get("/health/live", s.HealthLive)
	r.Get("/health/ready", s.HealthReady)
	r.Get("/metrics", s.Metrics)
}

type searchRequestBody struct {
	Query    string `json:"query"`
	TopK     *int   `json:"topK"`
	ShardKey string `json:"shardKey"`
	Nprobe   *int   `json:"nprobe"`
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, r, http.StatusBadRequest, problemValidation,
			"Invalid request body", err.Error())
		return
	}

	req := domain.SearchRequest{
		Query:    body.Query,
		TopK:     s.defaultTopK,
		ShardKey: body.ShardKey,
		Nprobe:   s.defaultNprobe,
	}
	if body.TopK != nil {
		req.TopK = *body.TopK
	}
	if body.Nprobe != nil {
		req.Nprobe = *body.Nprobe
	}
	if err := req.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// IndexInfo handles GET /api/v1/index/info.
func (s *Server) IndexInfo(w http.ResponseWriter, r *http.Request) {
	shards, err := s.search.Info(r.Context(), r.URL.Query().Get("shardKey"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if shards == nil {
		shards = []domain.ShardDescriptor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"shards": shards})
}

// IndexReload handles POST /api/v1/index/reload.
func (s *Server) IndexReload(w http.ResponseWriter, r *http.Request) {
	result, err := s.search.Reload(r.Context(), r.URL.Query().Get("shardKey"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HealthLive handles GET /health/live.
func (s *Server) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, s.health.Live())
}

// HealthReady handles GET /health/ready.
func (s *Server) HealthReady(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, s.health.Ready(r.Context()))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeHealth(w http.ResponseWriter, report healthuc.Report) {
	httpStatus := http.StatusOK
	if !report.Healthy() {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// writeDomainError maps pipeline errors onto problem responses. Anticipated
// failures never map to 500.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, http.StatusBadRequest, problemValidation,
			"Request validation failed", verr.Field+": "+verr.Reason)
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, r, http.StatusBadRequest, problemValidation,
			"Request validation failed", err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeProblem(w, r, http.StatusTooManyRequests, problemRateLimited,
			"Too many requests", "rate limit exceeded, retry later")
	case errors.Is(err, domain.ErrShardNotFound):
		writeProblem(w, r, http.StatusNotFound, problemShardNotFound,
			"Unknown shard", err.Error())
	case errors.Is(err, domain.ErrCircuitOpen), errors.Is(err, domain.ErrBackendUnavailable):
		writeProblem(w, r, http.StatusServiceUnavailable, problemBackendUnavailable,
			"Backend unavailable", "a required backend is unavailable, retry later")
	case isTransportFailure(err):
		writeProblem(w, r, http.StatusServiceUnavailable, problemBackendUnavailable,
			"Backend unavailable", "a required backend is unavailable, retry later")
	default:
		s.logger.Error("unhandled pipeline error", zap.Error(err))
		writeProblem(w, r, http.StatusServiceUnavailable, problemInternal,
			"Internal error", "an unexpected error occurred")
	}
}

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Internal:
		return true
	default:
		return false
	}
}
