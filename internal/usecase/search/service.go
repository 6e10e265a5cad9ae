package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/logger"
	"github.com/vector-catalog/gateway/internal/metrics"
	"github.com/vector-catalog/gateway/internal/resilience"
)

// Service is the search orchestrator: cache-aside read, embedding call,
// shard-routed index lookup, result assembly, and fire-and-forget cache
// population.
type Service struct {
	embed  Embedder
	index  Index
	cache  ResultCache
	router *Router

	embedPolicy resilience.Policy
	indexPolicy resilience.Policy

	logger *zap.Logger

	now        func() time.Time
	background func(fn func())
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Embedder    Embedder
	Index       Index
	Cache       ResultCache
	Router      *Router
	EmbedPolicy resilience.Policy
	IndexPolicy resilience.Policy
	Logger      *zap.Logger
}

// New creates a search orchestrator.
func New(cfg Config) *Service {
	return &Service{
		embed:       cfg.Embedder,
		index:       cfg.Index,
		cache:       cfg.Cache,
		router:      cfg.Router,
		embedPolicy: cfg.EmbedPolicy,
		indexPolicy: cfg.IndexPolicy,
		logger:      cfg.Logger,
		now:         time.Now,
		background:  func(fn func()) { go fn() },
	}
}

// Search executes one validated search request end to end.
func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	start := s.now()

	metrics.ActiveSearches.Inc()
	defer metrics.ActiveSearches.Dec()

	shard := s.router.ResolveOne(req.ShardKey)
	fp := s.cache.Fingerprint(req.Query, req.TopK, shard)

	if cached := s.cache.Get(ctx, fp); cached != nil {
		resp := *cached
		resp.CacheHit = true
		resp.TotalLatencyMs = s.elapsedMs(start)
		s.observe(ctx, req, &resp, "cache_hit")
		return resp, nil
	}

	emb, err := s.embedQuery(ctx, req.Query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(shard, "error").Inc()
		return domain.SearchResponse{}, fmt.Errorf("embed query: %w", err)
	}

	result, err := s.searchIndex(ctx, emb.Vector, req.TopK, shard, req.Nprobe)
	if err != nil {
		if errors.Is(err, domain.ErrCircuitOpen) {
			resp := s.degraded(shard, fp, start)
			s.observe(ctx, req, &resp, "degraded")
			return resp, nil
		}
		metrics.SearchRequestsTotal.WithLabelValues(shard, "error").Inc()
		return domain.SearchResponse{}, fmt.Errorf("search index: %w", err)
	}

	resp := s.assemble(req, fp, result, start)
	s.populateCache(ctx, fp, resp)
	s.observe(ctx, req, &resp, "success")
	return resp, nil
}

// Info reports per-shard index metadata.
func (s *Service) Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error) {
	shards, err := s.index.Info(ctx, shardKey)
	if err != nil {
		return nil, fmt.Errorf("index info: %w", err)
	}
	return shards, nil
}

// Reload asks the index backend to reload shards from disk.
func (s *Service) Reload(ctx context.Context, shardKey string) (domain.ReloadResult, error) {
	result, err := s.index.Reload(ctx, shardKey)
	if err != nil {
		return domain.ReloadResult{}, fmt.Errorf("index reload: %w", err)
	}
	return result, nil
}

func (s *Service) embedQuery(ctx context.Context, query string) (domain.EmbeddingResult, error) {
	var emb domain.EmbeddingResult
	err := s.embedPolicy.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		emb, innerErr = s.embed.Embed(ctx, query)
		return innerErr
	})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	logger.FromContext(ctx).Debug("query embedded",
		zap.Int("embedding.text_length", len(query)),
		zap.Int("embedding.dimension", emb.Dimension),
		zap.String("embedding.model", emb.Model))
	return emb, nil
}

func (s *Service) searchIndex(ctx context.Context, vector []float32, topK int, shard string, nprobe int) (domain.ShardSearchResult, error) {
	var result domain.ShardSearchResult
	err := s.indexPolicy.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = s.index.Search(ctx, vector, topK, shard, nprobe)
		return innerErr
	})
	return result, err
}

// assemble orders hits and stamps latency accounting onto the response.
func (s *Service) assemble(req domain.SearchRequest, fp string, result domain.ShardSearchResult, start time.Time) domain.SearchResponse {
	hits := result.Hits
	domain.SortHits(hits)
	if len(hits) > req.TopK {
		hits = hits[:req.TopK]
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}

	return domain.SearchResponse{
		Results:         hits,
		ShardKey:        result.ShardKey,
		SearchLatencyMs: result.SearchLatencyMs,
		TotalLatencyMs:  s.elapsedMs(start),
		CacheHit:        false,
		QueryHash:       fp,
	}
}

// degraded is the empty-but-successful response returned while the index
// breaker is open. It is never written to the cache.
func (s *Service) degraded(shard, fp string, start time.Time) domain.SearchResponse {
	return domain.SearchResponse{
		Results:        []domain.SearchHit{},
		ShardKey:       shard,
		TotalLatencyMs: s.elapsedMs(start),
		CacheHit:       false,
		QueryHash:      fp,
	}
}

// populateCache schedules the cache write off the request path. The write
// must survive the client disconnecting, so it runs on a context detached
// from the request's cancellation.
func (s *Service) populateCache(ctx context.Context, fp string, resp domain.SearchResponse) {
	detached := context.WithoutCancel(ctx)
	s.background(func() {
		s.cache.Set(detached, fp, &resp)
	})
}

func (s *Service) observe(ctx context.Context, req domain.SearchRequest, resp *domain.SearchResponse, status string) {
	metrics.SearchRequestsTotal.WithLabelValues(resp.ShardKey, status).Inc()
	metrics.SearchDuration.WithLabelValues(resp.ShardKey, cacheLabel(resp.CacheHit)).Observe(resp.TotalLatencyMs / 1000)

	logger.FromContext(ctx).Info("search completed",
		zap.Int("search.query_length", len(req.Query)),
		zap.Int("search.top_k", req.TopK),
		zap.String("search.shard_key", resp.ShardKey),
		zap.Int("search.nprobe", req.Nprobe),
		zap.Bool("search.cache_hit", resp.CacheHit),
		zap.Int("search.result_count", len(resp.Results)),
		zap.Float64("search.total_latency_ms", resp.TotalLatencyMs),
		zap.Float64("search.search_latency_ms", resp.SearchLatencyMs),
		zap.String("search.query_hash", resp.QueryHash),
		zap.String("search.status", status))
}

func (s *Service) elapsedMs(start time.Time) float64 {
	return float64(s.now().Sub(start)) / float64(time.Millisecond)
}

func cacheLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
