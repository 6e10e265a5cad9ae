package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/config"
	dbRedis "github.com/vector-catalog/gateway/internal/db/redis"
	logpkg "github.com/vector-catalog/gateway/internal/logger"
	"github.com/vector-catalog/gateway/internal/metrics"
	"github.com/vector-catalog/gateway/internal/repository/cache"
	"github.com/vector-catalog/gateway/internal/repository/embcache"
	"github.com/vector-catalog/gateway/internal/resilience"
	chiTransport "github.com/vector-catalog/gateway/internal/transport/chi"
	openaiEmb "github.com/vector-catalog/gateway/internal/transport/openai"
	"github.com/vector-catalog/gateway/internal/transport/sidecar"
	admissionuc "github.com/vector-catalog/gateway/internal/usecase/admission"
	healthuc "github.com/vector-catalog/gateway/internal/usecase/health"
	searchuc "github.com/vector-catalog/gateway/internal/usecase/search"
	"github.com/vector-catalog/gateway/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gateway API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("sidecar_addr", cfg.Sidecar.GRPCAddress),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the cache to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	conn, err := sidecar.Dial(cfg.Sidecar.GRPCAddress)
	if err != nil {
		logger.Fatal("Failed to dial sidecar", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	// Build embedder chain at the composition root
	var embedder searchuc.Embedder
	switch cfg.Embedding.Provider {
	case "openai":
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:   cfg.Embedding.OpenAI.APIKey,
			BaseURL:  cfg.Embedding.OpenAI.BaseURL,
			Model:    cfg.Embedding.Model,
			Provider: "openai",
			Logger:   logger,
		})
	default:
		embedder = sidecar.NewEmbedder(conn, sidecar.EmbedderConfig{
			Model:  cfg.Embedding.Model,
			Logger: logger,
		})
	}
	if !cfg.Embedding.DisableCache {
		embedder = embcache.New(embedder, store, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Bool("cached", !cfg.Embedding.DisableCache),
	)

	indexClient := sidecar.NewIndex(conn, logger)

	resultCache := cache.New(store, cache.Config{
		Prefix: cfg.Redis.KeyPrefix,
		TTL:    time.Duration(cfg.Redis.CacheTTLSec) * time.Second,
		Hits:   metrics.CacheHitsTotal,
		Misses: metrics.CacheMissesTotal,
		Logger: logger,
	})

	embedPolicy := resilience.NewBackendPolicy(resilience.Config{
		Backend:       "embedding",
		Timeout:       10 * time.Second,
		OnStateChange: breakerGauge,
		Logger:        logger,
	})
	indexPolicy := resilience.NewBackendPolicy(resilience.Config{
		Backend:       "index",
		Timeout:       5 * time.Second,
		OnStateChange: breakerGauge,
		Logger:        logger,
	})

	searchSvc := searchuc.New(searchuc.Config{
		Embedder:    embedder,
		Index:       indexClient,
		Cache:       resultCache,
		Router:      searchuc.NewRouter(cfg.Faiss.DefaultShardKey),
		EmbedPolicy: embedPolicy,
		IndexPolicy: indexPolicy,
		Logger:      logger,
	})

	limiter := admissionuc.NewLimiter(admissionuc.Config{
		PermitLimit: cfg.RateLimit.PermitLimit,
		Window:      time.Duration(cfg.RateLimit.WindowSec) * time.Second,
		QueueLimit:  cfg.RateLimit.QueueLimit,
		Logger:      logger,
	})

	healthSvc := healthuc.New(store, indexClient)

	server := chiTransport.NewServer(chiTransport.Config{
		Search:        searchSvc,
		Health:        healthSvc,
		Limiter:       limiter,
		DefaultTopK:   cfg.Faiss.DefaultTopK,
		DefaultNprobe: cfg.Faiss.DefaultNprobe,
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiTransport.CorrelationMiddleware(logger))
	r.Use(wideEventMiddleware)
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// breakerGauge mirrors circuit breaker transitions into the open-state gauge.
func breakerGauge(backend string, state resilience.CircuitState) {
	v := 0.0
	if state == resilience.StateOpen {
		v = 1.0
	}
	metrics.CircuitBreakerOpen.WithLabelValues(backend).Set(v)
}

// jsonRecoverer is a recovery middleware that returns a problem document
// instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/problem+json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"type":   "internal-error",
						"title":  "Internal error",
						"status": http.StatusInternalServerError,
						"detail": "an unexpected error occurred",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request. The correlation
// middleware has already bound a correlation-tagged logger into the context.
func wideEventMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logpkg.FromContext(r.Context()).Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
			zap.Int64("content_length", r.ContentLength),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}
