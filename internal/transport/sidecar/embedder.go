package sidecar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/metrics"
	"github.com/vector-catalog/gateway/internal/transport/vectorpb"
)

const embedderProvider = "sidecar"

// Embedder is an embedding provider backed by the sidecar's gRPC
// EmbeddingService.
type Embedder struct {
	client vectorpb.EmbeddingServiceClient
	model  string
	logger *zap.Logger
}

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	Model  string
	Logger *zap.Logger
}

// NewEmbedder creates a gRPC embedding provider on an established connection.
func NewEmbedder(conn grpc.ClientConnInterface, cfg EmbedderConfig) *Embedder {
	return &Embedder{
		client: vectorpb.NewEmbeddingServiceClient(conn),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()

	resp, err := e.client.GenerateEmbedding(ctx, &vectorpb.EmbeddingRequest{
		Text:      text,
		ModelName: e.model,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(embedderProvider, e.model, "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("generate embedding: %w", err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(embedderProvider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(embedderProvider, e.model).Observe(duration.Seconds())

	return embeddingFromProto(resp), nil
}

// EmbedBatch generates embeddings for multiple texts in one round trip.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([]domain.EmbeddingResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.GenerateEmbeddingBatch(ctx, &vectorpb.EmbeddingBatchRequest{
		Texts:     texts,
		ModelName: e.model,
	})
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(embedderProvider, e.model, "error").Inc()
		return nil, fmt.Errorf("generate embedding batch: %w", err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(embedderProvider, e.model, "success").Inc()

	results := make([]domain.EmbeddingResult, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		results = append(results, embeddingFromProto(emb))
	}
	return results, nil
}

func embeddingFromProto(resp *vectorpb.EmbeddingResponse) domain.EmbeddingResult {
	return domain.EmbeddingResult{
		Vector:    resp.Vector,
		Dimension: int(resp.Dimension),
		Model:     resp.ModelName,
		LatencyMs: resp.ProcessingTimeMs,
	}
}
