package search

import (
	"context"

	"github.com/vector-catalog/gateway/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index runs ANN lookups and administrative operations on the index backend.
type Index interface {
	Search(ctx context.Context, vector []float32, topK int, shardKey string, nprobe int) (domain.ShardSearchResult, error)
	Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error)
	Reload(ctx context.Context, shardKey string) (domain.ReloadResult, error)
}

// ResultCache is the failure-tolerant result cache. Get returns nil on miss
// or any cache failure; Set never surfaces errors.
type ResultCache interface {
	Fingerprint(query string, topK int, shardKey string) string
	Get(ctx context.Context, fingerprint string) *domain.SearchResponse
	Set(ctx context.Context, fingerprint string, resp *domain.SearchResponse)
}
