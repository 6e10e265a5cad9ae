package sidecar

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/transport/vectorpb"
)

// Index talks to the sidecar's gRPC IndexService.
type Index struct {
	client vectorpb.IndexServiceClient
	logger *zap.Logger
}

// NewIndex creates a gRPC index client on an established connection.
func NewIndex(conn grpc.ClientConnInterface, logger *zap.Logger) *Index {
	return &Index{
		client: vectorpb.NewIndexServiceClient(conn),
		logger: logger,
	}
}

// Search runs a KNN lookup against one shard.
func (i *Index) Search(ctx context.Context, vector []float32, topK int, shardKey string, nprobe int) (domain.ShardSearchResult, error) {
	resp, err := i.client.SearchIndex(ctx, &vectorpb.SearchIndexRequest{
		QueryVector: vector,
		TopK:        int32(topK),
		ShardKey:    shardKey,
		Nprobe:      int32(nprobe),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ShardSearchResult{}, fmt.Errorf("shard %q: %w", shardKey, domain.ErrShardNotFound)
		}
		return domain.ShardSearchResult{}, fmt.Errorf("search index: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, domain.SearchHit{
			ID:       r.Id,
			Score:    r.Score,
			Metadata: i.decodeMetadata(r.Id, r.MetadataJson),
		})
	}

	return domain.ShardSearchResult{
		Hits:            hits,
		ShardKey:        resp.ShardKey,
		SearchLatencyMs: resp.SearchLatencyMs,
	}, nil
}

// Info reports per-shard index metadata. An empty shardKey asks for all shards.
func (i *Index) Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error) {
	resp, err := i.client.GetIndexInfo(ctx, &vectorpb.IndexInfoRequest{ShardKey: shardKey})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("shard %q: %w", shardKey, domain.ErrShardNotFound)
		}
		return nil, fmt.Errorf("get index info: %w", err)
	}

	shards := make([]domain.ShardDescriptor, 0, len(resp.Shards))
	for _, s := range resp.Shards {
		shards = append(shards, domain.ShardDescriptor{
			ShardKey:       s.ShardKey,
			TotalVectors:   s.TotalVectors,
			Dimension:      int(s.Dimension),
			IndexType:      s.IndexType,
			IsTrained:      s.IsTrained,
			IndexSizeBytes: s.IndexSizeBytes,
		})
	}
	return shards, nil
}

// Reload asks the backend to reload one shard, or all shards when shardKey
// is empty.
func (i *Index) Reload(ctx context.Context, shardKey string) (domain.ReloadResult, error) {
	resp, err := i.client.ReloadIndex(ctx, &vectorpb.ReloadIndexRequest{ShardKey: shardKey})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ReloadResult{}, fmt.Errorf("shard %q: %w", shardKey, domain.ErrShardNotFound)
		}
		return domain.ReloadResult{}, fmt.Errorf("reload index: %w", err)
	}

	return domain.ReloadResult{
		Success:        resp.Success,
		ReloadedShards: resp.ReloadedShards,
		Message:        resp.Message,
	}, nil
}

// decodeMetadata parses the per-hit metadata payload. A malformed payload
// degrades to an empty map rather than failing the whole search.
func (i *Index) decodeMetadata(id int64, raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		i.logger.Warn("malformed hit metadata",
			zap.Int64("id", id),
			zap.Error(err))
		return map[string]any{}
	}
	return m
}
