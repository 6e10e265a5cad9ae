package sidecar

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/transport/vectorpb"
)

type fakeEmbeddingClient struct {
	generateFunc func(ctx context.Context, in *vectorpb.EmbeddingRequest, opts ...grpc.CallOption) (*vectorpb.EmbeddingResponse, error)
	batchFunc    func(ctx context.Context, in *vectorpb.EmbeddingBatchRequest, opts ...grpc.CallOption) (*vectorpb.EmbeddingBatchResponse, error)
}

func (f *fakeEmbeddingClient) GenerateEmbedding(ctx context.Context, in *vectorpb.EmbeddingRequest, opts ...grpc.CallOption) (*vectorpb.EmbeddingResponse, error) {
	return f.generateFunc(ctx, in, opts...)
}

func (f *fakeEmbeddingClient) GenerateEmbeddingBatch(ctx context.Context, in *vectorpb.EmbeddingBatchRequest, opts ...grpc.CallOption) (*vectorpb.EmbeddingBatchResponse, error) {
	return f.batchFunc(ctx, in, opts...)
}

type fakeIndexClient struct {
	searchFunc func(ctx context.Context, in *vectorpb.SearchIndexRequest, opts ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error)
	infoFunc   func(ctx context.Context, in *vectorpb.IndexInfoRequest, opts ...grpc.CallOption) (*vectorpb.IndexInfoResponse, error)
	reloadFunc func(ctx context.Context, in *vectorpb.ReloadIndexRequest, opts ...grpc.CallOption) (*vectorpb.ReloadIndexResponse, error)
}

func (f *fakeIndexClient) SearchIndex(ctx context.Context, in *vectorpb.SearchIndexRequest, opts ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error) {
	return f.searchFunc(ctx, in, opts...)
}

func (f *fakeIndexClient) GetIndexInfo(ctx context.Context, in *vectorpb.IndexInfoRequest, opts ...grpc.CallOption) (*vectorpb.IndexInfoResponse, error) {
	return f.infoFunc(ctx, in, opts...)
}

func (f *fakeIndexClient) ReloadIndex(ctx context.Context, in *vectorpb.ReloadIndexRequest, opts ...grpc.CallOption) (*vectorpb.ReloadIndexResponse, error) {
	return f.reloadFunc(ctx, in, opts...)
}

// --- embedder tests ---

func TestEmbedder_Embed_Success(t *testing.T) {
	e := &Embedder{
		model:  "all-MiniLM-L6-v2",
		logger: zap.NewNop(),
		client: &fakeEmbeddingClient{
			generateFunc: func(_ context.Context, in *vectorpb.EmbeddingRequest, _ ...grpc.CallOption) (*vectorpb.EmbeddingResponse, error) {
				if in.Text != "red taxi" {
					t.Errorf("unexpected text: %q", in.Text)
				}
				if in.ModelName != "all-MiniLM-L6-v2" {
					t.Errorf("unexpected model: %q", in.ModelName)
				}
				return &vectorpb.EmbeddingResponse{
					Vector:           []float32{0.1, 0.2, 0.3},
					ModelName:        "all-MiniLM-L6-v2",
					Dimension:        3,
					ProcessingTimeMs: 12.5,
				}, nil
			},
		},
	}

	got, err := e.Embed(context.Background(), "red taxi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Vector) != 3 || got.Dimension != 3 {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.Model != "all-MiniLM-L6-v2" || got.LatencyMs != 12.5 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestEmbedder_Embed_TransportError(t *testing.T) {
	wantErr := status.Error(codes.Unavailable, "down")
	e := &Embedder{
		model:  "m",
		logger: zap.NewNop(),
		client: &fakeEmbeddingClient{
			generateFunc: func(_ context.Context, _ *vectorpb.EmbeddingRequest, _ ...grpc.CallOption) (*vectorpb.EmbeddingResponse, error) {
				return nil, wantErr
			},
		},
	}

	_, err := e.Embed(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(err) != codes.Unavailable {
		t.Errorf("wrapped error must keep the grpc code, got %v", err)
	}
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	e := &Embedder{
		model:  "m",
		logger: zap.NewNop(),
		client: &fakeEmbeddingClient{
			batchFunc: func(_ context.Context, in *vectorpb.EmbeddingBatchRequest, _ ...grpc.CallOption) (*vectorpb.EmbeddingBatchResponse, error) {
				if len(in.Texts) != 2 {
					t.Errorf("unexpected texts: %v", in.Texts)
				}
				return &vectorpb.EmbeddingBatchResponse{
					Embeddings: []*vectorpb.EmbeddingResponse{
						{Vector: []float32{0.1}, Dimension: 1},
						{Vector: []float32{0.2}, Dimension: 1},
					},
				}, nil
			},
		},
	}

	got, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestEmbedder_EmbedBatch_Empty(t *testing.T) {
	e := &Embedder{model: "m", logger: zap.NewNop(), client: &fakeEmbeddingClient{}}
	got, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

// --- index tests ---

func TestIndex_Search_Success(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			searchFunc: func(_ context.Context, in *vectorpb.SearchIndexRequest, _ ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error) {
				if in.TopK != 5 || in.ShardKey != "nyc_taxi_2023" || in.Nprobe != 16 {
					t.Errorf("unexpected request: %+v", in)
				}
				return &vectorpb.SearchIndexResponse{
					Results: []*vectorpb.SearchResult{
						{Id: 7, Score: 0.93, MetadataJson: `{"zone":"midtown"}`},
						{Id: 9, Score: 0.81, MetadataJson: ""},
					},
					ShardKey:        "nyc_taxi_2023",
					SearchLatencyMs: 4.2,
				}, nil
			},
		},
	}

	got, err := idx.Search(context.Background(), []float32{0.1}, 5, "nyc_taxi_2023", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got.Hits))
	}
	if got.Hits[0].Metadata["zone"] != "midtown" {
		t.Errorf("unexpected metadata: %v", got.Hits[0].Metadata)
	}
	if got.Hits[1].Metadata == nil || len(got.Hits[1].Metadata) != 0 {
		t.Errorf("empty payload must decode to empty map, got %v", got.Hits[1].Metadata)
	}
	if got.ShardKey != "nyc_taxi_2023" || got.SearchLatencyMs != 4.2 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestIndex_Search_MalformedMetadata(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			searchFunc: func(_ context.Context, _ *vectorpb.SearchIndexRequest, _ ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error) {
				return &vectorpb.SearchIndexResponse{
					Results: []*vectorpb.SearchResult{
						{Id: 1, Score: 0.5, MetadataJson: `{not json`},
					},
				}, nil
			},
		},
	}

	got, err := idx.Search(context.Background(), []float32{0.1}, 1, "s", 0)
	if err != nil {
		t.Fatalf("malformed metadata must not fail the search: %v", err)
	}
	if len(got.Hits[0].Metadata) != 0 {
		t.Errorf("expected empty map, got %v", got.Hits[0].Metadata)
	}
}

func TestIndex_Search_UnknownShard(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			searchFunc: func(_ context.Context, _ *vectorpb.SearchIndexRequest, _ ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error) {
				return nil, status.Error(codes.NotFound, "unknown shard")
			},
		},
	}

	_, err := idx.Search(context.Background(), []float32{0.1}, 1, "nope", 0)
	if !errors.Is(err, domain.ErrShardNotFound) {
		t.Fatalf("expected ErrShardNotFound, got %v", err)
	}
}

func TestIndex_Search_TransportErrorKeepsCode(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			searchFunc: func(_ context.Context, _ *vectorpb.SearchIndexRequest, _ ...grpc.CallOption) (*vectorpb.SearchIndexResponse, error) {
				return nil, status.Error(codes.Unavailable, "down")
			},
		},
	}

	_, err := idx.Search(context.Background(), []float32{0.1}, 1, "s", 0)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("wrapped error must keep the grpc code, got %v", err)
	}
}

func TestIndex_Info(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			infoFunc: func(_ context.Context, in *vectorpb.IndexInfoRequest, _ ...grpc.CallOption) (*vectorpb.IndexInfoResponse, error) {
				if in.ShardKey != "" {
					t.Errorf("expected all-shards request, got %q", in.ShardKey)
				}
				return &vectorpb.IndexInfoResponse{
					Shards: []*vectorpb.ShardInfo{
						{ShardKey: "nyc_taxi_2023", TotalVectors: 1000, Dimension: 384, IndexType: "IVFFlat", IsTrained: true},
					},
				}, nil
			},
		},
	}

	got, err := idx.Info(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ShardKey != "nyc_taxi_2023" || got[0].Dimension != 384 {
		t.Errorf("unexpected shards: %+v", got)
	}
}

func TestIndex_Reload(t *testing.T) {
	idx := &Index{
		logger: zap.NewNop(),
		client: &fakeIndexClient{
			reloadFunc: func(_ context.Context, in *vectorpb.ReloadIndexRequest, _ ...grpc.CallOption) (*vectorpb.ReloadIndexResponse, error) {
				if in.ShardKey != "nyc_taxi_2023" {
					t.Errorf("unexpected shard: %q", in.ShardKey)
				}
				return &vectorpb.ReloadIndexResponse{
					Success:        true,
					Message:        "reloaded",
					ReloadedShards: []string{"nyc_taxi_2023"},
				}, nil
			},
		},
	}

	got, err := idx.Reload(context.Background(), "nyc_taxi_2023")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Success || len(got.ReloadedShards) != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
}
