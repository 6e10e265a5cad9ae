package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/resilience"
)

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{
		Vector:    []float32{0.1, 0.2, 0.3},
		Dimension: 3,
		Model:     "all-MiniLM-L6-v2",
	}, nil
}

type mockIndex struct {
	searchFn func(ctx context.Context, vector []float32, topK int, shardKey string, nprobe int) (domain.ShardSearchResult, error)
	infoFn   func(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error)
	reloadFn func(ctx context.Context, shardKey string) (domain.ReloadResult, error)

	searchCalls int
	lastTopK    int
	lastShard   string
	lastNprobe  int
}

func (m *mockIndex) Search(ctx context.Context, vector []float32, topK int, shardKey string, nprobe int) (domain.ShardSearchResult, error) {
	m.searchCalls++
	m.lastTopK = topK
	m.lastShard = shardKey
	m.lastNprobe = nprobe
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, topK, shardKey, nprobe)
	}
	return domain.ShardSearchResult{ShardKey: shardKey}, nil
}

func (m *mockIndex) Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error) {
	if m.infoFn != nil {
		return m.infoFn(ctx, shardKey)
	}
	return nil, nil
}

func (m *mockIndex) Reload(ctx context.Context, shardKey string) (domain.ReloadResult, error) {
	if m.reloadFn != nil {
		return m.reloadFn(ctx, shardKey)
	}
	return domain.ReloadResult{}, nil
}

type mockCache struct {
	getFn func(ctx context.Context, fingerprint string) *domain.SearchResponse

	setCalls int
	setKey   string
	setResp  *domain.SearchResponse
}

func (m *mockCache) Fingerprint(query string, topK int, shardKey string) string {
	return "fp-" + query + "-" + shardKey
}

func (m *mockCache) Get(ctx context.Context, fingerprint string) *domain.SearchResponse {
	if m.getFn != nil {
		return m.getFn(ctx, fingerprint)
	}
	return nil
}

func (m *mockCache) Set(ctx context.Context, fingerprint string, resp *domain.SearchResponse) {
	m.setCalls++
	m.setKey = fingerprint
	m.setResp = resp
}

// passthrough runs the operation with no timeout, retry, or breaker.
var passthrough = resilience.PolicyFunc(func(ctx context.Context, op resilience.Operation) error {
	return op(ctx)
})

// newTestService builds an orchestrator with synchronous background work and
// a frozen clock.
func newTestService(t *testing.T, emb *mockEmbedder, idx *mockIndex, c *mockCache) *Service {
	t.Helper()
	svc := New(Config{
		Embedder:    emb,
		Index:       idx,
		Cache:       c,
		Router:      NewRouter("shard-0"),
		EmbedPolicy: passthrough,
		IndexPolicy: passthrough,
		Logger:      zap.NewNop(),
	})
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	svc.background = func(fn func()) { fn() }
	return svc
}
