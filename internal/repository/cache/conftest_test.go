package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/db"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) (bool, error)
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return false, nil
}

func newTestCache(t *testing.T, ms *mockKVStore) *Cache {
	t.Helper()
	return New(ms, Config{
		Prefix: "search:",
		TTL:    5 * time.Minute,
		Logger: zap.NewNop(),
	})
}
