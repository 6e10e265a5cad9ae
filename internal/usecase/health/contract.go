package health

import (
	"context"

	"github.com/vector-catalog/gateway/internal/domain"
)

// CachePinger checks cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// IndexProber checks index backend availability.
type IndexProber interface {
	Info(ctx context.Context, shardKey string) ([]domain.ShardDescriptor, error)
}
