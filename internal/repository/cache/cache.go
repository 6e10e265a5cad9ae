package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/db"
	"github.com/vector-catalog/gateway/internal/domain"
)

const defaultTTL = 300 * time.Second

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) (bool, error)
}

// Cache is the failure-tolerant result cache. A broken cache backend
// degrades to miss-on-read and no-op-on-write; it never fails a search.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
	hits   prometheus.Counter
	misses prometheus.Counter
	logger *zap.Logger
}

// Config holds the result cache settings. Hits and Misses may be nil.
type Config struct {
	Prefix string
	TTL    time.Duration
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Logger *zap.Logger
}

// New creates a result cache over a key-value store.
func New(s store, cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Cache{
		store:  s,
		prefix: cfg.Prefix,
		ttl:    ttl,
		hits:   cfg.Hits,
		misses: cfg.Misses,
		logger: cfg.Logger,
	}
}

// Fingerprint derives the 16-hex cache key component from the canonical
// request tuple. Case and surrounding whitespace of the query do not matter.
func Fingerprint(query string, topK int, shardKey string) string {
	canonical := fmt.Sprintf("%s|%d|%s", strings.ToLower(strings.TrimSpace(query)), topK, shardKey)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:8])
}

// Fingerprint derives the cache key component for a request tuple.
func (c *Cache) Fingerprint(query string, topK int, shardKey string) string {
	return Fingerprint(query, topK, shardKey)
}

// Get returns the cached response for a fingerprint, or nil on miss,
// deserialization failure, or any cache-subsystem error.
func (c *Cache) Get(ctx context.Context, fingerprint string) *domain.SearchResponse {
	data, err := c.store.Get(ctx, c.key(fingerprint))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("result cache read failed",
				zap.String("query_hash", fingerprint),
				zap.Error(err))
		}
		c.inc(c.misses)
		return nil
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("malformed cached result",
			zap.String("query_hash", fingerprint),
			zap.Error(err))
		c.inc(c.misses)
		return nil
	}

	c.inc(c.hits)
	return &resp
}

// Set writes a response under a fingerprint with the configured TTL.
// Failures are swallowed and logged.
func (c *Cache) Set(ctx context.Context, fingerprint string, resp *domain.SearchResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("result cache marshal failed",
			zap.String("query_hash", fingerprint),
			zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.key(fingerprint), data, c.ttl); err != nil {
		c.logger.Warn("result cache write failed",
			zap.String("query_hash", fingerprint),
			zap.Error(err))
	}
}

// Delete removes a cached entry. Reports whether the entry existed.
func (c *Cache) Delete(ctx context.Context, fingerprint string) bool {
	existed, err := c.store.Del(ctx, c.key(fingerprint))
	if err != nil {
		c.logger.Warn("result cache delete failed",
			zap.String("query_hash", fingerprint),
			zap.Error(err))
		return false
	}
	return existed
}

func (c *Cache) key(fingerprint string) string {
	return c.prefix + fingerprint
}

func (c *Cache) inc(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}
