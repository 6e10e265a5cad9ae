package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Request bounds enforced before any backend work.
const (
	MaxQueryLength = 2000
	MinTopK        = 1
	MaxTopK        = 100
	MinNprobe      = 1
	MaxNprobe      = 256
)

// SearchRequest is a validated semantic search request.
type SearchRequest struct {
	Query    string
	TopK     int
	ShardKey string
	Nprobe   int
}

// Validate enforces field constraints. The caller fills TopK and Nprobe with
// the configured defaults before validation when the request omits them. A
// zero TopK is rejected; a zero Nprobe passes validation unchanged.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return NewValidation("query", "query is required")
	}
	if len(r.Query) > MaxQueryLength {
		return NewValidation("query", fmt.Sprintf("query exceeds %d characters", MaxQueryLength))
	}
	if r.TopK < MinTopK || r.TopK > MaxTopK {
		return NewValidation("topK", fmt.Sprintf("topK must be between %d and %d", MinTopK, MaxTopK))
	}
	if r.Nprobe != 0 && (r.Nprobe < MinNprobe || r.Nprobe > MaxNprobe) {
		return NewValidation("nprobe", fmt.Sprintf("nprobe must be between %d and %d", MinNprobe, MaxNprobe))
	}
	return nil
}

// SearchHit is a single ranked result.
type SearchHit struct {
	ID       int64          `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// SearchResponse is the assembled result of one search request.
type SearchResponse struct {
	Results         []SearchHit `json:"results"`
	ShardKey        string      `json:"shardKey"`
	SearchLatencyMs float64     `json:"searchLatencyMs"`
	TotalLatencyMs  float64     `json:"totalLatencyMs"`
	CacheHit        bool        `json:"cacheHit"`
	QueryHash       string      `json:"queryHash"`
}

// SortHits orders hits by descending score, ties broken by ascending id.
func SortHits(hits []SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

// EmbeddingResult is the outcome of a single embedding call.
type EmbeddingResult struct {
	Vector    []float32
	Dimension int
	Model     string
	LatencyMs float64
}

// ShardDescriptor mirrors the index backend's per-shard metadata. Read-only
// to the gateway.
type ShardDescriptor struct {
	ShardKey       string `json:"shardKey"`
	TotalVectors   int64  `json:"totalVectors"`
	Dimension      int    `json:"dimension"`
	IndexType      string `json:"indexType"`
	IsTrained      bool   `json:"isTrained"`
	IndexSizeBytes int64  `json:"indexSizeBytes"`
}

// ShardSearchResult is the raw index backend response before the gateway
// assembles its own reply around it.
type ShardSearchResult struct {
	Hits            []SearchHit
	ShardKey        string
	SearchLatencyMs float64
}

// ReloadResult is the outcome of an administrative index reload.
type ReloadResult struct {
	Success        bool     `json:"success"`
	ReloadedShards []string `json:"reloadedShards"`
	Message        string   `json:"message"`
}
