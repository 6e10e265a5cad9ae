package resilience

import (
	"context"
	"time"
)

// Timeout caps the wall-clock time of everything beneath it, independent of
// the caller's own deadline; the earlier of the two wins.
type Timeout struct {
	limit time.Duration
}

// NewTimeout creates a timeout policy.
func NewTimeout(limit time.Duration) *Timeout {
	return &Timeout{limit: limit}
}

// Execute runs op under the deadline.
func (t *Timeout) Execute(ctx context.Context, op Operation) error {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return op(ctx)
}
