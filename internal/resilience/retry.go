package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetryConfig holds retry policy settings.
type RetryConfig struct {
	Backend    string
	MaxRetries int
	BaseDelay  time.Duration
	MaxJitter  time.Duration
	Logger     *zap.Logger
}

// Retry re-runs transient failures with exponential backoff plus uniform
// jitter: BaseDelay*2^attempt + [0, MaxJitter).
type Retry struct {
	cfg RetryConfig

	mu  sync.Mutex
	rng *rand.Rand

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetry creates a retry policy.
func NewRetry(cfg RetryConfig) *Retry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Retry{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: sleepCtx,
	}
}

// Execute runs op, retrying transient errors up to MaxRetries times. The
// surrounding deadline still applies to every attempt.
func (r *Retry) Execute(ctx context.Context, op Operation) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= r.cfg.MaxRetries {
			return fmt.Errorf("%s: %d attempts exhausted: %w", r.cfg.Backend, attempt+1, err)
		}

		delay := r.backoff(attempt + 1)
		r.cfg.Logger.Warn("retrying backend call",
			zap.String("backend", r.cfg.Backend),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if serr := r.sleep(ctx, delay); serr != nil {
			return fmt.Errorf("%s: retry aborted: %w", r.cfg.Backend, err)
		}
	}
}

// backoff computes BaseDelay*2^attempt plus uniform jitter.
func (r *Retry) backoff(attempt int) time.Duration {
	delay := r.cfg.BaseDelay << uint(attempt)

	r.mu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(r.cfg.MaxJitter)))
	r.mu.Unlock()

	return delay + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
