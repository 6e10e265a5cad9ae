package admission

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/domain"
	"github.com/vector-catalog/gateway/internal/metrics"
)

const (
	defaultPermitLimit = 100
	defaultWindow      = 10 * time.Second
)

// Limiter is a fixed-window rate limiter with a bounded wait queue. Up to
// PermitLimit requests per window proceed immediately; the next QueueLimit
// wait for the window to roll and are granted oldest-first; the rest are
// rejected with domain.ErrRateLimited.
type Limiter struct {
	mu          sync.Mutex
	permitLimit int
	window      time.Duration
	queueLimit  int

	windowStart time.Time
	used        int
	queue       []chan struct{}

	now       func() time.Time
	afterFunc func(d time.Duration, fn func()) *time.Timer
	timer     *time.Timer

	logger *zap.Logger
}

// Config holds the limiter settings. Zero PermitLimit and Window fall back
// to defaults; a zero QueueLimit disables queueing.
type Config struct {
	PermitLimit int
	Window      time.Duration
	QueueLimit  int
	Logger      *zap.Logger
}

// NewLimiter creates a fixed-window rate limiter.
func NewLimiter(cfg Config) *Limiter {
	if cfg.PermitLimit <= 0 {
		cfg.PermitLimit = defaultPermitLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.QueueLimit < 0 {
		cfg.QueueLimit = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	l := &Limiter{
		permitLimit: cfg.PermitLimit,
		window:      cfg.Window,
		queueLimit:  cfg.QueueLimit,
		now:         time.Now,
		afterFunc:   time.AfterFunc,
		logger:      cfg.Logger,
	}
	l.windowStart = l.now()
	return l
}

// Acquire takes one permit, waiting in the queue when the current window is
// exhausted. Returns domain.ErrRateLimited when the queue is also full, or
// the context error when the caller gives up while queued.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.roll(l.now())

	if l.used < l.permitLimit {
		l.used++
		l.mu.Unlock()
		return nil
	}

	if len(l.queue) >= l.queueLimit {
		l.mu.Unlock()
		metrics.RateLimitedTotal.Inc()
		l.logger.Debug("request rejected by rate limiter",
			zap.Int("limiter.permit_limit", l.permitLimit),
			zap.Int("limiter.queue_limit", l.queueLimit))
		return domain.ErrRateLimited
	}

	grant := make(chan struct{})
	l.queue = append(l.queue, grant)
	l.armTimer()
	l.mu.Unlock()

	select {
	case <-grant:
		return nil
	case <-ctx.Done():
		if !l.abandon(grant) {
			// Granted before the caller gave up; the permit stands.
			return nil
		}
		return ctx.Err()
	}
}

// roll advances the window when its end has passed, resetting the permit
// count and granting queued waiters oldest-first. Caller holds l.mu.
func (l *Limiter) roll(now time.Time) {
	if now.Sub(l.windowStart) < l.window {
		return
	}
	elapsed := now.Sub(l.windowStart)
	l.windowStart = l.windowStart.Add(elapsed - elapsed%l.window)
	l.used = 0

	for l.used < l.permitLimit && len(l.queue) > 0 {
		close(l.queue[0])
		l.queue = l.queue[1:]
		l.used++
	}
}

// armTimer schedules a roll at the window boundary so queued waiters are
// granted even when no further requests arrive. Caller holds l.mu.
func (l *Limiter) armTimer() {
	if l.timer != nil {
		return
	}
	wait := l.window - l.now().Sub(l.windowStart)
	if wait < 0 {
		wait = 0
	}
	l.timer = l.afterFunc(wait, l.onTick)
}

func (l *Limiter) onTick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timer = nil
	l.roll(l.now())
	if len(l.queue) > 0 {
		l.armTimer()
	}
}

// abandon removes a waiter from the queue. Reports false when the waiter was
// already granted.
func (l *Limiter) abandon(grant chan struct{}) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, ch := range l.queue {
		if ch == grant {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return true
		}
	}
	return false
}
