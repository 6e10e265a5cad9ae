package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Operation is a single outbound backend call. Results are captured by the
// closure; policies only observe the error.
type Operation func(ctx context.Context) error

// Policy wraps an Operation with a resilience behavior.
type Policy interface {
	Execute(ctx context.Context, op Operation) error
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ctx context.Context, op Operation) error

// Execute implements Policy.
func (f PolicyFunc) Execute(ctx context.Context, op Operation) error {
	return f(ctx, op)
}

// Chain composes policies outermost-first: Chain(a, b, c) executes
// a(b(c(op))).
func Chain(policies ...Policy) Policy {
	return PolicyFunc(func(ctx context.Context, op Operation) error {
		wrapped := op
		for i := len(policies) - 1; i >= 0; i-- {
			p := policies[i]
			inner := wrapped
			wrapped = func(ctx context.Context) error {
				return p.Execute(ctx, inner)
			}
		}
		return wrapped(ctx)
	})
}

// Config holds the per-backend policy settings.
type Config struct {
	Backend string
	Timeout time.Duration

	MaxRetries int
	BaseDelay  time.Duration
	MaxJitter  time.Duration

	Window        time.Duration
	MinThroughput int
	FailureRatio  float64
	OpenFor       time.Duration

	// OnStateChange receives breaker transitions (for the open-state gauge).
	OnStateChange func(backend string, state CircuitState)

	Logger *zap.Logger
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 100 * time.Millisecond
	}
	if c.MaxJitter <= 0 {
		c.MaxJitter = 100 * time.Millisecond
	}
	if c.Window <= 0 {
		c.Window = 10 * time.Second
	}
	if c.MinThroughput <= 0 {
		c.MinThroughput = 5
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.5
	}
	if c.OpenFor <= 0 {
		c.OpenFor = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// BackendPolicy is the composed stack for one backend:
// Timeout -> CircuitBreaker -> Retry -> Operation.
// The breaker is shared by every caller of this policy.
type BackendPolicy struct {
	chain   Policy
	breaker *CircuitBreaker
}

// NewBackendPolicy builds the standard policy stack for a backend.
func NewBackendPolicy(cfg Config) *BackendPolicy {
	cfg.applyDefaults()

	breaker := NewCircuitBreaker(BreakerConfig{
		Backend:       cfg.Backend,
		Window:        cfg.Window,
		MinThroughput: cfg.MinThroughput,
		FailureRatio:  cfg.FailureRatio,
		OpenFor:       cfg.OpenFor,
		OnStateChange: cfg.OnStateChange,
		Logger:        cfg.Logger,
	})
	retry := NewRetry(RetryConfig{
		Backend:    cfg.Backend,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseDelay,
		MaxJitter:  cfg.MaxJitter,
		Logger:     cfg.Logger,
	})

	return &BackendPolicy{
		chain:   Chain(NewTimeout(cfg.Timeout), breaker, retry),
		breaker: breaker,
	}
}

// Execute runs op through the composed stack.
func (p *BackendPolicy) Execute(ctx context.Context, op Operation) error {
	return p.chain.Execute(ctx, op)
}

// Breaker exposes the shared circuit breaker (probes, gauges, tests).
func (p *BackendPolicy) Breaker() *CircuitBreaker {
	return p.breaker
}
