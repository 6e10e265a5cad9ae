package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vector-catalog/gateway/internal/domain"
)

// CircuitState is the breaker state machine position.
type CircuitState int

const (
	// StateClosed admits all calls.
	StateClosed CircuitState = iota
	// StateOpen rejects all calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen admits a single probe call.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Backend       string
	Window        time.Duration
	MinThroughput int
	FailureRatio  float64
	OpenFor       time.Duration
	OnStateChange func(backend string, state CircuitState)
	Logger        *zap.Logger
}

type outcome struct {
	at      time.Time
	failure bool
}

// CircuitBreaker opens after the failure ratio over a rolling window crosses
// the threshold, cools down, then admits a single half-open probe. One
// instance is shared by every caller of the owning policy.
type CircuitBreaker struct {
	cfg BreakerConfig

	mu            sync.Mutex
	state         CircuitState
	outcomes      []outcome
	openedAt      time.Time
	probeInFlight bool

	// now is swapped out in tests.
	now func() time.Time
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &CircuitBreaker{
		cfg:   cfg,
		state: StateClosed,
		now:   time.Now,
	}
}

// Execute admits or rejects op according to the breaker state and records
// its outcome. Only transient errors count against the failure ratio.
func (b *CircuitBreaker) Execute(ctx context.Context, op Operation) error {
	if !b.allow() {
		return fmt.Errorf("%s: %w", b.cfg.Backend, domain.ErrCircuitOpen)
	}

	err := op(ctx)
	b.record(err)
	return err
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	// An expired open period reads as half-open even before the next call.
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenFor {
		return StateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenFor {
			return false
		}
		b.transition(StateHalfOpen)
		b.probeInFlight = true
		return true
	case StateHalfOpen:
		if b.probeInFlight {
			return false
		}
		b.probeInFlight = true
		return true
	default:
		return true
	}
}

func (b *CircuitBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	transientFailure := err != nil && IsTransient(err)

	if b.state == StateHalfOpen {
		b.probeInFlight = false
		switch {
		case err == nil:
			b.outcomes = b.outcomes[:0]
			b.transition(StateClosed)
		case transientFailure:
			b.openedAt = b.now()
			b.transition(StateOpen)
		}
		return
	}

	// Non-transient errors bypass breaker accounting entirely.
	if err != nil && !transientFailure {
		return
	}

	now := b.now()
	b.outcomes = append(b.outcomes, outcome{at: now, failure: transientFailure})
	b.prune(now)

	total := len(b.outcomes)
	if total < b.cfg.MinThroughput {
		return
	}
	failures := 0
	for _, o := range b.outcomes {
		if o.failure {
			failures++
		}
	}
	if float64(failures)/float64(total) >= b.cfg.FailureRatio {
		b.openedAt = now
		b.transition(StateOpen)
	}
}

// prune drops outcomes older than the rolling window. Callers hold mu.
func (b *CircuitBreaker) prune(now time.Time) {
	cutoff := now.Add(-b.cfg.Window)
	idx := 0
	for idx < len(b.outcomes) && b.outcomes[idx].at.Before(cutoff) {
		idx++
	}
	if idx > 0 {
		b.outcomes = append(b.outcomes[:0], b.outcomes[idx:]...)
	}
}

// transition switches state and notifies. Callers hold mu.
func (b *CircuitBreaker) transition(next CircuitState) {
	if b.state == next {
		return
	}
	b.state = next
	b.cfg.Logger.Warn("circuit breaker state change",
		zap.String("backend", b.cfg.Backend),
		zap.String("state", next.String()),
	)
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Backend, next)
	}
}
