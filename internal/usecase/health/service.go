package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultProbeTimeout = 3 * time.Second

// Status represents the aggregated readiness status.
type Status string

const (
	// Healthy indicates all dependencies are operational.
	Healthy Status = "ok"
	// Degraded indicates a dependency failed in an unexpected way.
	Degraded Status = "degraded"
	// Unhealthy indicates a dependency is unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual dependency probe outcome.
type CheckResult string

const (
	// CheckOK indicates a passing probe.
	CheckOK CheckResult = "ok"
	// CheckUnavailable indicates an unreachable dependency.
	CheckUnavailable CheckResult = "unavailable"
	// CheckError indicates an unexpected probe failure.
	CheckError CheckResult = "error"
)

// Report aggregates dependency probe results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Healthy reports whether the process should be considered ready.
func (r Report) Healthy() bool {
	return r.Status == Healthy
}

// Service coordinates liveness and readiness probes.
type Service struct {
	cache   CachePinger
	index   IndexProber
	timeout time.Duration
}

// New creates a health service probing the cache and index backends.
func New(cache CachePinger, index IndexProber) *Service {
	return &Service{cache: cache, index: index, timeout: defaultProbeTimeout}
}

// Live reports process liveness. No dependencies are consulted.
func (s *Service) Live() Report {
	return Report{Status: Healthy, Checks: map[string]CheckResult{}}
}

// Ready probes all dependencies concurrently under the probe deadline.
func (s *Service) Ready(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]CheckResult)
	record := func(name string, result CheckResult) {
		mu.Lock()
		checks[name] = result
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record("cache", classifyCache(s.cache.Ping(ctx)))
		return nil
	})
	g.Go(func() error {
		_, err := s.index.Info(ctx, "")
		record("index", classifyIndex(err))
		return nil
	})
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

// classifyCache treats any cache probe failure as unavailability; the cache
// facade wraps transport errors uniformly.
func classifyCache(err error) CheckResult {
	if err == nil {
		return CheckOK
	}
	return CheckUnavailable
}

func classifyIndex(err error) CheckResult {
	if err == nil {
		return CheckOK
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return CheckUnavailable
	default:
		return CheckError
	}
}

func aggregate(checks map[string]CheckResult) Status {
	agg := Healthy
	for _, v := range checks {
		switch v {
		case CheckUnavailable:
			return Unhealthy
		case CheckError:
			agg = Degraded
		}
	}
	return agg
}
