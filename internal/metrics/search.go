package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"shard", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"shard", "cache"},
	)

	ActiveSearches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gateway",
			Name:      "active_searches",
			Help:      "Number of searches currently in flight",
		},
	)

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "cache_hits_total",
			Help:      "Total result cache hits",
		},
	)

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "cache_misses_total",
			Help:      "Total result cache misses",
		},
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter",
		},
	)

	CircuitBreakerOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gateway",
			Name:      "circuit_breaker_open",
			Help:      "Whether the circuit breaker for a backend is open (1) or closed (0)",
		},
		[]string{"backend"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ActiveSearches)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(CircuitBreakerOpen)
	searchMetricsRegistered = true
}
