// Package metrics exposes prometheus collectors for backend fetches and
// refresh cycles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh cycle outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFatal    = "fatal"
	OutcomeStale    = "stale"
)

var (
	// FetchTotal counts backend requests per endpoint.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_fetch_total",
			Help: "Total number of backend fetches",
		},
		[]string{"endpoint"},
	)

	// FetchErrors counts failed backend requests per endpoint.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_fetch_errors_total",
			Help: "Total number of failed backend fetches",
		},
		[]string{"endpoint"},
	)

	// FetchLatency tracks backend request latency.
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tally_fetch_latency_seconds",
			Help:    "Backend fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// RefreshCycles counts completed refresh cycles by outcome.
	RefreshCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_refresh_cycles_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	// LastRefresh records the unix time of the last non-fatal refresh.
	LastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh cycle",
		},
	)

	// Polling is 1 while the polling loop is active.
	Polling = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_polling_active",
			Help: "Whether the polling loop is active",
		},
	)

	// SOLPrice tracks the last SOL/USD price reported by the backend.
	SOLPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_sol_price_usd",
			Help: "Last SOL price in USD reported by the backend health check",
		},
	)
)
