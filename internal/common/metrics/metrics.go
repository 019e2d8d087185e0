package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetch_attempts_total",
			Help: "Total number of HTTP fetch attempts per provider",
		},
		[]string{"provider"},
	)

	ProviderFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetch_failures_total",
			Help: "Total number of exhausted fetches per provider",
		},
		[]string{"provider"},
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refreshes_total",
			Help: "Total number of user refreshes by mode and status",
		},
		[]string{"mode", "status"},
	)

	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "refresh_duration_seconds",
			Help: "Duration of refresh runs in seconds",
		},
		[]string{"mode"},
	)

	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_runs_total",
			Help: "Total number of batch refresh runs by status",
		},
		[]string{"status"},
	)

	LeaderboardCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_requests_total",
			Help: "Leaderboard cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
