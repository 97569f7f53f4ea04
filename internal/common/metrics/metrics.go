package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_cache_hits_total",
			Help: "Total number of ranking cache hits by tier",
		},
		[]string{"tier"},
	)

	RankingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_cache_misses_total",
			Help: "Total number of ranking cache misses",
		},
	)

	RankingOriginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_origin_failures_total",
			Help: "Total number of failed ranking origin fetches",
		},
	)

	ResponseCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	ResponseCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "recommend_request_duration_seconds",
			Help: "Duration of recommendation request processing in seconds",
		},
	)
)
