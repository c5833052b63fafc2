package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 請求
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_plaza_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_plaza_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// 外部搜尋 API
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_plaza_spoonacular_requests_total",
			Help: "Total number of Spoonacular search calls by outcome",
		},
		[]string{"outcome"},
	)
	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_plaza_spoonacular_request_duration_seconds",
			Help:    "Spoonacular search latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_plaza_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
	QuotaRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_plaza_quota_rejections_total",
			Help: "Total number of searches rejected because the daily quota was spent",
		},
	)

	// 工作階段
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_plaza_active_sessions",
			Help: "Number of live search sessions",
		},
	)
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_plaza_session_actions_total",
			Help: "Total number of dispatched session actions by type",
		},
		[]string{"type"},
	)
)
