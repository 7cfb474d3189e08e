// Package metrics 定义服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationRequests 推荐请求数，按结果区分
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavor_recommendation_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RankedCandidates 每次排序时参与打分的候选餐厅数量
	RankedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flavor_ranked_candidates",
			Help:    "Candidates left after filtering, per ranking",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 15, 20},
		},
	)

	// FeedbackAdjustments 反馈引起的口味调整次数
	FeedbackAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavor_feedback_adjustments_total",
			Help: "Taste dimension adjustments caused by feedback",
		},
		[]string{"dimension", "direction"},
	)

	// ExternalCalls 外部服务调用次数
	ExternalCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavor_external_calls_total",
			Help: "External collaborator calls by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	// ExternalCallDuration 外部服务调用耗时
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flavor_external_call_duration_seconds",
			Help:    "External collaborator call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// CircuitBreakerState 熔断器状态 0=closed 1=half-open 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flavor_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// ProfileStoreErrors 画像存储错误次数
	ProfileStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flavor_profile_store_errors_total",
			Help: "Profile store failures by operation",
		},
		[]string{"op"},
	)
)
