// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridebuddy",
			Name:      "chat_turns_total",
			Help:      "Chat turns by outcome (ok, trial_expired_notice, or the error class).",
		},
		[]string{"outcome"},
	)

	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bridebuddy",
			Name:      "model_request_duration_seconds",
			Help:      "Latency of completion API calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridebuddy",
			Name:      "tool_calls_total",
			Help:      "search_vendors tool calls by result.",
		},
		[]string{"result"},
	)

	VendorsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bridebuddy",
			Name:      "vendors_added_total",
			Help:      "Vendor rows inserted from tool results.",
		},
	)
)
