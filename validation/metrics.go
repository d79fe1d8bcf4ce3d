package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationOutcomeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_outcome_total",
			Help: "Count of validate_entry results by outcome.",
		},
		[]string{"outcome"},
	)
	pendingQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "validation_pending_queue_depth",
			Help: "Number of entries currently queued in the pending validation registry.",
		},
	)
	pendingExpiredCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "validation_pending_expired_total",
			Help: "Count of pending validations the deadline sweeper expired.",
		},
	)
	pendingRetryResolvedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_pending_retry_resolved_total",
			Help: "Count of pending validations the sweeper's retry pass resolved, by outcome.",
		},
		[]string{"outcome"},
	)
	fetchHandlerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "validation_fetch_handler_latency_milliseconds",
			Help:    "Time to assemble the aspect set served to a fetch request.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

func recordOutcome(o Outcome) {
	validationOutcomeCounter.WithLabelValues(o.String()).Inc()
}
