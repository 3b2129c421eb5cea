package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "inventory_sync"

var (
	// Mutation pipeline outcomes per operation.
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_mutations_total",
			Help: "Total number of optimistic mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	rollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rollbacks_total",
			Help: "Total number of visible rollbacks after remote failures",
		},
		[]string{"operation"},
	)

	snapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_snapshot_writes_total",
			Help: "Total number of durable snapshot overwrites",
		},
		[]string{"outcome"},
	)

	localFallbackPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_local_fallback_pages_total",
			Help: "Total number of pages served from the local mirror after a remote failure",
		},
	)

	confirmationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_confirmations_total",
			Help: "Total number of out-of-band create confirmations applied",
		},
	)

	lowStockAlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_low_stock_alerts_total",
			Help: "Total number of low-stock alerts emitted",
		},
	)
)

// Mutation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeQueued   = "queued"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

func RecordMutation(operation, outcome string) {
	mutationsTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordRollback(operation string) {
	rollbacksTotal.WithLabelValues(operation).Inc()
}

func RecordSnapshotWrite(ok bool) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailed
	}
	snapshotWritesTotal.WithLabelValues(outcome).Inc()
}

func RecordLocalFallbackPage() {
	localFallbackPagesTotal.Inc()
}

func RecordConfirmation() {
	confirmationsTotal.Inc()
}

func RecordLowStockAlert() {
	lowStockAlertsTotal.Inc()
}
