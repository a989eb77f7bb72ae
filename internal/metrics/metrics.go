package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileOutcomes counts ConfirmOrCreate results by path and result.
	ReconcileOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paysync_reconcile_outcomes_total",
			Help: "Transaction reconciliation outcomes by path and result",
		},
		[]string{"path", "result"},
	)

	// VersionConflicts counts confirm attempts rejected for a stale version.
	VersionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paysync_version_conflicts_total",
			Help: "Confirm attempts rejected by the gateway because of a stale version",
		},
	)

	// WaitResults counts poller outcomes.
	WaitResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paysync_state_wait_results_total",
			Help: "Transaction state wait results",
		},
		[]string{"result"},
	)

	// ProjectionEvents counts ingested transaction state events.
	ProjectionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paysync_projection_events_total",
			Help: "Transaction state events applied to the local projection",
		},
		[]string{"source", "result"},
	)
)
