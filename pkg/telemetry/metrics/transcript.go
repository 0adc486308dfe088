package metrics

import (
	"mercator-hq/converse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks transcript persistence and credential loading.
//
// Metrics:
//   - converse_transcript_writes_total: Transcript appends by status
//   - converse_transcript_pruned_total: Entries removed by retention pruning
//   - converse_transcript_prune_runs_total: Pruning runs by status
//   - converse_credential_loads_total: Credential reads by source and status
type StoreMetrics struct {
	writesTotal     *prometheus.CounterVec
	prunedTotal     prometheus.Counter
	pruneRunsTotal  *prometheus.CounterVec
	credentialLoads *prometheus.CounterVec
}

// NewStoreMetrics creates and registers transcript and credential metrics.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transcript_writes_total",
				Help:      "Total number of transcript append operations",
			},
			[]string{"status"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transcript_pruned_total",
				Help:      "Total number of transcript entries removed by retention pruning",
			},
		),

		pruneRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transcript_prune_runs_total",
				Help:      "Total number of retention pruning runs",
			},
			[]string{"status"},
		),

		credentialLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "credential_loads_total",
				Help:      "Total number of credential reads by source",
			},
			[]string{"source", "status"},
		),
	}

	registry.MustRegister(
		sm.writesTotal,
		sm.prunedTotal,
		sm.pruneRunsTotal,
		sm.credentialLoads,
	)

	return sm
}

// RecordWrite records one transcript append.
func (sm *StoreMetrics) RecordWrite(err error) {
	sm.writesTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordPrune records one pruning run and the number of entries it removed.
func (sm *StoreMetrics) RecordPrune(deleted int64, err error) {
	sm.pruneRunsTotal.WithLabelValues(statusOf(err)).Inc()
	if deleted > 0 {
		sm.prunedTotal.Add(float64(deleted))
	}
}

// RecordCredentialLoad records one credential read.
func (sm *StoreMetrics) RecordCredentialLoad(source string, err error) {
	sm.credentialLoads.WithLabelValues(source, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
