package metrics

import (
	"mercator-hq/huntquery/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PackMetrics tracks hunt pack loading and rendering runs.
//
// Metrics:
//   - huntquery_render_pack_hunts: Number of hunts in the loaded pack
//   - huntquery_render_pack_reloads_total: Pack reloads by status
//   - huntquery_render_pack_runs_total: Completed pack render runs by status
//   - huntquery_render_query_changes_total: Hunts whose query differs from the previous run
type PackMetrics struct {
	packHunts    *prometheus.GaugeVec
	reloadsTotal *prometheus.CounterVec
	runsTotal    *prometheus.CounterVec
	changesTotal *prometheus.CounterVec
}

// NewPackMetrics creates and registers pack metrics with the provided registry.
func NewPackMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PackMetrics {
	pm := &PackMetrics{
		packHunts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pack_hunts",
				Help:      "Number of hunts in the loaded hunt pack",
			},
			[]string{"pack"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pack_reloads_total",
				Help:      "Total number of hunt pack reloads triggered by file changes",
			},
			[]string{"status"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pack_runs_total",
				Help:      "Total number of hunt pack render runs",
			},
			[]string{"status"},
		),

		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "query_changes_total",
				Help:      "Total number of hunts whose rendered query changed since the previous run",
			},
			[]string{"pack"},
		),
	}

	registry.MustRegister(pm.packHunts, pm.reloadsTotal, pm.runsTotal, pm.changesTotal)

	return pm
}

// SetHunts sets the hunt count for a pack.
func (pm *PackMetrics) SetHunts(pack string, count int) {
	pm.packHunts.WithLabelValues(pack).Set(float64(count))
}

// RecordReload records a pack reload outcome.
func (pm *PackMetrics) RecordReload(status string) {
	pm.reloadsTotal.WithLabelValues(status).Inc()
}

// RecordRun records a pack render run outcome.
func (pm *PackMetrics) RecordRun(status string) {
	pm.runsTotal.WithLabelValues(status).Inc()
}

// RecordChanges adds n changed hunt queries for a pack.
func (pm *PackMetrics) RecordChanges(pack string, n int) {
	pm.changesTotal.WithLabelValues(pack).Add(float64(n))
}
