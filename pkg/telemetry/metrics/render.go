package metrics

import (
	"time"

	"mercator-hq/huntquery/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Render outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// renderDurationBuckets covers template rendering, which is pure string
// assembly and finishes well under a millisecond.
var renderDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}

// RenderMetrics tracks template rendering.
//
// Metrics:
//   - huntquery_render_renders_total: Render count by pattern and status
//   - huntquery_render_render_duration_seconds: Render duration histogram
type RenderMetrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

// NewRenderMetrics creates and registers render metrics with the provided registry.
func NewRenderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RenderMetrics {
	rm := &RenderMetrics{
		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "renders_total",
				Help:      "Total number of query templates rendered",
			},
			[]string{"pattern", "status"},
		),

		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "render_duration_seconds",
				Help:      "Duration of query template rendering in seconds",
				Buckets:   renderDurationBuckets,
			},
			[]string{"pattern"},
		),
	}

	registry.MustRegister(rm.rendersTotal, rm.renderDuration)

	return rm
}

// RecordRender records one render outcome.
func (rm *RenderMetrics) RecordRender(pattern, status string, duration time.Duration) {
	rm.rendersTotal.WithLabelValues(pattern, status).Inc()
	rm.renderDuration.WithLabelValues(pattern).Observe(duration.Seconds())
}
