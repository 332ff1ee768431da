package metrics

import (
	"time"

	"mercator-hq/huntquery/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every huntquery metric.
// It satisfies the pack renderer's Recorder interface.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	renderMetrics *RenderMetrics
	packMetrics   *PackMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		renderMetrics: NewRenderMetrics(cfg, registry),
		packMetrics:   NewPackMetrics(cfg, registry),
	}
}

// RecordRender records metrics for one template render.
//
// Parameters:
//   - pattern: Template pattern name (e.g., "geographic-beaconing")
//   - status: StatusSuccess or StatusError
//   - duration: Time spent rendering
func (c *Collector) RecordRender(pattern, status string, duration time.Duration) {
	c.renderMetrics.RecordRender(pattern, status, duration)
}

// SetPackHunts records the number of hunts in a loaded pack.
func (c *Collector) SetPackHunts(pack string, count int) {
	c.packMetrics.SetHunts(pack, count)
}

// RecordPackReload records the outcome of a watcher-triggered pack reload.
func (c *Collector) RecordPackReload(status string) {
	c.packMetrics.RecordReload(status)
}

// RecordPackRun records the outcome of rendering a whole pack.
func (c *Collector) RecordPackRun(status string) {
	c.packMetrics.RecordRun(status)
}

// RecordQueryChanges records hunts whose query changed since the previous run.
func (c *Collector) RecordQueryChanges(pack string, n int) {
	c.packMetrics.RecordChanges(pack, n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
