// Package metrics provides Prometheus metrics collection for huntquery.
//
// # Overview
//
// Metrics cover template rendering and hunt pack lifecycle:
//
//   - Render Metrics: render count by pattern and status, render duration
//   - Pack Metrics: hunts per pack, pack reloads, pack render runs
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRender("geographic-beaconing", metrics.StatusSuccess, d)
//
//	// Long-running watch mode
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	// One-shot runs, for the node_exporter textfile collector
//	collector.WriteTextfile(cfg.Telemetry.Metrics.Textfile)
//
// # Metric Names
//
// Every metric is prefixed with the configured namespace and subsystem,
// "huntquery_render_" by default.
package metrics
