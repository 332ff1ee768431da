// Package telemetry groups huntquery's observability packages.
//
// # Components
//
//   - logging: Structured slog logging with run, pack and hunt context fields
//   - metrics: Prometheus render and pack metrics, HTTP and textfile export
//   - tracing: OpenTelemetry spans per pack run and per hunt render
//   - health: Liveness, readiness and version endpoints for watch mode
//
// # Configuration
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    listen_address: "127.0.0.1:9464"
//	    textfile: /var/lib/node_exporter/huntquery.prom
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//
// The metrics listener also serves /health, /ready and /version. Readiness
// follows the outcome of the most recent pack run.
package telemetry
