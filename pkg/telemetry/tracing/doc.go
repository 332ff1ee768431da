// Package tracing provides OpenTelemetry tracing for hunt pack runs.
//
// A pack run opens a "pack.render" span and each hunt a child
// "hunt.render" span, so a slow or failing hunt is visible next to its
// siblings in any OTLP backend.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.25
//
// When tracing is disabled New returns a noop tracer, so callers never
// need to check Enabled before starting spans.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanPackRender)
//	defer span.End()
package tracing
