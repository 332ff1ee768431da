package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on huntquery spans.
const (
	AttrRunID    = "huntquery.run_id"
	AttrPack     = "huntquery.pack"
	AttrHunts    = "huntquery.pack.hunts"
	AttrFailed   = "huntquery.pack.failed"
	AttrHuntID   = "huntquery.hunt.id"
	AttrPattern  = "huntquery.hunt.pattern"
	AttrSeverity = "huntquery.hunt.severity"
)

// SetRunAttributes annotates a pack run span.
func SetRunAttributes(span trace.Span, runID, pack string, hunts int) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrPack, pack),
		attribute.Int(AttrHunts, hunts),
	)
}

// SetHuntAttributes annotates a hunt render span. Empty severity is omitted.
func SetHuntAttributes(span trace.Span, huntID, pattern, severity string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrHuntID, huntID),
		attribute.String(AttrPattern, pattern),
	}
	if severity != "" {
		attrs = append(attrs, attribute.String(AttrSeverity, severity))
	}
	span.SetAttributes(attrs...)
}
