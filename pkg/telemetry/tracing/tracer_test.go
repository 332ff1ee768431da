package tracing

import (
	"context"
	"errors"
	"testing"

	"mercator-hq/huntquery/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T, sampler string) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	cfg := config.NewDefaultConfig().Telemetry.Tracing
	cfg.Sampler = sampler

	recorder := tracetest.NewSpanRecorder()
	tracer, err := NewWithProcessor(&cfg, "1.0.0", recorder)
	if err != nil {
		t.Fatalf("NewWithProcessor() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, recorder
}

func TestNew(t *testing.T) {
	if _, err := New(nil, "1.0.0"); err == nil {
		t.Error("New(nil) error = nil, want error")
	}

	cfg := config.NewDefaultConfig().Telemetry.Tracing
	tracer, err := New(&cfg, "1.0.0")
	if err != nil {
		t.Fatalf("New(disabled) error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("disabled config produced an enabled tracer")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewWithProcessor_BadSampler(t *testing.T) {
	cfg := config.NewDefaultConfig().Telemetry.Tracing
	cfg.Sampler = "sometimes"

	if _, err := NewWithProcessor(&cfg, "1.0.0", tracetest.NewSpanRecorder()); err == nil {
		t.Error("NewWithProcessor() error = nil, want sampler error")
	}
}

func TestNoop(t *testing.T) {
	tracer := Noop()

	ctx, span := tracer.Start(context.Background(), SpanPackRender)
	defer span.End()

	if span.IsRecording() {
		t.Error("noop span is recording")
	}
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q, want empty", TraceID(ctx))
	}
}

func TestTracer_ParentChild(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, SamplerAlways)

	ctx, run := tracer.Start(context.Background(), SpanPackRender)
	SetRunAttributes(run, "run-1", "workstation", 2)

	_, hunt := tracer.Start(ctx, SpanHuntRender)
	SetHuntAttributes(hunt, "geo", "geographic-beaconing", "")
	SetStatus(hunt, errors.New("boom"))
	hunt.End()

	SetStatus(run, nil)
	run.End()

	if TraceID(ctx) == "" {
		t.Error("TraceID() empty for a recording span")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	huntSpan, runSpan := spans[0], spans[1]
	if huntSpan.Name() != SpanHuntRender || runSpan.Name() != SpanPackRender {
		t.Fatalf("span names = %q, %q", huntSpan.Name(), runSpan.Name())
	}
	if huntSpan.Parent().SpanID() != runSpan.SpanContext().SpanID() {
		t.Error("hunt span is not a child of the run span")
	}
	if huntSpan.Status().Code != codes.Error || runSpan.Status().Code != codes.Ok {
		t.Errorf("statuses = %v, %v", huntSpan.Status().Code, runSpan.Status().Code)
	}
	if len(huntSpan.Events()) != 1 {
		t.Errorf("hunt span events = %d, want 1 recorded error", len(huntSpan.Events()))
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range huntSpan.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrPattern].AsString() != "geographic-beaconing" {
		t.Errorf("pattern attribute = %q", attrs[AttrPattern].AsString())
	}
	if _, ok := attrs[AttrSeverity]; ok {
		t.Error("empty severity was recorded")
	}

	found := false
	for _, kv := range runSpan.Resource().Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "huntquery" {
			found = true
		}
	}
	if !found {
		t.Error("service.name resource attribute missing")
	}
}

func TestTracer_NeverSampler(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, SamplerNever)

	_, span := tracer.Start(context.Background(), SpanPackRender)
	span.End()

	if n := len(recorder.Ended()); n != 0 {
		t.Errorf("never sampler recorded %d spans", n)
	}
}
