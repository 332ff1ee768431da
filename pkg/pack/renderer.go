package pack

import (
	"context"
	"errors"
	"time"

	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/telemetry/logging"
	"mercator-hq/huntquery/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Render outcome labels passed to Recorder.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder receives one call per rendered hunt. The metrics collector
// implements it.
type Recorder interface {
	RecordRender(pattern, status string, duration time.Duration)
}

// Result is the outcome of rendering one hunt.
type Result struct {
	RunID       string     `json:"run_id"`
	HuntID      string     `json:"hunt_id"`
	Pattern     string     `json:"pattern"`
	Description string     `json:"description,omitempty"`
	Severity    string     `json:"severity,omitempty"`
	MITRE       []string   `json:"mitre,omitempty"`
	Schedule    string     `json:"schedule,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	Query       string     `json:"query,omitempty"`
	Error       string     `json:"error,omitempty"`

	// Err is the render failure, if any.
	Err error `json:"-"`
}

// Run is one rendering pass over a pack.
type Run struct {
	ID      string    `json:"run_id"`
	Pack    string    `json:"pack"`
	Started time.Time `json:"started"`
	Results []Result  `json:"results"`
}

// Failed returns the number of hunts that did not render.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Err joins every hunt failure of the run, or returns nil.
func (r *Run) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Defaults are the organisation-wide template defaults.
	Defaults config.DefaultsConfig

	// Concurrency bounds the number of hunts rendered at once.
	Concurrency int

	// Recorder receives render outcomes. Optional.
	Recorder Recorder

	// Logger receives per-hunt logs. Optional.
	Logger *logging.Logger

	// Tracer opens a span per run and per hunt. Optional.
	Tracer *tracing.Tracer

	// Now returns the current time, used for next scheduled runs.
	// Defaults to time.Now.
	Now func() time.Time
}

// Renderer renders hunt packs.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer, filling unset config fields with defaults.
func NewRenderer(cfg RendererConfig) *Renderer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = config.DefaultPackConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracing.Noop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Renderer{config: cfg}
}

// Render renders every enabled hunt in p. Results keep pack order. A hunt
// that fails to render is reported in its Result and does not stop the
// others; Render itself fails only when ctx is cancelled.
func (r *Renderer) Render(ctx context.Context, p *Pack) (*Run, error) {
	run := &Run{
		ID:      uuid.New().String(),
		Pack:    p.Name,
		Started: r.config.Now(),
	}

	ctx = logging.WithRunID(ctx, run.ID)
	ctx = logging.WithPack(ctx, p.Name)

	var hunts []Hunt
	for _, h := range p.Hunts {
		if h.IsEnabled() {
			hunts = append(hunts, h)
		}
	}
	run.Results = make([]Result, len(hunts))

	ctx, span := r.config.Tracer.Start(ctx, tracing.SpanPackRender)
	defer span.End()
	tracing.SetRunAttributes(span, run.ID, p.Name, len(hunts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i, h := range hunts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run.Results[i] = r.renderHunt(gctx, run, h)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		tracing.SetStatus(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrFailed, run.Failed()))
	tracing.SetStatus(span, run.Err())

	r.config.Logger.InfoContext(ctx, "Hunt pack rendered",
		"hunts", len(run.Results),
		"failed", run.Failed(),
	)

	return run, nil
}

func (r *Renderer) renderHunt(ctx context.Context, run *Run, h Hunt) Result {
	ctx = logging.WithHuntID(ctx, h.ID)
	ctx = logging.WithPattern(ctx, h.Pattern)

	ctx, span := r.config.Tracer.Start(ctx, tracing.SpanHuntRender)
	defer span.End()
	tracing.SetHuntAttributes(span, h.ID, h.Pattern, h.Severity)

	res := Result{
		RunID:       run.ID,
		HuntID:      h.ID,
		Pattern:     h.Pattern,
		Description: h.Description,
		Severity:    h.Severity,
		MITRE:       h.MITRE,
		Schedule:    h.Schedule,
	}

	start := time.Now()
	query, err := r.renderQuery(h)
	duration := time.Since(start)

	if err == nil && h.Schedule != "" {
		var sched cron.Schedule
		if sched, err = cron.ParseStandard(h.Schedule); err == nil {
			next := sched.Next(run.Started)
			res.NextRun = &next
		}
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
		res.Err = &HuntError{HuntID: h.ID, Err: err}
		res.Error = err.Error()
		r.config.Logger.WarnContext(ctx, "Hunt render failed", "error", err)
	} else {
		res.Query = query
		r.config.Logger.DebugContext(ctx, "Hunt rendered", "duration_us", duration.Microseconds())
	}

	tracing.SetStatus(span, err)

	if r.config.Recorder != nil {
		r.config.Recorder.RecordRender(h.Pattern, status, duration)
	}

	return res
}

func (r *Renderer) renderQuery(h Hunt) (string, error) {
	t, err := Template(h, r.config.Defaults)
	if err != nil {
		return "", err
	}
	return t.Render()
}

// HuntError ties a render failure to its hunt.
type HuntError struct {
	HuntID string
	Err    error
}

func (e *HuntError) Error() string {
	return "hunt " + e.HuntID + ": " + e.Err.Error()
}

func (e *HuntError) Unwrap() error {
	return e.Err
}
