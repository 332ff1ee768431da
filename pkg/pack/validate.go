package pack

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/huntquery/pkg/query/param"
	"mercator-hq/huntquery/pkg/query/render"

	"github.com/robfig/cron/v3"
)

// Severities lists the accepted hunt severities, lowest first.
var Severities = []string{"low", "medium", "high", "critical"}

// Problem is a single validation failure within a pack.
type Problem struct {
	// Field is the path of the offending value, e.g. "hunts[2].schedule".
	Field string `json:"field"`

	// HuntID identifies the hunt, when known.
	HuntID string `json:"hunt_id,omitempty"`

	// Message describes the problem.
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// ValidationError collects every problem found in a pack.
type ValidationError struct {
	Source   string
	Problems []Problem
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid hunt pack %s: %s", e.Source, e.Problems[0])
	}

	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("invalid hunt pack %s: %d problems:\n  - %s",
		e.Source, len(e.Problems), strings.Join(msgs, "\n  - "))
}

// Validate checks a decoded pack and returns a *ValidationError listing every
// problem, or nil.
func Validate(p *Pack) error {
	v := &validator{}

	if p.Version != "" && p.Version != SupportedVersion {
		v.add("version", "", "unsupported version %q (want %q)", p.Version, SupportedVersion)
	}
	if len(p.Hunts) == 0 {
		v.add("hunts", "", "pack has no hunts")
	}

	seen := make(map[string]int, len(p.Hunts))
	for i, h := range p.Hunts {
		field := fmt.Sprintf("hunts[%d]", i)

		if h.ID == "" {
			v.add(field+".id", "", "hunt ID is required")
		} else if first, dup := seen[h.ID]; dup {
			v.add(field+".id", h.ID, "duplicate hunt ID (first used by hunts[%d])", first)
		} else {
			seen[h.ID] = i
		}

		v.validateHunt(field, h)
	}

	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Source: p.Source, Problems: v.problems}
}

type validator struct {
	problems []Problem
}

func (v *validator) add(field, huntID, format string, args ...any) {
	v.problems = append(v.problems, Problem{
		Field:   field,
		HuntID:  huntID,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) validateHunt(field string, h Hunt) {
	if h.Severity != "" && !slices.Contains(Severities, h.Severity) {
		v.add(field+".severity", h.ID, "must be one of %s", strings.Join(Severities, ", "))
	}

	if h.Schedule != "" {
		if _, err := cron.ParseStandard(h.Schedule); err != nil {
			v.add(field+".schedule", h.ID, "invalid cron expression: %v", err)
		}
	}

	if h.Pattern == "" {
		v.add(field+".pattern", h.ID, "pattern is required")
		return
	}
	desc, err := render.Lookup(h.Pattern)
	if err != nil {
		v.add(field+".pattern", h.ID, "%v", err)
		return
	}

	for _, key := range h.Params.Keys() {
		if !desc.Accepts(key) {
			v.add(field+".params."+key, h.ID, "not a parameter of pattern %s", desc.Name)
		}
	}

	v.validateParams(field+".params", h)
}

func (v *validator) validateParams(field string, h Hunt) {
	p := h.Params

	windows := []struct {
		key   string
		value string
	}{
		{render.ParamWindow, p.Window},
		{render.ParamChildWindow, p.ChildWindow},
	}
	for _, w := range windows {
		if w.value == "" {
			continue
		}
		if _, err := param.ParseTimeWindow(w.value); err != nil {
			v.add(field+"."+w.key, h.ID, "%v", err)
		}
	}

	thresholds := []struct {
		key   string
		value *int
	}{
		{render.ParamMinUniqueDestinations, p.MinUniqueDestinations},
		{render.ParamMinParentCount, p.MinParentCount},
		{render.ParamMinCountries, p.MinCountries},
	}
	for _, th := range thresholds {
		if th.value != nil && *th.value < 0 {
			v.add(field+"."+th.key, h.ID, "must be >= 0")
		}
	}

	if h.Pattern == string(render.PatternNetworkFromApplication) && len(p.AppNames) == 0 {
		v.add(field+"."+render.ParamAppNames, h.ID, "at least one application name is required")
	}
	for i, name := range p.AppNames {
		if err := render.CheckName(name); err != nil {
			v.add(fmt.Sprintf("%s.%s[%d]", field, render.ParamAppNames, i), h.ID, "application name %v", err)
		}
	}
}
