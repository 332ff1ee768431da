package pack

import (
	"mercator-hq/huntquery/pkg/query/render"
)

// SupportedVersion is the only pack format version understood by Load.
const SupportedVersion = "1"

// Pack is a named collection of hunts.
type Pack struct {
	Version     string `yaml:"version" json:"version"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Hunts       []Hunt `yaml:"hunts" json:"hunts"`

	// Source is the file the pack was loaded from.
	Source string `yaml:"-" json:"-"`
}

// Hunt is one threat hunt: a query pattern plus triage metadata.
type Hunt struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Pattern     string   `yaml:"pattern" json:"pattern"`
	Severity    string   `yaml:"severity,omitempty" json:"severity,omitempty"` // low, medium, high, critical
	MITRE       []string `yaml:"mitre,omitempty" json:"mitre,omitempty"`       // MITRE ATT&CK technique IDs
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Schedule    string   `yaml:"schedule,omitempty" json:"schedule,omitempty"` // standard 5-field cron expression
	Enabled     *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Params      Params   `yaml:"params,omitempty" json:"params,omitempty"`
}

// IsEnabled reports whether the hunt should be rendered. Hunts are enabled
// unless explicitly disabled.
func (h Hunt) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// Params holds per-hunt parameter overrides. Unset fields fall back to the
// configured defaults.
type Params struct {
	AppNames              []string `yaml:"app_names,omitempty" json:"app_names,omitempty"`
	Window                string   `yaml:"window,omitempty" json:"window,omitempty"`
	ChildWindow           string   `yaml:"child_window,omitempty" json:"child_window,omitempty"`
	ExcludeSystemUser     *bool    `yaml:"exclude_system_user,omitempty" json:"exclude_system_user,omitempty"`
	ExcludeStandardPorts  *bool    `yaml:"exclude_standard_ports,omitempty" json:"exclude_standard_ports,omitempty"`
	MinUniqueDestinations *int     `yaml:"min_unique_destinations,omitempty" json:"min_unique_destinations,omitempty"`
	MinParentCount        *int     `yaml:"min_parent_count,omitempty" json:"min_parent_count,omitempty"`
	MinCountries          *int     `yaml:"min_countries,omitempty" json:"min_countries,omitempty"`
}

// Keys returns the parameter keys that are set, in a fixed order.
func (p Params) Keys() []string {
	var keys []string
	if p.AppNames != nil {
		keys = append(keys, render.ParamAppNames)
	}
	if p.Window != "" {
		keys = append(keys, render.ParamWindow)
	}
	if p.ChildWindow != "" {
		keys = append(keys, render.ParamChildWindow)
	}
	if p.ExcludeSystemUser != nil {
		keys = append(keys, render.ParamExcludeSystemUser)
	}
	if p.ExcludeStandardPorts != nil {
		keys = append(keys, render.ParamExcludeStandardPorts)
	}
	if p.MinUniqueDestinations != nil {
		keys = append(keys, render.ParamMinUniqueDestinations)
	}
	if p.MinParentCount != nil {
		keys = append(keys, render.ParamMinParentCount)
	}
	if p.MinCountries != nil {
		keys = append(keys, render.ParamMinCountries)
	}
	return keys
}
