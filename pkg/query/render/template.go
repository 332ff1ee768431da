package render

import (
	"slices"

	qerrors "mercator-hq/huntquery/pkg/query/errors"
)

// Pattern names a threat-hunting template.
type Pattern string

const (
	PatternNetworkFromApplication       Pattern = "network-from-application"
	PatternMultiDestinationBeaconing    Pattern = "multi-destination-beaconing"
	PatternMultiParentChildNetwork      Pattern = "multi-parent-child-network"
	PatternSuspiciousChildFromOfficeApp Pattern = "suspicious-child-from-office-app"
	PatternGeographicBeaconing          Pattern = "geographic-beaconing"
)

// Parameter keys accepted by templates. Outer layers (hunt packs, config)
// use the same keys.
const (
	ParamAppNames              = "app_names"
	ParamWindow                = "window"
	ParamChildWindow           = "child_window"
	ParamExcludeSystemUser     = "exclude_system_user"
	ParamExcludeStandardPorts  = "exclude_standard_ports"
	ParamMinUniqueDestinations = "min_unique_destinations"
	ParamMinParentCount        = "min_parent_count"
	ParamMinCountries          = "min_countries"
)

// Template is a renderable threat-hunting pattern.
type Template interface {
	// Pattern returns the template's registered name.
	Pattern() Pattern

	// Render returns the complete query text, or an ErrInvalidParameter
	// error without any partial output.
	Render() (string, error)
}

// Descriptor describes a registered pattern.
type Descriptor struct {
	Name        Pattern  `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

// Accepts reports whether key is a parameter of the pattern.
func (d Descriptor) Accepts(key string) bool {
	return slices.Contains(d.Params, key)
}

var registry = []Descriptor{
	{
		Name:        PatternNetworkFromApplication,
		Description: "Named application opens a network connection within the window",
		Params:      []string{ParamAppNames, ParamWindow, ParamExcludeSystemUser},
	},
	{
		Name:        PatternMultiDestinationBeaconing,
		Description: "Process connects to at least N distinct destination addresses within the window",
		Params:      []string{ParamMinUniqueDestinations, ParamWindow, ParamExcludeStandardPorts},
	},
	{
		Name:        PatternMultiParentChildNetwork,
		Description: "Child process seen under at least N parents, each making a non-standard-port connection",
		Params:      []string{ParamMinParentCount, ParamChildWindow},
	},
	{
		Name:        PatternSuspiciousChildFromOfficeApp,
		Description: "Office or user application spawns a system tool that connects on a non-standard port",
		Params:      []string{},
	},
	{
		Name:        PatternGeographicBeaconing,
		Description: "Non-browser process connects to at least N distinct countries within the window",
		Params:      []string{ParamMinCountries, ParamWindow},
	},
}

// Patterns returns every registered pattern in catalogue order.
func Patterns() []Descriptor {
	out := make([]Descriptor, len(registry))
	for i, d := range registry {
		d.Params = slices.Clone(d.Params)
		out[i] = d
	}
	return out
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (Descriptor, error) {
	for _, d := range registry {
		if string(d.Name) == name {
			d.Params = slices.Clone(d.Params)
			return d, nil
		}
	}
	return Descriptor{}, qerrors.UnknownPattern(name)
}

// Defaults returns a template of the named pattern populated with its
// default parameters. Patterns that need caller input (application names)
// are returned with those fields empty.
func Defaults(p Pattern) (Template, error) {
	switch p {
	case PatternNetworkFromApplication:
		return DefaultNetworkFromApplication(), nil
	case PatternMultiDestinationBeaconing:
		return DefaultMultiDestinationBeaconing(), nil
	case PatternMultiParentChildNetwork:
		return DefaultMultiParentChildNetwork(), nil
	case PatternSuspiciousChildFromOfficeApp:
		return SuspiciousChildFromOfficeApp{}, nil
	case PatternGeographicBeaconing:
		return DefaultGeographicBeaconing(), nil
	default:
		return nil, qerrors.UnknownPattern(string(p))
	}
}
