package pack

import (
	"fmt"

	"mercator-hq/huntquery/pkg/config"
	qerrors "mercator-hq/huntquery/pkg/query/errors"
	"mercator-hq/huntquery/pkg/query/param"
	"mercator-hq/huntquery/pkg/query/render"
)

// Template builds the render template for a hunt. Values come from the
// template's built-in defaults, overridden by d, overridden by the hunt's
// params.
func Template(h Hunt, d config.DefaultsConfig) (render.Template, error) {
	p := h.Params

	switch render.Pattern(h.Pattern) {
	case render.PatternNetworkFromApplication:
		t := render.DefaultNetworkFromApplication(p.AppNames...)
		if err := layerWindow(&t.Window, d.NetworkFromApplication.Window, p.Window); err != nil {
			return nil, err
		}
		layerBool(&t.ExcludeSystemUser, d.NetworkFromApplication.ExcludeSystemUser, p.ExcludeSystemUser)
		return t, nil

	case render.PatternMultiDestinationBeaconing:
		t := render.DefaultMultiDestinationBeaconing()
		layerInt(&t.MinUniqueDestinations, d.MultiDestinationBeaconing.MinUniqueDestinations, p.MinUniqueDestinations)
		if err := layerWindow(&t.Window, d.MultiDestinationBeaconing.Window, p.Window); err != nil {
			return nil, err
		}
		layerBool(&t.ExcludeStandardPorts, d.MultiDestinationBeaconing.ExcludeStandardPorts, p.ExcludeStandardPorts)
		return t, nil

	case render.PatternMultiParentChildNetwork:
		t := render.DefaultMultiParentChildNetwork()
		layerInt(&t.MinParentCount, d.MultiParentChildNetwork.MinParentCount, p.MinParentCount)
		if err := layerWindow(&t.ChildWindow, d.MultiParentChildNetwork.ChildWindow, p.ChildWindow); err != nil {
			return nil, err
		}
		return t, nil

	case render.PatternSuspiciousChildFromOfficeApp:
		return render.SuspiciousChildFromOfficeApp{}, nil

	case render.PatternGeographicBeaconing:
		t := render.DefaultGeographicBeaconing()
		layerInt(&t.MinCountries, d.GeographicBeaconing.MinCountries, p.MinCountries)
		if err := layerWindow(&t.Window, d.GeographicBeaconing.Window, p.Window); err != nil {
			return nil, err
		}
		return t, nil
	}

	return nil, qerrors.UnknownPattern(h.Pattern)
}

// layerWindow overwrites dst with each non-empty literal in turn.
func layerWindow(dst *param.TimeWindow, literals ...string) error {
	for _, lit := range literals {
		if lit == "" {
			continue
		}
		w, err := param.ParseTimeWindow(lit)
		if err != nil {
			return fmt.Errorf("window %q: %w", lit, err)
		}
		*dst = w
	}
	return nil
}

func layerInt(dst *int, values ...*int) {
	for _, v := range values {
		if v != nil {
			*dst = *v
		}
	}
}

func layerBool(dst *bool, values ...*bool) {
	for _, v := range values {
		if v != nil {
			*dst = *v
		}
	}
}
