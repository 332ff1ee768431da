package render

import (
	"slices"
	"strconv"

	"mercator-hq/huntquery/pkg/query/param"
)

// MultiDestinationBeaconing detects a process reaching many distinct
// destination addresses in a short window.
type MultiDestinationBeaconing struct {
	MinUniqueDestinations int
	Window                param.TimeWindow

	// ExcludeStandardPorts drops connections on the web ports 80 and 443.
	ExcludeStandardPorts bool
}

// DefaultMultiDestinationBeaconing returns the template with a threshold of
// 5 destinations in 2 minutes and standard ports excluded.
func DefaultMultiDestinationBeaconing() MultiDestinationBeaconing {
	return MultiDestinationBeaconing{
		MinUniqueDestinations: 5,
		Window:                param.MustTimeWindow(2, param.Minutes),
		ExcludeStandardPorts:  true,
	}
}

// Pattern implements Template.
func (t MultiDestinationBeaconing) Pattern() Pattern {
	return PatternMultiDestinationBeaconing
}

// Render implements Template.
func (t MultiDestinationBeaconing) Render() (string, error) {
	if err := checkThreshold(ParamMinUniqueDestinations, t.MinUniqueDestinations); err != nil {
		return "", err
	}
	if err := checkWindow(ParamWindow, t.Window); err != nil {
		return "", err
	}

	return Join(
		Always("process"),
		Always("process.ppid != 0"),
		Always(startsWith("process.image_file.path", PathUsers)+
			"\n  or "+startsWith("process.image_file.path", PathTemp)),
		Always(within(t.Window, "network_connection as nc")),
		Always(atLeast("count(distinct nc.dst_ipv4)", t.MinUniqueDestinations)),
		When(t.ExcludeStandardPorts, standardPortExclusion()+
			"\n  // Non-standard ports suggest C2"),
	)
}

// standardPortExclusion filters aggregated destination ports against the web
// port set: the lowest port must not be the highest web port and the highest
// port must not be the lowest one.
func standardPortExclusion() string {
	low, high := slices.Min(webPorts[:]), slices.Max(webPorts[:])
	return "min(nc.dst_port) != " + high.Literal() +
		" and max(nc.dst_port) != " + low.Literal()
}

// GeographicBeaconing detects a non-browser process whose connections resolve
// to many distinct countries.
type GeographicBeaconing struct {
	MinCountries int
	Window       param.TimeWindow
}

// DefaultGeographicBeaconing returns the template with a threshold of 3
// countries in 5 minutes.
func DefaultGeographicBeaconing() GeographicBeaconing {
	return GeographicBeaconing{
		MinCountries: 3,
		Window:       param.MustTimeWindow(5, param.Minutes),
	}
}

// Pattern implements Template.
func (t GeographicBeaconing) Pattern() Pattern {
	return PatternGeographicBeaconing
}

// Render implements Template.
func (t GeographicBeaconing) Render() (string, error) {
	if err := checkThreshold(ParamMinCountries, t.MinCountries); err != nil {
		return "", err
	}
	if err := checkWindow(ParamWindow, t.Window); err != nil {
		return "", err
	}
	browsers, err := StringList("browsers", commonBrowsers[:])
	if err != nil {
		return "", err
	}

	return Join(
		Always("process"),
		Always("process.ppid != 0"),
		Always("process.user.user_name != "+Quote(SystemUser)),
		Always("process.name not in "+browsers),
		Always(within(t.Window, "network_connection as nc")),
		Always(atLeast("count(distinct getCountry(nc.dst_ipv4))", t.MinCountries)+
			"\n  // Connections to "+strconv.Itoa(t.MinCountries)+"+ countries is unusual and suggests C2"),
	)
}
