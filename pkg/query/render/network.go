package render

import (
	"strings"

	"mercator-hq/huntquery/pkg/query/param"
)

// NetworkFromApplication finds network connections opened by named
// applications shortly after they run.
type NetworkFromApplication struct {
	// AppNames are executable names, e.g. "chrome.exe". Required.
	AppNames []string

	// Window bounds how long after the process event a connection counts.
	Window param.TimeWindow

	// ExcludeSystemUser drops processes owned by the SYSTEM account.
	ExcludeSystemUser bool
}

// DefaultNetworkFromApplication returns the template with a 10 second window
// and the SYSTEM account excluded.
func DefaultNetworkFromApplication(appNames ...string) NetworkFromApplication {
	return NetworkFromApplication{
		AppNames:          appNames,
		Window:            param.MustTimeWindow(10, param.Seconds),
		ExcludeSystemUser: true,
	}
}

// Pattern implements Template.
func (t NetworkFromApplication) Pattern() Pattern {
	return PatternNetworkFromApplication
}

// Render implements Template.
func (t NetworkFromApplication) Render() (string, error) {
	apps, err := StringList(ParamAppNames, t.AppNames)
	if err != nil {
		return "", err
	}
	if err := checkWindow(ParamWindow, t.Window); err != nil {
		return "", err
	}

	return Join(
		Always("process"),
		Always("process.name in "+apps),
		When(t.ExcludeSystemUser, "process.user.user_name != "+Quote(SystemUser)),
		Always(startsWith("process.image_file.path", PathProgramFiles)+
			"\n  or "+startsWith("process.image_file.path", PathUsers)),
		Always(within(t.Window, "network_connection")+
			"\n  // All network connections from "+strings.Join(t.AppNames, ", ")+
			" within "+t.Window.Describe()),
	)
}
