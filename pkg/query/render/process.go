package render

import (
	"mercator-hq/huntquery/pkg/query/param"
)

// officeChildWindow is the fixed window of SuspiciousChildFromOfficeApp.
var officeChildWindow = param.MustTimeWindow(2, param.Seconds)

// MultiParentChildNetwork detects one child binary launched by several
// distinct parents, each instance talking on a non-standard port.
type MultiParentChildNetwork struct {
	MinParentCount int
	ChildWindow    param.TimeWindow
}

// DefaultMultiParentChildNetwork returns the template with a threshold of 2
// parents and a 10 second child window.
func DefaultMultiParentChildNetwork() MultiParentChildNetwork {
	return MultiParentChildNetwork{
		MinParentCount: 2,
		ChildWindow:    param.MustTimeWindow(10, param.Seconds),
	}
}

// Pattern implements Template.
func (t MultiParentChildNetwork) Pattern() Pattern {
	return PatternMultiParentChildNetwork
}

// Render implements Template.
func (t MultiParentChildNetwork) Render() (string, error) {
	if err := checkThreshold(ParamMinParentCount, t.MinParentCount); err != nil {
		return "", err
	}
	if err := checkWindow(ParamChildWindow, t.ChildWindow); err != nil {
		return "", err
	}

	return Join(
		Always("process as child_process"),
		Always("child_process.ppid != 0"),
		Always(startsWith("child_process.image_file.path", PathUsers)),
		Always("child_process.user.user_name != "+Quote(SystemUser)),
		Always(within(t.ChildWindow, "network_connection as nc")+
			"\n  where nc.process_id == child_process.pid"+
			"\n  and nc.dst_port not in "+PortList(webAndDNSPorts[:])+
			"\n    // Non-standard ports (exclude web/DNS)"),
		Always("any_of(process as parent) where"+
			"\n    parent.pid == child_process.ppid"+
			"\n    and "+atLeast("count(distinct parent.ppid)", t.MinParentCount)+
			"\n    // Same child spawned by multiple parents"),
	)
}

// SuspiciousChildFromOfficeApp detects office and user applications spawning
// system tools that immediately connect on a non-standard port. It has no
// parameters.
type SuspiciousChildFromOfficeApp struct{}

// Pattern implements Template.
func (SuspiciousChildFromOfficeApp) Pattern() Pattern {
	return PatternSuspiciousChildFromOfficeApp
}

// Render implements Template.
func (SuspiciousChildFromOfficeApp) Render() (string, error) {
	parents, err := StringList("parents", officeParentProcesses[:])
	if err != nil {
		return "", err
	}
	children, err := StringList("children", systemToolChildProcesses[:])
	if err != nil {
		return "", err
	}

	return Join(
		Always("process as parent"),
		Always("parent.name in "+parents+
			"\n  // Office/user apps spawning system tools"),
		Always("childprocess"),
		Always("childprocess.name in "+children),
		Always(within(officeChildWindow, "network_connection")+
			"\n  where network_connection.process_id == childprocess.pid"+
			"\n  and network_connection.dst_port not in "+PortList(webAndDNSPorts[:])+
			"\n    // Non-standard port suggests C2, not normal update/web traffic"),
	)
}
