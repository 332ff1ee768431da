package render

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"mercator-hq/huntquery/pkg/query/param"

	qerrors "mercator-hq/huntquery/pkg/query/errors"
)

// pathSeparator is the separator used inside path string literals. The rendered
// text carries four backslash characters per separator; detection content
// already deployed relies on this exact sequence.
const pathSeparator = `\\\\`

// SystemUser is the privileged account excluded by user filters.
const SystemUser = "SYSTEM"

// Fixed path prefixes, rendered as quoted string literals.
const (
	PathProgramFiles = `"C:` + pathSeparator + `Program Files"`
	PathUsers        = `"C:` + pathSeparator + `Users"`
	PathTemp         = `"C:` + pathSeparator + `Temp"`
)

// Fixed literal sets used by the catalogue templates. Callers get copies from
// the accessors below.
var (
	officeParentProcesses    = [...]string{"explorer.exe", "notepad.exe", "mspaint.exe", "winword.exe", "excel.exe"}
	systemToolChildProcesses = [...]string{"powershell.exe", "cmd.exe", "certutil.exe", "bitsadmin.exe"}
	commonBrowsers           = [...]string{"chrome.exe", "firefox.exe", "msedge.exe", "teams.exe"}
	webPorts                 = [...]param.Port{param.PortHTTP, param.PortHTTPS}
	webAndDNSPorts           = [...]param.Port{param.PortHTTP, param.PortHTTPS, param.PortDNS}
)

// OfficeParentProcesses returns the user-facing applications that should
// rarely spawn administrative tooling.
func OfficeParentProcesses() []string {
	return slices.Clone(officeParentProcesses[:])
}

// SystemToolChildProcesses returns the living-off-the-land binaries commonly
// used for download and execution.
func SystemToolChildProcesses() []string {
	return slices.Clone(systemToolChildProcesses[:])
}

// CommonBrowsers returns the browsers excluded from geographic beaconing.
// They legitimately reach many countries.
func CommonBrowsers() []string {
	return slices.Clone(commonBrowsers[:])
}

// WebPorts returns the standard web traffic port set.
func WebPorts() []param.Port {
	return slices.Clone(webPorts[:])
}

// WebAndDNSPorts returns WebPorts extended with DNS.
func WebAndDNSPorts() []param.Port {
	return slices.Clone(webAndDNSPorts[:])
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote renders s as a double-quoted grammar string literal.
func Quote(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// StringList renders values as a bracketed list of quoted strings in input
// order: ["a", "b"]. A single value still uses the list form.
func StringList(name string, values []string) (string, error) {
	if err := CheckNames(name, values); err != nil {
		return "", err
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]", nil
}

// PortList renders ports as a bracketed list of numbers: [80, 443].
func PortList(ports []param.Port) string {
	literals := make([]string, len(ports))
	for i, p := range ports {
		literals[i] = p.Literal()
	}
	return "[" + strings.Join(literals, ", ") + "]"
}

// CheckNames validates a required list of names such as process image names.
// Every value must contain a non-space character and no line break. Pack
// validation uses the same rule so a pack that validates also renders.
func CheckNames(name string, values []string) error {
	if len(values) == 0 {
		return qerrors.InvalidParameter(name, "at least one value is required")
	}
	for i, v := range values {
		if err := CheckName(v); err != nil {
			return qerrors.InvalidParameter(name, "value %d %s", i, err.Error())
		}
	}
	return nil
}

// CheckName reports why a single name is not renderable, or nil.
func CheckName(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("is empty")
	}
	if strings.ContainsAny(v, "\r\n") {
		return errors.New("contains a line break")
	}
	return nil
}

// checkThreshold validates a minimum-count parameter.
func checkThreshold(name string, v int) error {
	if v < 0 {
		return qerrors.InvalidParameter(name, "must be >= 0, got %d", v)
	}
	return nil
}

// checkWindow validates a TimeWindow parameter under the template's own name.
func checkWindow(name string, w param.TimeWindow) error {
	err := w.Validate()
	var qe *qerrors.Error
	if errors.As(err, &qe) {
		return qerrors.InvalidParameter(name, "%s", qe.Message)
	}
	return err
}

func startsWith(field, path string) string {
	return field + ".startsWith(" + path + ")"
}

func atLeast(expr string, n int) string {
	return expr + " >= " + strconv.Itoa(n)
}

func within(w param.TimeWindow, source string) string {
	return "within " + w.Render() + ": " + source
}
