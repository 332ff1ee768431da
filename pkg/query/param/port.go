package param

import "strconv"

// Port is a well-known network port referenced by query templates.
type Port int

const (
	PortSMTP     Port = 25
	PortDNS      Port = 53
	PortHTTP     Port = 80
	PortKerberos Port = 88
	PortNTP      Port = 123
	PortLDAP     Port = 389
	PortHTTPS    Port = 443
)

var portNames = map[Port]string{
	PortSMTP:     "smtp",
	PortDNS:      "dns",
	PortHTTP:     "http",
	PortKerberos: "kerberos",
	PortNTP:      "ntp",
	PortLDAP:     "ldap",
	PortHTTPS:    "https",
}

// Value returns the canonical port number.
func (p Port) Value() int {
	return int(p)
}

// Literal returns the port number as it appears in query text.
func (p Port) Literal() string {
	return strconv.Itoa(int(p))
}

// String returns the service name, or the number for ports outside the enumeration.
func (p Port) String() string {
	if name, ok := portNames[p]; ok {
		return name
	}
	return p.Literal()
}
