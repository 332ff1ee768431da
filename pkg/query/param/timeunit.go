package param

import (
	qerrors "mercator-hq/huntquery/pkg/query/errors"
)

// TimeUnit is a duration unit understood by the query grammar.
// The zero value is not a valid unit.
type TimeUnit int

const (
	Seconds TimeUnit = iota + 1
	Minutes
	Hours
	Days
)

type unitInfo struct {
	token string
	name  string
}

var units = map[TimeUnit]unitInfo{
	Seconds: {token: "s", name: "seconds"},
	Minutes: {token: "m", name: "minutes"},
	Hours:   {token: "h", name: "hours"},
	Days:    {token: "d", name: "days"},
}

// Token returns the single-character grammar token ("s", "m", "h" or "d").
// Invalid units return an empty string.
func (u TimeUnit) Token() string {
	return units[u].token
}

// Name returns the plural English name used in query comments.
func (u TimeUnit) Name() string {
	return units[u].name
}

// Valid reports whether u is one of the four defined units.
func (u TimeUnit) Valid() bool {
	_, ok := units[u]
	return ok
}

// String implements fmt.Stringer.
func (u TimeUnit) String() string {
	if !u.Valid() {
		return "invalid"
	}
	return u.Name()
}

// ParseTimeUnit maps a grammar token back to its TimeUnit.
func ParseTimeUnit(token string) (TimeUnit, error) {
	for u, info := range units {
		if info.token == token {
			return u, nil
		}
	}
	return 0, qerrors.InvalidParameter("unit", "unknown time unit token %q (want s, m, h or d)", token)
}
