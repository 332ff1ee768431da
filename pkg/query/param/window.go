package param

import (
	"strconv"

	qerrors "mercator-hq/huntquery/pkg/query/errors"
)

// TimeWindow is a correlation window: a positive magnitude of a TimeUnit.
//
// Two windows are equal only when magnitude and unit are both equal; 5m and
// 300s are distinct values. The zero value is invalid and is rejected by
// Validate.
type TimeWindow struct {
	magnitude int
	unit      TimeUnit
}

// NewTimeWindow creates a TimeWindow. It fails with ErrInvalidParameter when
// magnitude is not positive or unit is not a defined TimeUnit.
func NewTimeWindow(magnitude int, unit TimeUnit) (TimeWindow, error) {
	w := TimeWindow{magnitude: magnitude, unit: unit}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// MustTimeWindow is like NewTimeWindow but panics on error.
// It is intended for package-level defaults built from constants.
func MustTimeWindow(magnitude int, unit TimeUnit) TimeWindow {
	w, err := NewTimeWindow(magnitude, unit)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseTimeWindow parses a duration literal such as "2m" or "10s". The
// magnitude is plain decimal digits with no sign or leading zero, so a parsed
// window renders back to the same text.
func ParseTimeWindow(s string) (TimeWindow, error) {
	if len(s) < 2 {
		return TimeWindow{}, qerrors.InvalidParameter("window", "malformed duration literal %q", s)
	}
	unit, err := ParseTimeUnit(s[len(s)-1:])
	if err != nil {
		return TimeWindow{}, qerrors.InvalidParameter("window", "malformed duration literal %q: unknown unit", s)
	}
	digits := s[:len(s)-1]
	if !canonicalDigits(digits) {
		return TimeWindow{}, qerrors.InvalidParameter("window", "malformed duration literal %q: magnitude must be a positive integer without sign or leading zero", s)
	}
	magnitude, err := strconv.Atoi(digits)
	if err != nil {
		return TimeWindow{}, qerrors.InvalidParameter("window", "malformed duration literal %q: magnitude is not an integer", s)
	}
	return NewTimeWindow(magnitude, unit)
}

func canonicalDigits(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Magnitude returns the window's count of units.
func (w TimeWindow) Magnitude() int {
	return w.magnitude
}

// Unit returns the window's unit.
func (w TimeWindow) Unit() TimeUnit {
	return w.unit
}

// Validate checks the construction invariants. It exists so that zero-value
// windows embedded in template structs are caught at render time.
func (w TimeWindow) Validate() error {
	if w.magnitude <= 0 {
		return qerrors.InvalidParameter("window", "magnitude must be positive, got %d", w.magnitude)
	}
	if !w.unit.Valid() {
		return qerrors.InvalidParameter("window", "unknown time unit %d", int(w.unit))
	}
	return nil
}

// Render returns the grammar duration literal, e.g. "2m".
func (w TimeWindow) Render() string {
	return strconv.Itoa(w.magnitude) + w.unit.Token()
}

// String implements fmt.Stringer and matches Render.
func (w TimeWindow) String() string {
	return w.Render()
}

// Describe returns the human form used in query comments, e.g. "10 seconds".
func (w TimeWindow) Describe() string {
	return strconv.Itoa(w.magnitude) + " " + w.unit.Name()
}

// MarshalText implements encoding.TextMarshaler.
func (w TimeWindow) MarshalText() ([]byte, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return []byte(w.Render()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that YAML and JSON
// documents can carry windows as "2m".
func (w *TimeWindow) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeWindow(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
