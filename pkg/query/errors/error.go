package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType categorizes a rendering failure.
type ErrorType string

const (
	ErrorTypeInvalidParameter ErrorType = "invalid_parameter" // Contract violation on an input value
	ErrorTypeUnknownPattern   ErrorType = "unknown_pattern"   // No template registered under the name
)

var (
	// ErrInvalidParameter is matched by every *Error of type ErrorTypeInvalidParameter.
	ErrInvalidParameter = stderrors.New("invalid parameter")

	// ErrUnknownPattern is matched by every *Error of type ErrorTypeUnknownPattern.
	ErrUnknownPattern = stderrors.New("unknown pattern")
)

// Error is a rendering failure tied to a single parameter.
type Error struct {
	Type    ErrorType // Category of error
	Param   string    // Parameter name (e.g., "app_names", "window")
	Message string    // Human-readable reason
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.sentinel(), e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.sentinel(), e.Param, e.Message)
}

// Is reports whether target is the sentinel for this error's type.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	if e.Type == ErrorTypeUnknownPattern {
		return ErrUnknownPattern
	}
	return ErrInvalidParameter
}

// InvalidParameter creates an ErrorTypeInvalidParameter error for param.
func InvalidParameter(param, format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeInvalidParameter,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// UnknownPattern creates an ErrorTypeUnknownPattern error for name.
func UnknownPattern(name string) *Error {
	return &Error{
		Type:    ErrorTypeUnknownPattern,
		Param:   "pattern",
		Message: fmt.Sprintf("no template registered as %q", name),
	}
}
