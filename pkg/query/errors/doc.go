// Package errors provides the error taxonomy for query rendering.
//
// Every failure in the query core is a contract violation detected before any
// text is produced: an empty required list, a negative threshold, an invalid
// time window or an unknown pattern name. Failures are synchronous and never
// transient, so nothing in this package supports retries.
//
// # Basic Usage
//
// Match on the sentinel rather than the concrete type:
//
//	text, err := tmpl.Render()
//	if errors.Is(err, qerrors.ErrInvalidParameter) {
//	    // caller supplied a bad value
//	}
//
// The concrete *Error carries the offending parameter name:
//
//	var qe *qerrors.Error
//	if errors.As(err, &qe) {
//	    fmt.Println(qe.Param)
//	}
package errors
