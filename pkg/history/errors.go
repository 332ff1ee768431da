package history

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is the cause reported by a Store used after Close.
var ErrClosed = errors.New("history store closed")

// StorageError wraps a failed backend operation.
type StorageError struct {
	Backend   string // "sqlite", "sqlite3" or "memory"
	Operation string // "store", "query", "trim", ...
	Cause     error
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// RetentionError reports a pruning pass that failed, with the limits it
// was enforcing.
type RetentionError struct {
	RetentionDays int
	MaxRecords    int64
	Cause         error
}

func (e *RetentionError) Error() string {
	var limits []string
	if e.RetentionDays > 0 {
		limits = append(limits, fmt.Sprintf("older than %dd", e.RetentionDays))
	}
	if e.MaxRecords > 0 {
		limits = append(limits, fmt.Sprintf("beyond %d records", e.MaxRecords))
	}
	if len(limits) == 0 {
		return fmt.Sprintf("pruning history: %v", e.Cause)
	}
	return fmt.Sprintf("pruning history (%s): %v", strings.Join(limits, ", "), e.Cause)
}

func (e *RetentionError) Unwrap() error {
	return e.Cause
}
