package history

import (
	"context"
	"time"
)

// Record status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is one hunt rendered during one pack run.
type Record struct {
	// ID uniquely identifies the record (UUID).
	ID string `json:"id"`

	// RunID is the pack run that produced the record.
	RunID string `json:"run_id"`

	Pack     string `json:"pack"`
	HuntID   string `json:"hunt_id"`
	Pattern  string `json:"pattern"`
	Severity string `json:"severity,omitempty"`

	// Query is the rendered query text. Empty when rendering failed.
	Query string `json:"query,omitempty"`

	// QueryHash is the hex SHA-256 of Query. Empty when rendering failed.
	QueryHash string `json:"query_hash,omitempty"`

	// Error is the render failure, if any.
	Error string `json:"error,omitempty"`

	// Changed is set when the query differs from the hunt's previous
	// successful render.
	Changed bool `json:"changed"`

	// RenderedAt is the start time of the pack run.
	RenderedAt time.Time `json:"rendered_at"`
}

// Status returns StatusError for failed renders and StatusSuccess otherwise.
func (r *Record) Status() string {
	if r.Error != "" {
		return StatusError
	}
	return StatusSuccess
}

// Query filters records. Zero-valued fields match every record.
type Query struct {
	Pack    string
	HuntID  string
	Pattern string

	// Status is StatusSuccess, StatusError or empty for both.
	Status string

	// StartTime matches records rendered at or after it.
	StartTime *time.Time

	// EndTime matches records rendered strictly before it.
	EndTime *time.Time

	// ChangedOnly matches only records whose query changed.
	ChangedOnly bool

	// Limit caps the number of records returned. 0 means no limit.
	Limit int
}

// Store persists history records. Implementations must be safe for
// concurrent use. Query results are ordered newest first; records of the
// same run come back in reverse insertion order.
type Store interface {
	// Store persists records atomically.
	Store(ctx context.Context, records []*Record) error

	// Query returns the records matching q.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Latest returns the most recent successful record for a hunt, or nil
	// when the hunt has never rendered.
	Latest(ctx context.Context, pack, huntID string) (*Record, error)

	// Count returns the number of records matching q. Limit is ignored.
	Count(ctx context.Context, q *Query) (int64, error)

	// Delete removes the records matching q and returns how many were
	// removed. Limit is ignored.
	Delete(ctx context.Context, q *Query) (int64, error)

	// Trim removes all but the newest keep records.
	Trim(ctx context.Context, keep int64) (int64, error)

	// Close releases the backend's resources.
	Close() error
}
