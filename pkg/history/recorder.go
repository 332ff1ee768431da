package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"mercator-hq/huntquery/pkg/pack"
	"mercator-hq/huntquery/pkg/telemetry/logging"

	"github.com/google/uuid"
)

// Recorder writes pack runs to a Store.
type Recorder struct {
	store  Store
	logger *logging.Logger
}

// NewRecorder creates a Recorder. A nil logger discards logs.
func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{store: store, logger: logger}
}

// RecordRun stores one record per result of run. A successful hunt whose
// query hash differs from its previous successful render is marked Changed
// and logged. The stored records are returned in result order.
func (r *Recorder) RecordRun(ctx context.Context, run *pack.Run) ([]*Record, error) {
	ctx = logging.WithRunID(ctx, run.ID)
	ctx = logging.WithPack(ctx, run.Pack)

	records := make([]*Record, 0, len(run.Results))
	for _, res := range run.Results {
		rec := &Record{
			ID:         uuid.New().String(),
			RunID:      run.ID,
			Pack:       run.Pack,
			HuntID:     res.HuntID,
			Pattern:    res.Pattern,
			Severity:   res.Severity,
			Error:      res.Error,
			RenderedAt: run.Started,
		}

		if res.Err == nil {
			rec.Query = res.Query
			rec.QueryHash = HashQuery(res.Query)

			prev, err := r.store.Latest(ctx, run.Pack, res.HuntID)
			if err != nil {
				return nil, fmt.Errorf("previous render of hunt %s: %w", res.HuntID, err)
			}
			if prev != nil && prev.QueryHash != rec.QueryHash {
				rec.Changed = true
				r.logger.InfoContext(logging.WithHuntID(ctx, res.HuntID), "Hunt query changed",
					"previous_run_id", prev.RunID,
					"previous_hash", prev.QueryHash,
					"hash", rec.QueryHash,
				)
			}
		}

		records = append(records, rec)
	}

	if err := r.store.Store(ctx, records); err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "Pack run recorded", "records", len(records), "changed", Changed(records))
	return records, nil
}

// Changed returns the number of records marked Changed.
func Changed(records []*Record) int {
	n := 0
	for _, rec := range records {
		if rec.Changed {
			n++
		}
	}
	return n
}

// HashQuery returns the hex-encoded SHA-256 of a rendered query.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}
