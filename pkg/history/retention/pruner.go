package retention

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/history"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep records.
	// 0 keeps records forever.
	RetentionDays int

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// ConfigFrom extracts the retention settings of a history config.
func ConfigFrom(cfg config.HistoryConfig) Config {
	return Config{
		RetentionDays: cfg.RetentionDays,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Pruner enforces retention on a history store.
type Pruner struct {
	store  history.Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// NewPruner creates a pruner. A nil logger uses slog.Default.
func NewPruner(store history.Store, cfg Config, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		config: cfg,
		logger: logger.With("component", "history.retention"),
		now:    time.Now,
	}
}

// Prune deletes records older than the retention period, then trims the
// store to MaxRecords. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.Delete(ctx, &history.Query{EndTime: &cutoff})
		if err != nil {
			return total, p.wrap(err)
		}
		total += deleted
		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.Trim(ctx, p.config.MaxRecords)
		if err != nil {
			return total, p.wrap(err)
		}
		total += deleted
		p.logger.Debug("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return total, nil
}

func (p *Pruner) wrap(err error) error {
	return &history.RetentionError{
		RetentionDays: p.config.RetentionDays,
		MaxRecords:    p.config.MaxRecords,
		Cause:         err,
	}
}
