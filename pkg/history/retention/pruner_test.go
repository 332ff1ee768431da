package retention

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/history"
	"mercator-hq/huntquery/pkg/history/storage"
)

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

// seedDays stores one record per day, ending today.
func seedDays(t *testing.T, s history.Store, days int) {
	t.Helper()
	var records []*history.Record
	for i := range days {
		records = append(records, &history.Record{
			ID:         fmt.Sprintf("day-%d", i),
			RunID:      fmt.Sprintf("run-%d", i),
			Pack:       "workstation",
			HuntID:     "geo",
			Pattern:    "geographic-beaconing",
			RenderedAt: now.AddDate(0, 0, -i),
		})
	}
	if err := s.Store(context.Background(), records); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
}

func newTestPruner(s history.Store, cfg Config) *Pruner {
	p := NewPruner(s, cfg, nil)
	p.now = func() time.Time { return now }
	return p
}

func TestPruner_Prune(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantDeleted int64
		wantLeft    int
	}{
		{name: "nothing configured", config: Config{}, wantDeleted: 0, wantLeft: 10},
		{name: "by age", config: Config{RetentionDays: 7}, wantDeleted: 2, wantLeft: 8},
		{name: "by count", config: Config{MaxRecords: 3}, wantDeleted: 7, wantLeft: 3},
		{name: "age then count", config: Config{RetentionDays: 7, MaxRecords: 5}, wantDeleted: 5, wantLeft: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStorage()
			seedDays(t, s, 10)

			deleted, err := newTestPruner(s, tt.config).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}
			if s.Len() != tt.wantLeft {
				t.Errorf("left = %d, want %d", s.Len(), tt.wantLeft)
			}
		})
	}
}

func TestPruner_KeepsNewest(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedDays(t, s, 5)

	if _, err := newTestPruner(s, Config{MaxRecords: 2}).Prune(context.Background()); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	left, _ := s.Query(context.Background(), nil)
	if len(left) != 2 || left[0].ID != "day-0" || left[1].ID != "day-1" {
		t.Errorf("left = %+v, want day-0 and day-1", left)
	}
}

// store aliases history.Store so the embedded field is not named Store,
// which would shadow the interface's Store method.
type store = history.Store

type failingStore struct {
	store
}

func (failingStore) Delete(context.Context, *history.Query) (int64, error) {
	return 0, errors.New("disk full")
}

func TestPruner_Error(t *testing.T) {
	_, err := newTestPruner(failingStore{storage.NewMemoryStorage()}, Config{RetentionDays: 1}).Prune(context.Background())

	var rerr *history.RetentionError
	if !errors.As(err, &rerr) || rerr.RetentionDays != 1 {
		t.Fatalf("error = %v, want RetentionError", err)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.HistoryConfig{RetentionDays: 30, MaxRecords: 1000, PruneSchedule: "0 4 * * *"})
	if cfg.RetentionDays != 30 || cfg.MaxRecords != 1000 || cfg.PruneSchedule != "0 4 * * *" {
		t.Errorf("ConfigFrom() = %+v", cfg)
	}
}
