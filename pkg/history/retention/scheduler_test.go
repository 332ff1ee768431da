package retention

import (
	"context"
	"testing"

	"mercator-hq/huntquery/pkg/history/storage"
)

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(newTestPruner(storage.NewMemoryStorage(), Config{PruneSchedule: "0 3 * * *"}))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}

	next := s.NextRun()
	if next == nil || next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want 03:00", next)
	}

	s.Stop()
	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler running after Stop")
	}
	if s.NextRun() != nil {
		t.Error("NextRun() after Stop should be nil")
	}
}

func TestScheduler_NoSchedule(t *testing.T) {
	s := NewScheduler(newTestPruner(storage.NewMemoryStorage(), Config{}))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler running without a schedule")
	}
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(newTestPruner(storage.NewMemoryStorage(), Config{PruneSchedule: "nightly"}))

	if err := s.Start(context.Background()); err == nil {
		s.Stop()
		t.Fatal("Start() accepted an invalid schedule")
	}
}

func TestScheduler_RunPruning(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedDays(t, store, 4)

	s := NewScheduler(newTestPruner(store, Config{MaxRecords: 1}))
	s.runPruning(context.Background())

	if store.Len() != 1 {
		t.Errorf("left = %d, want 1", store.Len())
	}
}
