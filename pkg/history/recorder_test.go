package history_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mercator-hq/huntquery/pkg/history"
	"mercator-hq/huntquery/pkg/history/storage"
	"mercator-hq/huntquery/pkg/pack"
	"mercator-hq/huntquery/pkg/telemetry/logging"
)

func run(id string, started time.Time, results ...pack.Result) *pack.Run {
	return &pack.Run{ID: id, Pack: "workstation", Started: started, Results: results}
}

func ok(hunt, query string) pack.Result {
	return pack.Result{HuntID: hunt, Pattern: "geographic-beaconing", Severity: "high", Query: query}
}

func failed(hunt string) pack.Result {
	err := errors.New("app_names is required")
	return pack.Result{HuntID: hunt, Pattern: "network-from-application", Error: err.Error(), Err: err}
}

func TestRecorder_RecordRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	rec := history.NewRecorder(store, logger)

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := rec.RecordRun(ctx, run("run-1", t0, ok("geo", "q1"), ok("beacon", "b1"), failed("apps")))
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if len(first) != 3 || history.Changed(first) != 0 {
		t.Fatalf("first run = %d records, %d changed; want 3, 0", len(first), history.Changed(first))
	}
	if first[0].QueryHash != history.HashQuery("q1") || first[0].RunID != "run-1" || !first[0].RenderedAt.Equal(t0) {
		t.Errorf("first record = %+v", first[0])
	}
	if first[2].Query != "" || first[2].QueryHash != "" || first[2].Status() != history.StatusError {
		t.Errorf("failed record = %+v", first[2])
	}

	// geo changes, beacon does not, apps now renders for the first time
	second, err := rec.RecordRun(ctx, run("run-2", t0.Add(time.Hour), ok("geo", "q2"), ok("beacon", "b1"), ok("apps", "a1")))
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	changed := map[string]bool{}
	for _, r := range second {
		changed[r.HuntID] = r.Changed
	}
	if !changed["geo"] || changed["beacon"] || changed["apps"] {
		t.Errorf("changed = %v, want only geo", changed)
	}

	if store.Len() != 6 {
		t.Errorf("stored = %d, want 6", store.Len())
	}

	logs := buf.String()
	if strings.Count(logs, "Hunt query changed") != 1 {
		t.Errorf("expected one change log, got:\n%s", logs)
	}
	if !strings.Contains(logs, `"previous_run_id":"run-1"`) || !strings.Contains(logs, `"hunt_id":"geo"`) {
		t.Errorf("change log missing fields:\n%s", logs)
	}
}

func TestRecorder_FailureKeepsPreviousBaseline(t *testing.T) {
	ctx := context.Background()
	rec := history.NewRecorder(storage.NewMemoryStorage(), nil)
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []struct {
		result      pack.Result
		wantChanged bool
	}{
		{ok("geo", "q1"), false},
		{failed("geo"), false},
		{ok("geo", "q1"), false},
		{ok("geo", "q2"), true},
	}

	for i, step := range steps {
		records, err := rec.RecordRun(ctx, run("run", t0.Add(time.Duration(i)*time.Minute), step.result))
		if err != nil {
			t.Fatalf("step %d: RecordRun() error = %v", i, err)
		}
		if records[0].Changed != step.wantChanged {
			t.Errorf("step %d: Changed = %v, want %v", i, records[0].Changed, step.wantChanged)
		}
	}
}

func TestHashQuery(t *testing.T) {
	h := history.HashQuery("")
	if h != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("HashQuery(\"\") = %s", h)
	}
	if history.HashQuery("a") == history.HashQuery("b") {
		t.Error("distinct queries hashed equal")
	}
}
