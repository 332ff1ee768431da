package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/huntquery/pkg/history"
)

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "huntquery.yaml", `
history:
  enabled: true
  path: `+filepath.Join(dir, "history.db")+`
  max_records: 1
`)
	packPath := writeTestFile(t, dir, "hunts.yaml", testPack)

	if _, err := executeCommand(t, "pack", "--config", cfgPath, "--file", packPath); err != nil {
		t.Fatalf("first pack run error = %v", err)
	}

	writeTestFile(t, dir, "hunts.yaml", strings.Replace(testPack, `    severity: medium
`, `    severity: medium
    params:
      min_countries: 5
`, 1))
	if _, err := executeCommand(t, "pack", "--config", cfgPath, "--file", packPath); err != nil {
		t.Fatalf("second pack run error = %v", err)
	}

	out, err := executeCommand(t, "history", "--config", cfgPath, "--changed", "--format", "json")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var changed []history.Record
	if err := json.Unmarshal([]byte(out), &changed); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, out)
	}
	if len(changed) != 1 || changed[0].HuntID != "geo" || !strings.Contains(changed[0].Query, ">= 5") {
		t.Errorf("changed records = %+v, want geo with >= 5", changed)
	}

	out, err = executeCommand(t, "history", "--config", cfgPath, "--hunt", "geo")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "workstation/geo") || !strings.Contains(lines[0], "changed") {
		t.Errorf("history text output:\n%s", out)
	}

	out, err = executeCommand(t, "history", "prune", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history prune error = %v", err)
	}
	if !strings.Contains(out, "Pruned 3 records") {
		t.Errorf("prune output = %q", out)
	}

	out, err = executeCommand(t, "history", "--config", cfgPath, "--format", "csv")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if rows := strings.Split(strings.TrimSpace(out), "\n"); len(rows) != 2 || !strings.HasPrefix(rows[0], "rendered_at,run_id") {
		t.Errorf("csv after prune:\n%s", out)
	}
}

func TestHistoryCommand_Empty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "huntquery.yaml", "history:\n  path: "+filepath.Join(dir, "history.db")+"\n")

	out, err := executeCommand(t, "history", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if strings.TrimSpace(out) != "No records" {
		t.Errorf("output = %q, want No records", out)
	}
}

func TestHistoryCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	memCfg := writeTestFile(t, dir, "mem.yaml", "history:\n  driver: memory\n")

	if _, err := executeCommand(t, "history", "--config", memCfg); err == nil {
		t.Error("history with the memory driver should fail")
	}

	cfgPath := writeTestFile(t, dir, "huntquery.yaml", "history:\n  path: "+filepath.Join(dir, "history.db")+"\n")
	if _, err := executeCommand(t, "history", "--config", cfgPath, "--status", "skipped"); err == nil {
		t.Error("invalid --status accepted")
	}
}
