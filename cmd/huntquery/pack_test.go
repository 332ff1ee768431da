package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/telemetry/tracing"
)

const testPack = `
version: "1"
name: workstation
hunts:
  - id: beacon-fanout
    pattern: multi-destination-beaconing
    severity: high
    mitre: [T1071]
    schedule: "0 * * * *"
    params:
      min_unique_destinations: 8
  - id: geo
    pattern: geographic-beaconing
    severity: medium
  - id: office
    pattern: suspicious-child-from-office-app
    enabled: false
`

func TestPackCommand_Text(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "hunts.yaml", testPack)

	out, err := executeCommand(t, "pack", "--file", path)
	if err != nil {
		t.Fatalf("pack error = %v", err)
	}

	for _, want := range []string{
		"# beacon-fanout (multi-destination-beaconing) severity=high mitre=T1071 next_run=",
		"count(distinct nc.dst_ipv4) >= 8",
		"# geo (geographic-beaconing) severity=medium",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "# office") {
		t.Errorf("disabled hunt was rendered:\n%s", out)
	}
}

func TestPackCommand_JSON(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "hunts.yaml", testPack)

	out, err := executeCommand(t, "pack", "--file", path, "--format", "json", "--concurrency", "1")
	if err != nil {
		t.Fatalf("pack error = %v", err)
	}

	var got struct {
		RunID   string `json:"run_id"`
		Pack    string `json:"pack"`
		Results []struct {
			RunID   string  `json:"run_id"`
			HuntID  string  `json:"hunt_id"`
			Query   string  `json:"query"`
			NextRun *string `json:"next_run"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if got.Pack != "workstation" || got.RunID == "" {
		t.Errorf("run = %+v", got)
	}
	if len(got.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(got.Results))
	}
	if got.Results[0].RunID != got.RunID {
		t.Errorf("result run ID %q, want %q", got.Results[0].RunID, got.RunID)
	}
	if got.Results[0].NextRun == nil || got.Results[1].NextRun != nil {
		t.Errorf("next_run = %v, %v", got.Results[0].NextRun, got.Results[1].NextRun)
	}
}

func TestPackCommand_PackPathFromConfig(t *testing.T) {
	dir := t.TempDir()
	packPath := writeTestFile(t, dir, "hunts.yaml", testPack)
	cfgPath := writeTestFile(t, dir, "huntquery.yaml", "pack:\n  path: "+packPath+"\n")

	out, err := executeCommand(t, "pack", "--config", cfgPath)
	if err != nil {
		t.Fatalf("pack error = %v", err)
	}
	if !strings.Contains(out, "# geo") {
		t.Errorf("pack from config path not rendered:\n%s", out)
	}
}

func TestPackCommand_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "hunts.yaml", testPack)
	textfile := filepath.Join(dir, "huntquery.prom")

	if _, err := executeCommand(t, "pack", "--file", path, "--metrics-textfile", textfile); err != nil {
		t.Fatalf("pack error = %v", err)
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{
		`huntquery_render_renders_total{pattern="geographic-beaconing",status="success"} 1`,
		`huntquery_render_pack_hunts{pack="workstation"} 3`,
		`huntquery_render_pack_runs_total{status="success"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestPackCommand_HuntFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "hunts.yaml", `
hunts:
  - id: ok
    pattern: geographic-beaconing
`)
	cfgPath := writeTestFile(t, dir, "huntquery.yaml", `
defaults:
  geographic_beaconing:
    min_countries: 2
`)

	if _, err := executeCommand(t, "pack", "--file", path, "--config", cfgPath); err != nil {
		t.Fatalf("pack error = %v", err)
	}

	bad := writeTestFile(t, dir, "bad.yaml", `
hunts:
  - id: apps
    pattern: network-from-application
    params:
      app_names: ["bad\nname"]
`)
	out, err := executeCommand(t, "pack", "--file", bad)
	if err == nil {
		t.Fatal("expected error when a hunt fails to render")
	}
	if !strings.Contains(out, "# FAILED:") {
		t.Errorf("failed hunt not reported:\n%s", out)
	}
}

func TestPackCommand_InvalidPack(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "hunts.yaml", `
hunts:
  - id: a
    pattern: dns-tunnel
`)

	_, err := executeCommand(t, "pack", "--file", path)
	if err == nil || !strings.Contains(err.Error(), "dns-tunnel") {
		t.Errorf("pack error = %v, want unknown pattern", err)
	}
}

func TestPackSession_Readiness(t *testing.T) {
	saved := packFlags
	t.Cleanup(func() { packFlags = saved })
	packFlags.file, packFlags.concurrency, packFlags.metricsTextfile = "", 0, ""

	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Pack.Path = writeTestFile(t, dir, "hunts.yaml", testPack)

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	var out bytes.Buffer
	s := newPackSession(cfg, formatter, &out, tracing.Noop())
	h := s.handler("/metrics")

	get := func(path string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	if code := get("/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("/ready before first run = %d, want 503", code)
	}

	if err := s.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if code := get("/ready"); code != http.StatusOK {
		t.Errorf("/ready after successful run = %d, want 200", code)
	}
	if code := get("/metrics"); code != http.StatusOK {
		t.Errorf("/metrics = %d, want 200", code)
	}

	writeTestFile(t, dir, "hunts.yaml", "version: \"9\"\nhunts: []\n")
	if err := s.run(context.Background()); err == nil {
		t.Fatal("expected invalid pack to fail")
	}
	if code := get("/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("/ready after failed run = %d, want 503", code)
	}
	if code := get("/health"); code != http.StatusOK {
		t.Errorf("/health = %d, want 200", code)
	}
}
