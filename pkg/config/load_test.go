package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "huntquery.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
defaults:
  multi_destination_beaconing:
    min_unique_destinations: 8
    window: "5m"
    exclude_standard_ports: false
  geographic_beaconing:
    min_countries: 4

pack:
  path: "hunts/windows.yaml"
  concurrency: 8
  debounce_interval: "250ms"

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if got := *cfg.Defaults.MultiDestinationBeaconing.MinUniqueDestinations; got != 8 {
		t.Errorf("min_unique_destinations = %d, want 8", got)
	}
	if got := cfg.Defaults.MultiDestinationBeaconing.Window; got != "5m" {
		t.Errorf("window = %q, want %q", got, "5m")
	}
	if *cfg.Defaults.MultiDestinationBeaconing.ExcludeStandardPorts {
		t.Error("exclude_standard_ports = true, want false")
	}
	if got := *cfg.Defaults.GeographicBeaconing.MinCountries; got != 4 {
		t.Errorf("min_countries = %d, want 4", got)
	}
	// Untouched sections fall back to defaults
	if got := cfg.Defaults.GeographicBeaconing.Window; got != DefaultGeographicBeaconingWindow {
		t.Errorf("geographic window = %q, want default %q", got, DefaultGeographicBeaconingWindow)
	}
	if cfg.Pack.Path != "hunts/windows.yaml" {
		t.Errorf("pack path = %q, want %q", cfg.Pack.Path, "hunts/windows.yaml")
	}
	if cfg.Pack.DebounceInterval != 250*time.Millisecond {
		t.Errorf("debounce = %v, want 250ms", cfg.Pack.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Pack.Path != DefaultPackPath {
		t.Errorf("pack path = %q, want default", cfg.Pack.Path)
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "pack:\n  pth: typo.yaml\n"))
	if err == nil {
		t.Fatal("LoadConfig() with unknown field succeeded, want error")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "pack: [unterminated"))
	if err == nil {
		t.Fatal("LoadConfig() with invalid YAML succeeded, want error")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
defaults:
  geographic_beaconing:
    min_countries: -1
    window: "0m"
`))
	if err == nil {
		t.Fatal("LoadConfig() with invalid values succeeded, want error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("got %d field errors, want 2: %v", len(verr.Errors), verr.Errors)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadConfigWithEnvOverrides_OptionalMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadConfigWithEnvOverrides(path, true)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides(optional) error = %v", err)
	}
	if cfg.Pack.Concurrency != DefaultPackConcurrency {
		t.Errorf("concurrency = %d, want default", cfg.Pack.Concurrency)
	}

	if _, err := LoadConfigWithEnvOverrides(path, false); err == nil {
		t.Error("LoadConfigWithEnvOverrides(required) with missing file succeeded")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("HUNTQUERY_PACK_PATH", "/etc/huntquery/pack.yaml")
	t.Setenv("HUNTQUERY_PACK_CONCURRENCY", "2")
	t.Setenv("HUNTQUERY_PACK_WATCH", "true")
	t.Setenv("HUNTQUERY_PACK_DEBOUNCE_INTERVAL", "1s")
	t.Setenv("HUNTQUERY_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("HUNTQUERY_TELEMETRY_METRICS_TEXTFILE", "/tmp/hq.prom")
	t.Setenv("HUNTQUERY_TELEMETRY_TRACING_ENABLED", "true")
	t.Setenv("HUNTQUERY_TELEMETRY_TRACING_ENDPOINT", "otel:4317")
	t.Setenv("HUNTQUERY_PACK_GIT_REPOSITORY", "https://example.com/hunts.git")
	t.Setenv("HUNTQUERY_PACK_GIT_TOKEN", "s3cret")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, "pack:\n  path: file.yaml\n"), false)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Pack.Path != "/etc/huntquery/pack.yaml" {
		t.Errorf("pack path = %q, want env override", cfg.Pack.Path)
	}
	if cfg.Pack.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Pack.Concurrency)
	}
	if !cfg.Pack.Watch {
		t.Error("watch = false, want true")
	}
	if cfg.Pack.DebounceInterval != time.Second {
		t.Errorf("debounce = %v, want 1s", cfg.Pack.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Textfile != "/tmp/hq.prom" {
		t.Errorf("textfile = %q, want env override", cfg.Telemetry.Metrics.Textfile)
	}
	if !cfg.Telemetry.Tracing.Enabled || cfg.Telemetry.Tracing.Endpoint != "otel:4317" {
		t.Errorf("tracing = %+v, want env overrides", cfg.Telemetry.Tracing)
	}
	if cfg.Pack.Git.Repository != "https://example.com/hunts.git" || cfg.Pack.Git.Auth.Token != "s3cret" {
		t.Errorf("git = %+v, want env overrides", cfg.Pack.Git)
	}
	if cfg.Pack.Git.Branch != DefaultGitBranch {
		t.Errorf("git branch = %q, want %q", cfg.Pack.Git.Branch, DefaultGitBranch)
	}
}

func TestLoadConfigWithEnvOverrides_MalformedEnv(t *testing.T) {
	t.Setenv("HUNTQUERY_PACK_CONCURRENCY", "many")

	_, err := LoadConfigWithEnvOverrides(writeConfig(t, ""), false)
	if err == nil {
		t.Fatal("malformed env override accepted")
	}
	if !strings.Contains(err.Error(), "HUNTQUERY_PACK_CONCURRENCY") {
		t.Errorf("error %q does not name the variable", err)
	}
}
