package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/huntquery/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Namespace: "test",
		Subsystem: "metrics",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_NewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("Subsystem = %q, want %q", cfg.Subsystem, config.DefaultMetricsSubsystem)
	}
}

func TestCollector_RecordRender(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name    string
		pattern string
		status  string
	}{
		{name: "success render", pattern: "geographic-beaconing", status: StatusSuccess},
		{name: "second success render", pattern: "geographic-beaconing", status: StatusSuccess},
		{name: "failed render", pattern: "network-from-application", status: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordRender(tt.pattern, tt.status, 20*time.Microsecond)
		})
	}

	counter := collector.renderMetrics.rendersTotal
	if got := testutil.ToFloat64(counter.WithLabelValues("geographic-beaconing", StatusSuccess)); got != 2 {
		t.Errorf("success renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("network-from-application", StatusError)); got != 1 {
		t.Errorf("error renders = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.renderMetrics.renderDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestCollector_PackMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.SetPackHunts("windows", 7)
	collector.SetPackHunts("windows", 5)
	collector.RecordPackReload(StatusSuccess)
	collector.RecordPackReload(StatusError)
	collector.RecordPackReload(StatusError)
	collector.RecordPackRun(StatusSuccess)
	collector.RecordQueryChanges("windows", 2)
	collector.RecordQueryChanges("windows", 0)

	pm := collector.packMetrics
	if got := testutil.ToFloat64(pm.packHunts.WithLabelValues("windows")); got != 5 {
		t.Errorf("pack hunts = %v, want 5", got)
	}
	if got := testutil.ToFloat64(pm.reloadsTotal.WithLabelValues(StatusError)); got != 2 {
		t.Errorf("failed reloads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(pm.runsTotal.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pm.changesTotal.WithLabelValues("windows")); got != 2 {
		t.Errorf("query changes = %v, want 2", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordRender("geographic-beaconing", StatusSuccess, time.Microsecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "test_metrics_renders_total") {
		t.Errorf("response missing renders_total:\n%s", rec.Body.String())
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.SetPackHunts("windows", 3)

	path := filepath.Join(t.TempDir(), "huntquery.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `test_metrics_pack_hunts{pack="windows"} 3`) {
		t.Errorf("textfile missing pack_hunts:\n%s", data)
	}
}

func TestCollector_WriteTextfile_BadPath(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	path := filepath.Join(t.TempDir(), "missing", "huntquery.prom")
	if err := collector.WriteTextfile(path); err == nil {
		t.Error("WriteTextfile() expected error for missing directory")
	}
}
