package config

import "time"

// Config is the root configuration structure for huntquery.
// It contains organisation-wide template defaults, hunt pack settings,
// render history settings and telemetry settings.
type Config struct {
	// Defaults overrides the built-in parameters of the hunting templates.
	// Values set here apply to every hunt that does not set its own.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Pack contains configuration for hunt pack rendering and watch mode.
	Pack PackConfig `yaml:"pack"`

	// History contains configuration for the render history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DefaultsConfig holds per-template parameter defaults. Windows are
// duration literals as used in queries ("10s", "2m", "1h").
type DefaultsConfig struct {
	NetworkFromApplication    NetworkFromApplicationDefaults    `yaml:"network_from_application"`
	MultiDestinationBeaconing MultiDestinationBeaconingDefaults `yaml:"multi_destination_beaconing"`
	MultiParentChildNetwork   MultiParentChildNetworkDefaults   `yaml:"multi_parent_child_network"`
	GeographicBeaconing       GeographicBeaconingDefaults       `yaml:"geographic_beaconing"`
}

// NetworkFromApplicationDefaults contains defaults for network-from-application.
type NetworkFromApplicationDefaults struct {
	// Window is the correlation window.
	// Default: "10s"
	Window string `yaml:"window"`

	// ExcludeSystemUser filters out processes owned by SYSTEM.
	// Default: true
	ExcludeSystemUser *bool `yaml:"exclude_system_user"`
}

// MultiDestinationBeaconingDefaults contains defaults for multi-destination-beaconing.
type MultiDestinationBeaconingDefaults struct {
	// MinUniqueDestinations is the minimum number of distinct destination
	// addresses. Default: 5
	MinUniqueDestinations *int `yaml:"min_unique_destinations"`

	// Window is the correlation window.
	// Default: "2m"
	Window string `yaml:"window"`

	// ExcludeStandardPorts drops web traffic on ports 80 and 443.
	// Default: true
	ExcludeStandardPorts *bool `yaml:"exclude_standard_ports"`
}

// MultiParentChildNetworkDefaults contains defaults for multi-parent-child-network.
type MultiParentChildNetworkDefaults struct {
	// MinParentCount is the minimum number of distinct parents.
	// Default: 2
	MinParentCount *int `yaml:"min_parent_count"`

	// ChildWindow bounds the child's network activity.
	// Default: "10s"
	ChildWindow string `yaml:"child_window"`
}

// GeographicBeaconingDefaults contains defaults for geographic-beaconing.
type GeographicBeaconingDefaults struct {
	// MinCountries is the minimum number of distinct destination countries.
	// Default: 3
	MinCountries *int `yaml:"min_countries"`

	// Window is the correlation window.
	// Default: "5m"
	Window string `yaml:"window"`
}

// PackConfig contains configuration for hunt pack rendering.
type PackConfig struct {
	// Path is the hunt pack file rendered when no --file flag is given.
	// Default: "hunts.yaml"
	Path string `yaml:"path"`

	// Watch re-renders the pack whenever the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after a file change before the
	// pack is re-rendered.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Concurrency bounds how many hunts are rendered at once.
	// Default: 4
	Concurrency int `yaml:"concurrency"`

	// Git loads the pack from a Git repository instead of the local
	// filesystem. Path is then relative to the repository root.
	Git GitSourceConfig `yaml:"git"`
}

// GitSourceConfig contains configuration for Git-backed hunt packs.
type GitSourceConfig struct {
	// Repository is the clone URL or local path. Empty disables the Git source.
	Repository string `yaml:"repository"`

	// Branch is the branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// LocalPath is the checkout directory.
	// Default: "<tmp>/huntquery-packs"
	LocalPath string `yaml:"local_path"`

	// Depth limits clone history. 0 clones the full history.
	// Default: 0
	Depth int `yaml:"depth"`

	// CleanOnStart removes an existing checkout before cloning.
	// Default: false
	CleanOnStart bool `yaml:"clean_on_start"`

	// PollInterval is how often the remote is checked in watch mode.
	// Default: 1m
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout bounds each clone or pull.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Auth contains repository credentials.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig contains Git authentication settings.
type GitAuthConfig struct {
	// Type selects the authentication method.
	// Options: "none", "token", "ssh"
	// Default: "none"
	Type string `yaml:"type"`

	// Token is the HTTPS access token for "token" auth. Prefer setting it
	// through HUNTQUERY_PACK_GIT_TOKEN.
	Token string `yaml:"token"`

	// SSHKeyPath is the private key file for "ssh" auth.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase unlocks an encrypted SSH key.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// HistoryConfig contains configuration for the render history store, which
// keeps every rendered hunt query so changes between runs can be traced.
type HistoryConfig struct {
	// Enabled records every pack run.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage backend.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file for the sqlite drivers.
	// Default: "huntquery-history.db"
	Path string `yaml:"path"`

	// RetentionDays drops records older than this many days. 0 keeps them forever.
	// Default: 0
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of records kept. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for pruning in watch mode.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Namespace is the metric name prefix.
	// Default: "huntquery"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name component.
	// Default: "render"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves the metrics endpoint in watch mode when set
	// (e.g., "127.0.0.1:9464"). Empty disables the endpoint.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Textfile, when set, receives the metrics in Prometheus text format
	// after every pack render (for node_exporter's textfile collector).
	Textfile string `yaml:"textfile"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export for pack runs and hunt renders.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "huntquery"
	ServiceName string `yaml:"service_name"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export request.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
