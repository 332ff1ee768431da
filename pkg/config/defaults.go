package config

import "time"

// Default values for configuration fields.
const (
	// Template defaults
	DefaultNetworkWindow             = "10s"
	DefaultExcludeSystemUser         = true
	DefaultMinUniqueDestinations     = 5
	DefaultBeaconingWindow           = "2m"
	DefaultExcludeStandardPorts      = true
	DefaultMinParentCount            = 2
	DefaultChildWindow               = "10s"
	DefaultMinCountries              = 3
	DefaultGeographicBeaconingWindow = "5m"

	// Pack defaults
	DefaultPackPath             = "hunts.yaml"
	DefaultPackWatch            = false
	DefaultPackDebounceInterval = 100 * time.Millisecond
	DefaultPackConcurrency      = 4
	DefaultGitBranch            = "main"
	DefaultGitPollInterval      = time.Minute
	DefaultGitTimeout           = 30 * time.Second
	DefaultGitAuthType          = "none"

	// History defaults
	DefaultHistoryDriver        = "sqlite"
	DefaultHistoryPath          = "huntquery-history.db"
	DefaultHistoryPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "huntquery"
	DefaultMetricsSubsystem = "render"
	DefaultMetricsPath      = "/metrics"
	DefaultTracingService   = "huntquery"
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second
)

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field of cfg with its default value.
// Fields that are already set are left untouched.
func ApplyDefaults(cfg *Config) {
	// Template defaults
	d := &cfg.Defaults
	if d.NetworkFromApplication.Window == "" {
		d.NetworkFromApplication.Window = DefaultNetworkWindow
	}
	if d.NetworkFromApplication.ExcludeSystemUser == nil {
		d.NetworkFromApplication.ExcludeSystemUser = boolPtr(DefaultExcludeSystemUser)
	}
	if d.MultiDestinationBeaconing.MinUniqueDestinations == nil {
		d.MultiDestinationBeaconing.MinUniqueDestinations = intPtr(DefaultMinUniqueDestinations)
	}
	if d.MultiDestinationBeaconing.Window == "" {
		d.MultiDestinationBeaconing.Window = DefaultBeaconingWindow
	}
	if d.MultiDestinationBeaconing.ExcludeStandardPorts == nil {
		d.MultiDestinationBeaconing.ExcludeStandardPorts = boolPtr(DefaultExcludeStandardPorts)
	}
	if d.MultiParentChildNetwork.MinParentCount == nil {
		d.MultiParentChildNetwork.MinParentCount = intPtr(DefaultMinParentCount)
	}
	if d.MultiParentChildNetwork.ChildWindow == "" {
		d.MultiParentChildNetwork.ChildWindow = DefaultChildWindow
	}
	if d.GeographicBeaconing.MinCountries == nil {
		d.GeographicBeaconing.MinCountries = intPtr(DefaultMinCountries)
	}
	if d.GeographicBeaconing.Window == "" {
		d.GeographicBeaconing.Window = DefaultGeographicBeaconingWindow
	}

	// Pack defaults
	if cfg.Pack.Path == "" {
		cfg.Pack.Path = DefaultPackPath
	}
	if cfg.Pack.DebounceInterval == 0 {
		cfg.Pack.DebounceInterval = DefaultPackDebounceInterval
	}
	if cfg.Pack.Concurrency == 0 {
		cfg.Pack.Concurrency = DefaultPackConcurrency
	}
	g := &cfg.Pack.Git
	if g.Branch == "" {
		g.Branch = DefaultGitBranch
	}
	if g.PollInterval == 0 {
		g.PollInterval = DefaultGitPollInterval
	}
	if g.Timeout == 0 {
		g.Timeout = DefaultGitTimeout
	}
	if g.Auth.Type == "" {
		g.Auth.Type = DefaultGitAuthType
	}

	// History defaults
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = DefaultHistoryPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	tr := &cfg.Telemetry.Tracing
	if tr.ServiceName == "" {
		tr.ServiceName = DefaultTracingService
	}
	if tr.Sampler == "" {
		tr.Sampler = DefaultTracingSampler
	}
	if tr.SampleRatio == 0 {
		tr.SampleRatio = DefaultTracingRatio
	}
	if tr.Endpoint == "" {
		tr.Endpoint = DefaultTracingEndpoint
	}
	if tr.Timeout == 0 {
		tr.Timeout = DefaultTracingTimeout
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}
