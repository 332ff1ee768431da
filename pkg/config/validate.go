package config

import (
	"fmt"
	"strings"

	"mercator-hq/huntquery/pkg/query/param"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "pack.concurrency").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDefaults(&cfg.Defaults)...)
	errs = append(errs, validatePack(&cfg.Pack)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateDefaults validates template defaults.
func validateDefaults(cfg *DefaultsConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateWindow("defaults.network_from_application.window", cfg.NetworkFromApplication.Window)...)
	errs = append(errs, validateThreshold("defaults.multi_destination_beaconing.min_unique_destinations", cfg.MultiDestinationBeaconing.MinUniqueDestinations)...)
	errs = append(errs, validateWindow("defaults.multi_destination_beaconing.window", cfg.MultiDestinationBeaconing.Window)...)
	errs = append(errs, validateThreshold("defaults.multi_parent_child_network.min_parent_count", cfg.MultiParentChildNetwork.MinParentCount)...)
	errs = append(errs, validateWindow("defaults.multi_parent_child_network.child_window", cfg.MultiParentChildNetwork.ChildWindow)...)
	errs = append(errs, validateThreshold("defaults.geographic_beaconing.min_countries", cfg.GeographicBeaconing.MinCountries)...)
	errs = append(errs, validateWindow("defaults.geographic_beaconing.window", cfg.GeographicBeaconing.Window)...)

	return errs
}

// validatePack validates pack configuration.
func validatePack(cfg *PackConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "pack.path",
			Message: "pack path is required",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "pack.debounce_interval",
			Message: "debounce interval must be non-negative",
		})
	}
	if cfg.Concurrency < 1 {
		errs = append(errs, FieldError{
			Field:   "pack.concurrency",
			Message: fmt.Sprintf("concurrency must be at least 1, got %d", cfg.Concurrency),
		})
	}
	if cfg.Git.Repository != "" {
		errs = append(errs, validateGit(&cfg.Git)...)
	}

	return errs
}

// validateGit validates the Git pack source. It is only called when a
// repository is configured.
func validateGit(cfg *GitSourceConfig) []FieldError {
	var errs []FieldError

	if cfg.Branch == "" {
		errs = append(errs, FieldError{
			Field:   "pack.git.branch",
			Message: "branch is required",
		})
	}
	if cfg.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "pack.git.depth",
			Message: fmt.Sprintf("depth must be >= 0, got %d", cfg.Depth),
		})
	}
	if cfg.PollInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "pack.git.poll_interval",
			Message: "poll interval must be positive",
		})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "pack.git.timeout",
			Message: "timeout must be positive",
		})
	}

	switch cfg.Auth.Type {
	case "none":
	case "token":
		if cfg.Auth.Token == "" {
			errs = append(errs, FieldError{
				Field:   "pack.git.auth.token",
				Message: "token auth requires a token",
			})
		}
	case "ssh":
		if cfg.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "pack.git.auth.ssh_key_path",
				Message: "ssh auth requires ssh_key_path",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "pack.git.auth.type",
			Message: fmt.Sprintf("invalid auth type %q (must be none, token, or ssh)", cfg.Auth.Type),
		})
	}

	return errs
}

// validateHistory validates render history configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Driver {
	case "sqlite", "sqlite3", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("invalid driver %q (must be sqlite, sqlite3, or memory)", cfg.Driver),
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention_days",
			Message: fmt.Sprintf("retention days must be >= 0, got %d", cfg.RetentionDays),
		})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_records",
			Message: fmt.Sprintf("max records must be >= 0, got %d", cfg.MaxRecords),
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.PruneSchedule, err),
			})
		}
	}

	return errs
}

// validateTelemetry validates logging, metrics and tracing configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json, text, or console)", cfg.Logging.Format),
		})
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: fmt.Sprintf("sample ratio must be between 0.0 and 1.0, got %g", cfg.Tracing.SampleRatio),
		})
	}

	return errs
}

func validateWindow(field, value string) []FieldError {
	if _, err := param.ParseTimeWindow(value); err != nil {
		return []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("invalid window %q (want a positive count followed by s, m, h or d)", value),
		}}
	}
	return nil
}

func validateThreshold(field string, value *int) []FieldError {
	if value != nil && *value < 0 {
		return []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("threshold must be >= 0, got %d", *value),
		}}
	}
	return nil
}
