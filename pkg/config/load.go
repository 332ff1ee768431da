package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Unknown keys are rejected so that typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data, path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HUNTQUERY_SECTION_FIELD (e.g., HUNTQUERY_PACK_PATH).
//
// When optional is true and the file does not exist, the defaults are used
// instead of failing. The loading sequence is:
// 1. Load YAML from file (or start empty)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string, optional bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = NewDefaultConfig()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func parse(data []byte, path string) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// An empty file decodes to EOF and means "all defaults"
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean or duration values are reported as FieldErrors.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	// Pack overrides
	if val := os.Getenv("HUNTQUERY_PACK_PATH"); val != "" {
		cfg.Pack.Path = val
	}
	if val := os.Getenv("HUNTQUERY_PACK_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Pack.Watch = b
		} else {
			errs = append(errs, FieldError{Field: "HUNTQUERY_PACK_WATCH", Message: "must be a boolean"})
		}
	}
	if val := os.Getenv("HUNTQUERY_PACK_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Pack.DebounceInterval = d
		} else {
			errs = append(errs, FieldError{Field: "HUNTQUERY_PACK_DEBOUNCE_INTERVAL", Message: "must be a duration"})
		}
	}
	if val := os.Getenv("HUNTQUERY_PACK_CONCURRENCY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Pack.Concurrency = i
		} else {
			errs = append(errs, FieldError{Field: "HUNTQUERY_PACK_CONCURRENCY", Message: "must be an integer"})
		}
	}
	if val := os.Getenv("HUNTQUERY_PACK_GIT_REPOSITORY"); val != "" {
		cfg.Pack.Git.Repository = val
	}
	if val := os.Getenv("HUNTQUERY_PACK_GIT_BRANCH"); val != "" {
		cfg.Pack.Git.Branch = val
	}
	if val := os.Getenv("HUNTQUERY_PACK_GIT_TOKEN"); val != "" {
		cfg.Pack.Git.Auth.Token = val
	}

	// History overrides
	if val := os.Getenv("HUNTQUERY_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		} else {
			errs = append(errs, FieldError{Field: "HUNTQUERY_HISTORY_ENABLED", Message: "must be a boolean"})
		}
	}
	if val := os.Getenv("HUNTQUERY_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("HUNTQUERY_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HUNTQUERY_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HUNTQUERY_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("HUNTQUERY_TELEMETRY_METRICS_TEXTFILE"); val != "" {
		cfg.Telemetry.Metrics.Textfile = val
	}
	if val := os.Getenv("HUNTQUERY_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		} else {
			errs = append(errs, FieldError{Field: "HUNTQUERY_TELEMETRY_TRACING_ENABLED", Message: "must be a boolean"})
		}
	}
	if val := os.Getenv("HUNTQUERY_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
