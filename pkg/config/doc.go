// Package config provides configuration management for huntquery.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("huntquery.yaml")
//
//  2. From a YAML file with environment variable overrides, optionally
//     falling back to defaults when the file is absent:
//     cfg, err := config.LoadConfigWithEnvOverrides("huntquery.yaml", true)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HUNTQUERY_SECTION_FIELD:
//
//   - HUNTQUERY_PACK_PATH overrides pack.path
//   - HUNTQUERY_PACK_CONCURRENCY overrides pack.concurrency
//   - HUNTQUERY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	defaults:
//	  multi_destination_beaconing:
//	    min_unique_destinations: 8
//	    window: "5m"
//	  geographic_beaconing:
//	    min_countries: 4
//
//	pack:
//	  path: "hunts/windows.yaml"
//	  concurrency: 8
//
//	telemetry:
//	  logging:
//	    level: "debug"
//	  metrics:
//	    textfile: "/var/lib/node_exporter/huntquery.prom"
//
// Template windows use the query duration syntax ("10s", "2m", "1h", "1d"),
// not Go durations.
package config
