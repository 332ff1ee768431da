// Package pack loads, validates and renders hunt packs.
//
// A hunt pack is a YAML file listing threat hunts. Each hunt names one of the
// registered query patterns, optionally overrides its parameters, and carries
// triage metadata (severity, MITRE ATT&CK techniques, a cron schedule):
//
//	version: "1"
//	name: windows-endpoint
//	hunts:
//	  - id: beacon-fanout
//	    pattern: multi-destination-beaconing
//	    severity: high
//	    mitre: [T1071]
//	    schedule: "*/15 * * * *"
//	    params:
//	      min_unique_destinations: 8
//	      window: 5m
//
// Parameter values are layered: template built-ins, then the configuration
// file's defaults section, then the hunt's own params.
//
// Renderer renders every enabled hunt of a pack concurrently and returns the
// results in pack order. Watcher re-runs a callback when the pack file
// changes on disk; subpackage git does the same for packs kept in a Git
// repository.
package pack
