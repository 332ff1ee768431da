// huntquery renders threat-hunting detection queries.
//
// It builds pipe-stage detection queries from typed parameters, renders
// whole hunt packs, and validates hunt pack files.
//
// Usage:
//
//	# Render one pattern with its defaults
//	huntquery render geographic-beaconing
//
//	# Override parameters
//	huntquery render multi-destination-beaconing --min-unique-destinations 8 --window 5m
//
//	# List available patterns
//	huntquery patterns
//
//	# Render every hunt in a pack, re-rendering on change
//	huntquery pack --file hunts.yaml --watch
//
//	# Validate hunt packs
//	huntquery lint --dir packs/
package main

func main() {
	Execute()
}
