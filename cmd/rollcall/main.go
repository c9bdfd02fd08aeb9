// Rollcall is a multi-tenant attendance tracking backend.
//
// It records check-ins and check-outs, routes them through supervisor
// approval, and enforces per-tenant data retention with an
// archive-before-purge pipeline.
//
// Usage:
//
//	# Start the server and archival scheduler with default configuration
//	rollcall run
//
//	# Start with custom configuration file
//	rollcall run --config /etc/rollcall/config.yaml
//
//	# Run a single archival pass and exit
//	rollcall run --once
//
//	# Show version information
//	rollcall version
package main

func main() {
	Execute()
}
