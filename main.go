// =============================================================================
// Salescope - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Salescope CLI application. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   salescope process       - Run the analytics pipeline over the input file
//   salescope version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : core business logic (not for external import)
//   - pkg/           : shared utilities
//
// =============================================================================

package main

import (
	"salescope/cmd"
)

// main simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
