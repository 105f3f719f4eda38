package fixtures

import "os"

// ShowHelp prints usage information for the fixture tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Kickbase Analytics Fixture Tool
===============================

Generates a reproducible synthetic league, submits it to the service and
waits for the league report to complete.

Usage:
  go run ./cmd/fixtures [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -seed int
        Generator seed (default: fixture_seed from config)
  -players int
        Number of players in the league (default 180)
  -managers int
        Number of managers in the league (default 10)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated league to this JSON file
  -generate-only
        Write the league to -output (or stdout) without contacting the service
  -help
        Show this help message

Examples:
  # Run against a local service
  go run ./cmd/fixtures

  # Reproduce a specific league and keep a copy
  go run ./cmd/fixtures -seed 7 -players 300 -output league.json
`)
}
