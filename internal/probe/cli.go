package probe

import "io"

// ShowHelp writes usage information for the probe tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Flight Gateway Probe
====================

Fires generated one-way and round-trip searches at a running gateway.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the gateway (default "http://localhost:8080")
  -queries int
        Number of searches to send (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Log every response
  -help
        Show this help message

Examples:
  go run ./cmd/probe -queries 500 -workers 16
  go run ./cmd/probe -url http://gateway:8080 -verbose
`)
}
