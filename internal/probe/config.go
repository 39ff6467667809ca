package probe

import (
	"errors"
	"time"
)

// ErrInvalidConfig is returned by Run for unusable settings.
var ErrInvalidConfig = errors.New("invalid probe config")

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the gateway
	Queries int           // Number of queries to generate
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every response
}

// Stats holds probe statistics.
type Stats struct {
	Generated   int
	ReturnLegs  int
	Sent        int
	Passthrough int
	Sentinel    int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// Outcome classifies a single gateway response.
type Outcome string

const (
	OutcomePassthrough Outcome = "passthrough"
	OutcomeSentinel    Outcome = "sentinel"
	OutcomeFailed      Outcome = "failed"
)
