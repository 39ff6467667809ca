// Package probe drives generated flight searches against a running gateway
// and tallies passthrough responses against failure sentinels.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/flightgate/pkg/logger"
)

const percentageMultiplier = 100

// ErrTransportFailures is returned when any query failed below the gateway
// contract (connection errors, unexpected statuses).
var ErrTransportFailures = errors.New("probe saw transport failures")

// Run executes a complete probe and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config == nil || config.BaseURL == "" || config.Queries <= 0 || config.Workers <= 0 {
		return nil, ErrInvalidConfig
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("probe")

	log.Info(ctx, "starting gateway probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("queries", config.Queries),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	if err := checkHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("gateway health check failed: %w", err)
	}

	queries := Generate(config.Queries, stats.StartTime)
	stats.Generated = len(queries)
	queries = WithReturnLegs(queries)
	stats.ReturnLegs = len(queries) - stats.Generated

	sendAll(ctx, config, queries, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrTransportFailures, stats.Failed, stats.Sent)
	}
	return stats, nil
}

func checkHealth(ctx context.Context, config *Config) error {
	client := &http.Client{Timeout: config.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, perSecond float64
	if stats.Sent > 0 {
		passRate = float64(stats.Passthrough) / float64(stats.Sent) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Sent) / stats.Duration.Seconds()
	}

	logger.Named("probe").Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("returnLegs", stats.ReturnLegs),
		logger.Int("sent", stats.Sent),
		logger.Int("passthrough", stats.Passthrough),
		logger.Int("sentinel", stats.Sentinel),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("passthroughRate", passRate),
		logger.Float64("queriesPerSecond", perSecond))
}
