package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
)

const workerChannelMultiplier = 2

// Path returns the gateway route for q.
func Path(q quote.Query) string {
	segs := []string{q.Origin, q.Destination, q.Outbound}
	if q.Kind() == quote.RoundTrip {
		segs = append(segs, q.Inbound)
	}
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/api/flights/" + strings.Join(segs, "/")
}

// send issues one query and classifies the response.
func send(ctx context.Context, client *http.Client, baseURL string, q quote.Query) (Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+Path(q), nil)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return OutcomeFailed, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to read body: %w", err)
	}
	if bytes.Equal(body, []byte(quote.FailureBody)) {
		return OutcomeSentinel, nil
	}
	if resp.StatusCode != http.StatusOK {
		return OutcomeFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return OutcomePassthrough, nil
}

// sendAll fans the queries out over config.Workers goroutines.
func sendAll(ctx context.Context, config *Config, queries []quote.Query, stats *Stats) {
	log := logger.Named("probe")
	client := &http.Client{Timeout: config.Timeout}

	var sent, passthrough, sentinel, failed int64

	jobs := make(chan quote.Query, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				outcome, err := send(ctx, client, config.BaseURL, q)
				atomic.AddInt64(&sent, 1)
				switch outcome {
				case OutcomePassthrough:
					atomic.AddInt64(&passthrough, 1)
				case OutcomeSentinel:
					atomic.AddInt64(&sentinel, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if err != nil {
					log.Warn(ctx, "query failed", logger.String("path", Path(q)), logger.Error(err))
				} else if config.Verbose {
					log.Info(ctx, "query done", logger.String("path", Path(q)), logger.String("outcome", string(outcome)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case jobs <- q:
			}
		}
	}()

	wg.Wait()

	stats.Sent = int(atomic.LoadInt64(&sent))
	stats.Passthrough = int(atomic.LoadInt64(&passthrough))
	stats.Sentinel = int(atomic.LoadInt64(&sentinel))
	stats.Failed = int(atomic.LoadInt64(&failed))
}
