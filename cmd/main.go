package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/flightgate/internal/adapters/http/api"
	"github.com/okian/flightgate/internal/adapters/http/site"
	"github.com/okian/flightgate/internal/adapters/http/swagger"
	"github.com/okian/flightgate/internal/adapters/upstream"
	service "github.com/okian/flightgate/internal/app"
	"github.com/okian/flightgate/internal/config"
	"github.com/okian/flightgate/pkg/logger"
	"github.com/okian/flightgate/pkg/metrics"
	"github.com/okian/flightgate/pkg/tracing"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	writeTimeoutMargin    = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if cfg.LogJSON {
		if err := logger.Init(logger.WithJSON(true)); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.TracingEndpoint)
	if err != nil {
		log.Error(ctx, "failed to initialize tracing", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			log.Error(tctx, "tracing shutdown failed", logger.Error(err))
		}
	}()

	handler, err := newHandler(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to build handler", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)

	srv := newHTTPServer(cfg, handler)

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("upstream", cfg.UpstreamBaseURL),
			logger.Bool("api_key_set", cfg.APIKey != ""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// newHandler builds the upstream client, the search service and every route.
func newHandler(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	client, err := upstream.New(cfg.UpstreamBaseURL,
		upstream.WithHost(cfg.UpstreamHost),
		upstream.WithAPIKey(cfg.APIKey),
		upstream.WithMarket(cfg.Country, cfg.Currency, cfg.Locale),
		upstream.WithTimeout(cfg.UpstreamTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("upstream client: %w", err)
	}

	svc, err := service.New(
		service.WithFetcher(client),
		service.WithLogger(logger.Named("service")),
	)
	if err != nil {
		return nil, fmt.Errorf("search service: %w", err)
	}

	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, api.WithStrictErrorStatus(cfg.StrictErrorStatus))
	apiServer.Register(ctx, mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	return apiServer.Handler(mux), nil
}

// newHTTPServer applies the server timeouts. The write deadline must cover a
// full upstream call, so it is disabled when upstream calls are unbounded.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	var writeTimeout time.Duration
	if d := cfg.UpstreamTimeout(); d > 0 {
		writeTimeout = d + writeTimeoutMargin
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
