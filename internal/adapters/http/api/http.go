// Package api declares the HTTP routes of the flight gateway.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
	"github.com/okian/flightgate/pkg/metrics"
)

// FlightsPrefix is the path prefix of the search routes.
const FlightsPrefix = "/api/flights"

// Route patterns for net/http.ServeMux.
const (
	OneWayPattern    = "GET " + FlightsPrefix + "/{origin}/{destination}/{outbound}"
	RoundTripPattern = "GET " + FlightsPrefix + "/{origin}/{destination}/{outbound}/{inbound}"
)

// Searcher performs one upstream quote search.
type Searcher interface {
	Search(ctx context.Context, q quote.Query) (quote.Result, error)
}

// Server wires HTTP routes for the gateway API.
type Server struct {
	flightsHandler *FlightsHandler
	healthHandler  *HealthHandler
	logger         logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	strictErrorStatus bool
	logger            logger.Logger
}

// WithStrictErrorStatus answers upstream failures with 500 instead of 200.
func WithStrictErrorStatus(enabled bool) ServerOption {
	return func(o *serverOptions) { o.strictErrorStatus = enabled }
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates the API server. It panics if searcher is nil.
func NewServer(searcher Searcher, opts ...ServerOption) *Server {
	if searcher == nil {
		panic(ErrNilSearcher)
	}
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("api")
	}
	return &Server{
		flightsHandler: NewFlightsHandler(searcher, o.logger, o.strictErrorStatus),
		healthHandler:  NewHealthHandler(),
		logger:         o.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic(ErrNilMux)
	}
	mux.HandleFunc(OneWayPattern, MetricsMiddleware(s.flightsHandler.HandleOneWay, "flights_one_way"))
	mux.HandleFunc(RoundTripPattern, MetricsMiddleware(s.flightsHandler.HandleRoundTrip, "flights_round_trip"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// Handler wraps next with request tracing and logging.
func (s *Server) Handler(next http.Handler) http.Handler {
	return Tracing(RequestLogging(s.logger)(next))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
