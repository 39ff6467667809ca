// Package service provides the quote search service behind the HTTP API.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/flightgate/internal/adapters/upstream"
	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
	"github.com/okian/flightgate/pkg/metrics"
	"github.com/okian/flightgate/pkg/tracing"
)

// ErrNoFetcher is returned by New when no upstream fetcher is configured.
var ErrNoFetcher = errors.New("service: upstream fetcher is required")

// Service relays quote searches to the upstream provider. It keeps no state
// between requests.
type Service struct {
	fetcher upstream.Fetcher
	tracer  trace.Tracer
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream fetcher.
func WithFetcher(f upstream.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for upstream spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service. A fetcher is mandatory.
func New(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.tracer == nil {
		s.tracer = tracing.Tracer()
	}
	return s, nil
}

// Search performs exactly one upstream call for q. The returned error is the
// fetcher's, unchanged, after it has been logged.
func (s *Service) Search(ctx context.Context, q quote.Query) (quote.Result, error) {
	kind := string(q.Kind())

	ctx, span := s.tracer.Start(ctx, "upstream.browse_quotes",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("flight.kind", kind),
			attribute.String("flight.origin", q.Origin),
			attribute.String("flight.destination", q.Destination),
			attribute.String("flight.outbound", q.Outbound),
			attribute.String("flight.inbound", q.Inbound),
		),
	)
	defer span.End()

	done := metrics.UpstreamStarted()
	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, q)
	elapsed := time.Since(start)
	done()

	outcome := classify(err)
	metrics.RecordUpstreamCall(kind, outcome, float64(elapsed.Milliseconds()))

	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			metrics.RecordUpstreamStatus(se.Code)
			span.SetAttributes(attribute.Int("http.response.status_code", se.Code))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		s.logger.Error(ctx, "upstream quote request failed",
			logger.String("kind", kind),
			logger.String("outcome", outcome),
			logger.String("origin", q.Origin),
			logger.String("destination", q.Destination),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return quote.Result{}, err
	}

	span.SetAttributes(attribute.Int("flight.response_bytes", len(res.Body)))
	s.logger.Debug(ctx, "upstream quote request succeeded",
		logger.String("kind", kind),
		logger.Int("bytes", len(res.Body)),
		logger.Duration("elapsed", elapsed),
	)
	return res, nil
}

func classify(err error) string {
	var se *upstream.StatusError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &se):
		return metrics.OutcomeStatus
	case upstream.IsTimeout(err):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
